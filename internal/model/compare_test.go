package model

import "testing"

func TestCompareIdentityCounts(t *testing.T) {
	t.Parallel()

	before := map[string]int{
		"WARNING:Xst:2042":   2,
		"WARNING:Xst:737":    1,
		"ERROR:Ngdbuild:604": 1,
	}
	after := map[string]int{
		"WARNING:Xst:2042": 3,
		"WARNING:Xst:737":  1,
		"INFO:Xst:1561":    4,
	}

	c := CompareIdentityCounts(before, after)

	if len(c.Added) != 1 || c.Added[0].Identity != "INFO:Xst:1561" || c.Added[0].After != 4 {
		t.Errorf("unexpected added: %+v", c.Added)
	}
	if len(c.Resolved) != 1 || c.Resolved[0].Identity != "ERROR:Ngdbuild:604" || c.Resolved[0].Before != 1 {
		t.Errorf("unexpected resolved: %+v", c.Resolved)
	}
	if len(c.Changed) != 1 || c.Changed[0].Before != 2 || c.Changed[0].After != 3 {
		t.Errorf("unexpected changed: %+v", c.Changed)
	}
	if !c.HasChanges() {
		t.Error("expected changes")
	}
}

func TestCompareIdentityCounts_Unchanged(t *testing.T) {
	t.Parallel()

	counts := map[string]int{"WARNING:Xst:2042": 2}
	if c := CompareIdentityCounts(counts, counts); c.HasChanges() {
		t.Errorf("expected no changes, got %+v", c)
	}
}

func TestSummary_IdentityCounts(t *testing.T) {
	t.Parallel()

	s := NewSummary(scenarioStore())
	counts := s.IdentityCounts()
	if counts["WARNING:Xst:2042"] != 2 || counts["ERROR:Ngdbuild:604"] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}
