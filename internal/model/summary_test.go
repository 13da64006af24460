package model

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewSummary(t *testing.T) {
	t.Parallel()

	t.Run("groups in first occurrence order", func(t *testing.T) {
		t.Parallel()

		s := NewSummary(scenarioStore())
		if s.MessageCount != 3 || s.ShownCount != 3 {
			t.Errorf("got message=%d shown=%d, expected 3/3", s.MessageCount, s.ShownCount)
		}
		if len(s.Groups) != 2 {
			t.Fatalf("got %d groups, expected 2", len(s.Groups))
		}
		if s.Groups[0].Identity != "WARNING:Xst:2042" || s.Groups[0].Count != 2 {
			t.Errorf("unexpected first group: %+v", s.Groups[0])
		}
		if !reflect.DeepEqual(s.Groups[0].Lines(), []int{0, 3}) {
			t.Errorf("got lines %v, expected [0 3]", s.Groups[0].Lines())
		}
		if s.Groups[0].FirstText() != "Unused signal detected" {
			t.Errorf("unexpected first text %q", s.Groups[0].FirstText())
		}
	})

	t.Run("applies waivers", func(t *testing.T) {
		t.Parallel()

		s := NewSummary(scenarioStore(), WithWaivers("WARNING:Xst:2042"))
		if s.WaivedCount != 2 {
			t.Errorf("got %d waived, expected 2", s.WaivedCount)
		}
		if s.ShownCount != 1 || s.Count("WARNING") != 0 || s.Count("ERROR") != 1 {
			t.Errorf("unexpected counts: %+v", s.SeverityCounts)
		}
	})

	t.Run("applies filters", func(t *testing.T) {
		t.Parallel()

		s := NewSummary(scenarioStore(), WithFilter(WithSeverity("ERROR")))
		if len(s.Groups) != 1 || s.Groups[0].Tool != "Ngdbuild" {
			t.Errorf("unexpected groups: %+v", s.Groups)
		}
		if s.MessageCount != 3 {
			t.Errorf("MessageCount should count all parsed messages, got %d", s.MessageCount)
		}
	})

	t.Run("empty store has no messages", func(t *testing.T) {
		t.Parallel()

		s := NewSummary(NewReportStore("empty.syr", 0, nil))
		if s.HasMessages() {
			t.Error("expected no messages")
		}
		if s.Groups == nil {
			t.Error("expected non-nil groups slice")
		}
	})
}

func TestNewFailedSummary(t *testing.T) {
	t.Parallel()

	s := NewFailedSummary("missing.syr", errors.New("boom"))
	if s.Error != "boom" || s.ReportPath != "missing.syr" {
		t.Errorf("unexpected summary: %+v", s)
	}
}

func TestSortSeverities(t *testing.T) {
	t.Parallel()

	labels := []string{"INFO", "NOTE", "WARNING", "ERROR", "ALERT"}
	SortSeverities(labels)

	want := []string{"ERROR", "WARNING", "INFO", "ALERT", "NOTE"}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("got %v, expected %v", labels, want)
	}
}

func TestSummary_GroupsBySeverity(t *testing.T) {
	t.Parallel()

	s := NewSummary(scenarioStore())
	if got := s.GroupsBySeverity("ERROR"); len(got) != 1 {
		t.Errorf("got %d ERROR groups, expected 1", len(got))
	}
	if got := s.Severities(); !reflect.DeepEqual(got, []string{"ERROR", "WARNING"}) {
		t.Errorf("unexpected severities %v", got)
	}
}
