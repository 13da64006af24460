package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestBatchProcessor(t *testing.T) {
	t.Parallel()

	t.Run("keeps input order and records failures", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		jobs := []*Job{
			NewJob(writeFile(t, dir, "a.syr", sampleReport)),
			NewJob(filepath.Join(dir, "missing.syr")),
			NewJob(writeFile(t, dir, "c.syr", "WARNING:Xst:1 - only one\n")),
		}

		bp := NewBatchProcessor(func() *Pipeline { return NewDefaultPipeline() }, WithConcurrency(2))
		results, err := bp.ProcessBatch(context.Background(), jobs)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(results) != 3 {
			t.Fatalf("expected 3 results, got %d", len(results))
		}
		if results[0].Result().MessageCount != 4 {
			t.Errorf("first report: expected 4 messages, got %d", results[0].Result().MessageCount)
		}
		if results[1].Err == nil || results[1].Result().Error == "" {
			t.Error("second report: expected failure")
		}
		if results[2].Result().MessageCount != 1 {
			t.Errorf("third report: expected 1 message, got %d", results[2].Result().MessageCount)
		}
	})

	t.Run("respects concurrency limit", func(t *testing.T) {
		t.Parallel()

		var running, peak int32
		factory := func() *Pipeline {
			p := New()
			p.AddStep(&mockStep{name: "slow", doFunc: func(context.Context, *Job) error {
				n := atomic.AddInt32(&running, 1)
				for {
					old := atomic.LoadInt32(&peak)
					if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				atomic.AddInt32(&running, -1)
				return nil
			}})
			return p
		}

		jobs := make([]*Job, 8)
		for i := range jobs {
			jobs[i] = NewJob(fmt.Sprintf("r%d.syr", i))
		}

		bp := NewBatchProcessor(factory, WithConcurrency(2))
		if _, err := bp.ProcessBatch(context.Background(), jobs); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if peak > 2 {
			t.Errorf("expected at most 2 concurrent jobs, saw %d", peak)
		}
	})

	t.Run("callback receives every index", func(t *testing.T) {
		t.Parallel()

		jobs := []*Job{NewJob("a"), NewJob("b"), NewJob("c")}
		seen := make(map[int]string)
		var mu sync.Mutex

		bp := NewBatchProcessor(func() *Pipeline { return New() })
		err := bp.ProcessBatchWithCallback(context.Background(), jobs, func(job *Job, i int) {
			mu.Lock()
			defer mu.Unlock()
			seen[i] = job.Path
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(seen) != 3 || seen[0] != "a" || seen[2] != "c" {
			t.Errorf("unexpected callbacks %v", seen)
		}
	})

	t.Run("ignores non-positive concurrency", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithConcurrency(0))
		if bp.concurrency != DefaultConcurrency {
			t.Errorf("expected default concurrency, got %d", bp.concurrency)
		}
	})
}
