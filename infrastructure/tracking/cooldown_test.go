package tracking_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/helixml/curator/domain/approval"
	"github.com/helixml/curator/infrastructure/tracking"
)

// fakeReporter records all snapshots delivered to it.
type fakeReporter struct {
	mu        sync.Mutex
	snapshots []approval.Progress
}

func (f *fakeReporter) OnChange(_ context.Context, progress approval.Progress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots = append(f.snapshots, progress)
	return nil
}

func (f *fakeReporter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.snapshots)
}

func (f *fakeReporter) last() approval.Progress {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshots[len(f.snapshots)-1]
}

func TestCooldown_FirstUpdatePassesThrough(t *testing.T) {
	fake := &fakeReporter{}
	cooldown := tracking.NewCooldown(fake, time.Second)
	defer func() { _ = cooldown.Close() }()

	if err := cooldown.OnChange(context.Background(), approval.NewProgress(10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fake.count() != 1 {
		t.Fatalf("expected 1 delivery, got %d", fake.count())
	}
}

func TestCooldown_ThrottlesRapidUpdates(t *testing.T) {
	fake := &fakeReporter{}
	cooldown := tracking.NewCooldown(fake, 500*time.Millisecond)
	defer func() { _ = cooldown.Close() }()

	ctx := context.Background()
	progress := approval.NewProgress(20)

	progress = progress.Record(approval.OutcomeSuccess)
	_ = cooldown.OnChange(ctx, progress)

	for i := 2; i <= 20; i++ {
		progress = progress.Record(approval.OutcomeSuccess)
		_ = cooldown.OnChange(ctx, progress)
	}

	if fake.count() != 1 {
		t.Fatalf("expected 1 delivery during throttle window, got %d", fake.count())
	}

	time.Sleep(700 * time.Millisecond)

	if fake.count() != 2 {
		t.Fatalf("expected 2 deliveries after cooldown, got %d", fake.count())
	}

	if fake.last().Processed() != 20 {
		t.Fatalf("expected pending flush to have processed=20, got %d", fake.last().Processed())
	}
}

func TestCooldown_CompletedAlwaysFlushes(t *testing.T) {
	fake := &fakeReporter{}
	cooldown := tracking.NewCooldown(fake, time.Hour)
	defer func() { _ = cooldown.Close() }()

	ctx := context.Background()
	progress := approval.NewProgress(2).Record(approval.OutcomeSuccess)
	_ = cooldown.OnChange(ctx, progress)

	progress = progress.Record(approval.OutcomeFailed).Complete()
	_ = cooldown.OnChange(ctx, progress)

	if fake.count() != 2 {
		t.Fatalf("expected 2 deliveries (initial + terminal), got %d", fake.count())
	}

	if fake.last().State() != approval.StateCompleted {
		t.Fatalf("expected completed state, got %s", fake.last().State())
	}
}

func TestCooldown_IndependentBatchesNotAffected(t *testing.T) {
	fake := &fakeReporter{}
	cooldown := tracking.NewCooldown(fake, time.Hour)
	defer func() { _ = cooldown.Close() }()

	ctx := context.Background()
	_ = cooldown.OnChange(ctx, approval.NewProgress(1).Record(approval.OutcomeSuccess))
	_ = cooldown.OnChange(ctx, approval.NewProgress(1).Record(approval.OutcomeSuccess))

	if fake.count() != 2 {
		t.Fatalf("expected 2 deliveries for independent batches, got %d", fake.count())
	}
}

func TestCooldown_CloseFlushesPending(t *testing.T) {
	fake := &fakeReporter{}
	cooldown := tracking.NewCooldown(fake, time.Hour)

	ctx := context.Background()
	progress := approval.NewProgress(3).Record(approval.OutcomeSuccess)
	_ = cooldown.OnChange(ctx, progress)
	_ = cooldown.OnChange(ctx, progress.Record(approval.OutcomeSuccess))

	if err := cooldown.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fake.count() != 2 {
		t.Fatalf("expected pending snapshot flushed on close, got %d deliveries", fake.count())
	}
	if fake.last().Processed() != 2 {
		t.Fatalf("expected processed=2, got %d", fake.last().Processed())
	}
}
