// Package approval provides the domain types of the content approval
// workflow: batch progress counters and the outcomes that drive them.
package approval

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// State is the reporting state of a batch.
type State string

// State values.
const (
	StateIdle       State = "idle"
	StateStarted    State = "started"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

// IsTerminal returns true once the batch has finished.
func (s State) IsTerminal() bool {
	return s == StateCompleted
}

// Outcome is the result of processing one batch item.
type Outcome int

// Outcome values.
const (
	OutcomeSuccess Outcome = iota
	OutcomeFailed
)

// Progress holds the running counters of a batch approval. It is a value:
// Record returns an updated copy, so a snapshot handed to a reporter is
// never mutated afterwards.
type Progress struct {
	id        string
	state     State
	total     int
	processed int
	success   int
	failed    int
	startedAt time.Time
	updatedAt time.Time
}

// NewProgress starts a batch of total items.
func NewProgress(total int) Progress {
	now := time.Now().UTC()
	return Progress{
		id:        uuid.NewString(),
		state:     StateStarted,
		total:     total,
		startedAt: now,
		updatedAt: now,
	}
}

// ReconstructProgress recreates a Progress from its counters.
func ReconstructProgress(id string, state State, total, processed, success, failed int, startedAt, updatedAt time.Time) Progress {
	return Progress{
		id:        id,
		state:     state,
		total:     total,
		processed: processed,
		success:   success,
		failed:    failed,
		startedAt: startedAt,
		updatedAt: updatedAt,
	}
}

// Record returns a copy with one more processed item of the given outcome.
func (p Progress) Record(outcome Outcome) Progress {
	p.processed++
	switch outcome {
	case OutcomeSuccess:
		p.success++
	default:
		p.failed++
	}
	p.state = StateInProgress
	p.updatedAt = time.Now().UTC()
	return p
}

// Complete returns a copy in the terminal state.
func (p Progress) Complete() Progress {
	p.state = StateCompleted
	p.updatedAt = time.Now().UTC()
	return p
}

// ID returns the batch identifier.
func (p Progress) ID() string { return p.id }

// State returns the reporting state.
func (p Progress) State() State { return p.state }

// Total returns the number of items in the batch.
func (p Progress) Total() int { return p.total }

// Processed returns the number of items handled so far.
func (p Progress) Processed() int { return p.processed }

// Success returns the number of approved items.
func (p Progress) Success() int { return p.success }

// Failed returns the number of failed items.
func (p Progress) Failed() int { return p.failed }

// StartedAt returns when the batch started.
func (p Progress) StartedAt() time.Time { return p.startedAt }

// UpdatedAt returns when the counters last changed.
func (p Progress) UpdatedAt() time.Time { return p.updatedAt }

// Percent returns processed/total as a percentage. An empty batch is 100%.
func (p Progress) Percent() float64 {
	if p.total <= 0 {
		return 100
	}
	return float64(p.processed) / float64(p.total) * 100
}

// Reporter receives progress snapshots as a batch advances.
type Reporter interface {
	OnChange(ctx context.Context, progress Progress) error
}
