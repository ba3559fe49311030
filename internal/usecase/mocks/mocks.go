package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/iho/porket/internal/domain"
)

// FixedClock always returns the same instant.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// RecordingNotifier numbers events like the real dispatcher and keeps them.
type RecordingNotifier struct {
	mu     sync.Mutex
	seq    uint64
	Events []domain.ChangeEvent
}

func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{}
}

func (n *RecordingNotifier) Notify(ctx context.Context, event domain.ChangeEvent) domain.ChangeEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seq++
	event.Sequence = n.seq
	n.Events = append(n.Events, event)
	return event
}

// Snapshot returns a copy of the recorded events.
func (n *RecordingNotifier) Snapshot() []domain.ChangeEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.ChangeEvent, len(n.Events))
	copy(out, n.Events)
	return out
}
