package processor

import (
	"context"
	"sync/atomic"
)

// jobSlots bounds how many jobs of a batch run at once
type jobSlots struct {
	ch      chan struct{}
	running atomic.Int32
}

func newJobSlots(n int) *jobSlots {
	if n <= 0 {
		n = 1
	}
	return &jobSlots{ch: make(chan struct{}, n)}
}

// take blocks until a slot frees up or ctx is done. It returns the number
// of jobs running including the caller's.
func (s *jobSlots) take(ctx context.Context) (int, error) {
	select {
	case s.ch <- struct{}{}:
		return int(s.running.Add(1)), nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (s *jobSlots) give() {
	s.running.Add(-1)
	<-s.ch
}
