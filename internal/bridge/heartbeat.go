package bridge

import (
	"sync/atomic"
	"time"
)

// Heartbeat emits ticks at a fixed interval and counts them atomically. It
// has no role in the HostBridge contract itself; the CLI demo runs one
// alongside the scheduler, independent of its event-driven
// callback/timeout requests, and prints the tick count when it ends.
type Heartbeat struct {
	Ch    chan struct{}
	count atomic.Int64
	stop  chan struct{}
}

// NewHeartbeat creates a stopped heartbeat with the given channel buffer.
func NewHeartbeat(buffer int) *Heartbeat {
	return &Heartbeat{
		Ch:   make(chan struct{}, buffer),
		stop: make(chan struct{}),
	}
}

// Start begins emitting ticks at the given interval until Stop is called.
func (h *Heartbeat) Start(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				h.count.Add(1)
				select {
				case h.Ch <- struct{}{}:
				default:
				}
			case <-h.stop:
				close(h.Ch)
				return
			}
		}
	}()
}

// Stop signals the heartbeat to stop emitting ticks.
func (h *Heartbeat) Stop() {
	close(h.stop)
}

// Count returns the current tick count atomically.
func (h *Heartbeat) Count() int64 {
	return h.count.Load()
}
