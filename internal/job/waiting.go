// Package job provides example sched.Callback implementations: small
// pieces of chunked work a caller can hand to Scheduler.ScheduleCallback.
package job

import (
	"coresched/internal/sched"
)

// ChunkedWork returns a Callback that simulates total units of work. Each
// dispatch runs units back to back until all are done or s.ShouldYield()
// reports the current frame budget is spent, in which case it returns a
// continuation of itself. It never checks didTimeout itself; an expired
// task yields on the same frame budget as any other.
func ChunkedWork(s *sched.Scheduler, total int, onUnit func(done, total int)) sched.Callback {
	done := 0
	var self sched.Callback
	self = func(didTimeout bool) sched.Continuation {
		for done < total {
			done++
			if onUnit != nil {
				onUnit(done, total)
			}
			if done < total && s.ShouldYield() {
				return sched.Continue(self)
			}
		}
		return sched.Done
	}
	return self
}

// SleepWork returns a Callback that reports itself complete only once at
// least ms milliseconds have elapsed on the scheduler's own clock,
// re-yielding a continuation of itself every dispatch until then. Unlike
// a real sleep, it never blocks its goroutine: each dispatch returns
// immediately, leaving the waiting to the scheduler's retry.
func SleepWork(s *sched.Scheduler, ms float64) sched.Callback {
	deadline := s.Now() + ms
	var self sched.Callback
	self = func(didTimeout bool) sched.Continuation {
		if s.Now() >= deadline {
			return sched.Done
		}
		return sched.Continue(self)
	}
	return self
}
