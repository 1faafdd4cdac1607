package sched

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
)

// runIDSeq and mainThreadIDSeq are the process-wide profiling counters
// shared across every Scheduler in the process.
var (
	runIDSeq        atomic.Int64
	mainThreadIDSeq atomic.Int64
)

// Logger is the minimal sink rejected ForceFrameRate arguments are
// reported through. It exists so the core never needs to decide for
// its caller whether logging means os.Stderr, a structured logger, or
// nothing at all.
type Logger func(format string, args ...any)

func stderrLogger(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// Scheduler owns the two ordered queues, the active priority, and the
// work-loop. It is safe for ScheduleCallback/CancelCallback to be called
// concurrently from multiple goroutines; the work-loop itself represents
// a single logical executor and never runs two bursts at once.
type Scheduler struct {
	mu sync.Mutex

	clock     Clock
	bridge    HostBridge
	profiling ProfilingSink
	logger    Logger

	taskQueue  *orderedQueue
	timerQueue *orderedQueue

	currentPriorityLevel PriorityLevel
	currentTask          *Task

	isHostCallbackScheduled bool
	isHostTimeoutScheduled  bool
	isPerformingWork        bool
	isMessageLoopRunning    bool
	isSchedulerPaused       bool

	frameInterval float64
	frameStart    float64

	mainThreadID int64
}

// Option configures a Scheduler at construction time.
type Option func(*Scheduler)

// WithProfiling attaches a ProfilingSink. A nil sink (the default) disables
// all profiling emission.
func WithProfiling(sink ProfilingSink) Option {
	return func(s *Scheduler) { s.profiling = sink }
}

// WithLogger overrides the default os.Stderr logger used for bad-argument
// coercions.
func WithLogger(l Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// WithFrameIntervalMS sets the initial yield budget to ms directly; a
// non-positive value leaves the 5 ms default in place. Unlike
// ForceFrameRate, it applies no [1, 125] fps range check.
func WithFrameIntervalMS(ms float64) Option {
	return func(s *Scheduler) {
		if ms > 0 {
			s.frameInterval = ms
		}
	}
}

// New creates a Scheduler driven by clock and bridge. The scheduler starts
// idle: RequestHostCallback is only invoked once a callback is scheduled.
func New(clock Clock, bridge HostBridge, opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:                clock,
		bridge:               bridge,
		logger:               stderrLogger,
		taskQueue:            newOrderedQueue(),
		timerQueue:           newOrderedQueue(),
		currentPriorityLevel: Normal,
		frameInterval:        defaultFrameIntervalMS,
		mainThreadID:         mainThreadIDSeq.Add(1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScheduleOptions carries the optional arguments to ScheduleCallback.
type ScheduleOptions struct {
	// DelayMS is a non-negative delay, in ms, before the task becomes
	// eligible to run. Negative values are treated as zero.
	DelayMS float64
}

// ScheduleCallback enqueues cb at the given priority, deriving startTime
// and expirationTime from the current clock reading and options.DelayMS.
// An invalid priority is silently coerced to Normal.
func (s *Scheduler) ScheduleCallback(priority PriorityLevel, cb Callback, opts ...ScheduleOptions) *Task {
	priority = coercePriority(priority)

	var delay float64
	if len(opts) > 0 {
		delay = opts[0].DelayMS
	}
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()

	now := s.clock.Now()
	startTime := now + delay
	expirationTime := startTime + timeoutFor(priority)

	task := newTask(priority, cb, startTime, expirationTime)

	if startTime > now {
		task.sortIndex = startTime
		wasEarliest := s.timerQueue.peek() == nil || startTime < s.timerQueue.peek().startTime
		s.timerQueue.push(task)

		if s.taskQueue.empty() && wasEarliest {
			needCancel := s.isHostTimeoutScheduled
			s.isHostTimeoutScheduled = true
			s.mu.Unlock()
			if needCancel {
				s.bridge.CancelHostTimeout()
			}
			s.bridge.RequestHostTimeout(s.handleTimeout, startTime-now)
			return task
		}
		s.mu.Unlock()
		return task
	}

	task.sortIndex = expirationTime
	s.taskQueue.push(task)
	s.emitTaskStart(now, task)

	if !s.isHostCallbackScheduled && !s.isPerformingWork && !s.isMessageLoopRunning {
		s.isHostCallbackScheduled = true
		s.isMessageLoopRunning = true
		s.mu.Unlock()
		s.bridge.RequestHostCallback(s.performWorkUntilDeadline)
		return task
	}
	s.mu.Unlock()
	return task
}

// CancelCallback marks task as a tombstone. It is synchronous, O(1), and a
// no-op for an unknown or already-completed task.
func (s *Scheduler) CancelCallback(task *Task) {
	if task == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if task.callback == nil {
		return
	}
	if s.profiling != nil && task.isQueued {
		s.profiling.TaskCancel(msToMicros(s.clock.Now()), task.id)
	}
	task.callback = nil
}

// GetFirstCallbackNode returns the highest-priority ready task, or nil if
// taskQueue is empty. It does not dequeue.
func (s *Scheduler) GetFirstCallbackNode() *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.taskQueue.peek()
}

// Snapshot returns every live (non-canceled) task currently queued, ready
// tasks ordered by expirationTime followed by pending timers ordered by
// startTime. It does not dequeue or otherwise disturb scheduler state, and
// is meant for debugging/inspection tooling rather than the work-loop itself.
func (s *Scheduler) Snapshot() (ready []*Task, pending []*Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.taskQueue.snapshot(), s.timerQueue.snapshot()
}

// GetCurrentPriorityLevel returns the scheduler's currently active
// priority: Normal outside any callback, or the running callback's
// priority from inside one.
func (s *Scheduler) GetCurrentPriorityLevel() PriorityLevel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPriorityLevel
}

// RunWithPriority sets the current priority to priority for the duration of
// fn, restoring the previous value whether fn returns normally or panics.
func (s *Scheduler) RunWithPriority(priority PriorityLevel, fn func()) {
	priority = coercePriority(priority)

	s.mu.Lock()
	previous := s.currentPriorityLevel
	s.currentPriorityLevel = priority
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.currentPriorityLevel = previous
		s.mu.Unlock()
	}()

	fn()
}

// Next runs fn at "no higher than Normal": if the current priority is
// Immediate, UserBlocking, or Normal, fn runs at Normal; otherwise (Low or
// Idle) the current priority is preserved.
func (s *Scheduler) Next(fn func()) {
	s.mu.Lock()
	current := s.currentPriorityLevel
	s.mu.Unlock()

	next := current
	switch current {
	case Immediate, UserBlocking, Normal:
		next = Normal
	}
	s.RunWithPriority(next, fn)
}

// WrapCallback captures the current priority at wrap time and returns a
// function that runs fn under that captured priority on every invocation,
// restoring the prior priority afterwards.
func (s *Scheduler) WrapCallback(fn func()) func() {
	captured := s.GetCurrentPriorityLevel()
	return func() {
		s.RunWithPriority(captured, fn)
	}
}

// Now returns the scheduler's clock reading, in ms.
func (s *Scheduler) Now() float64 {
	return s.clock.Now()
}

// RequestPaint is reserved for a future host integration; it is a no-op.
func (s *Scheduler) RequestPaint() {}

// ForceFrameRate sets the yield interval to floor(1000/fps) for fps in
// [1, 125]. fps == 0 restores the default (5 ms). Any other out-of-range
// value is rejected with a logged error and no state change.
func (s *Scheduler) ForceFrameRate(fps int) {
	switch {
	case fps == 0:
		s.mu.Lock()
		s.frameInterval = defaultFrameIntervalMS
		s.mu.Unlock()
	case fps >= 1 && fps <= 125:
		s.mu.Lock()
		s.frameInterval = float64(1000 / fps)
		s.mu.Unlock()
	default:
		s.logger("forceFrameRate: fps must be in [1, 125] (or 0 to reset); got %d", fps)
	}
}

func (s *Scheduler) emitTaskStart(now float64, t *Task) {
	if s.profiling != nil {
		s.profiling.TaskStart(msToMicros(now), t.id, t.priorityLevel)
	}
}
