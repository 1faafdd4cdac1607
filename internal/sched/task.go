package sched

import "sync/atomic"

// taskIDSeq is the process-wide monotonically increasing task id counter.
// It is never reset and never reused.
var taskIDSeq atomic.Uint64

// Callback is a unit of user work. It receives didTimeout (true once the
// task's expirationTime has passed) and returns a Continuation describing
// whether more work remains.
type Callback func(didTimeout bool) Continuation

// Continuation is the tagged result of a Callback invocation: either Done,
// or Continue carrying a replacement Callback to run on the next dispatch
// of the same Task.
type Continuation struct {
	next Callback
}

// Done is returned by a Callback that has finished all of its work.
var Done = Continuation{}

// Continue wraps fn as a continuation: the Task stays queued and fn runs on
// the Task's next turn instead of a fresh Callback being dispatched.
func Continue(fn Callback) Continuation {
	return Continuation{next: fn}
}

// isContinuation reports whether c carries a replacement callback.
func (c Continuation) isContinuation() bool {
	return c.next != nil
}

// IsDone reports whether c is the Done continuation. Continuation wraps a
// func value, so it is not comparable with ==; callers outside this
// package that need to inspect a Callback's result use IsDone instead.
func (c Continuation) IsDone() bool {
	return c.next == nil
}

// Task is the opaque handle returned by Scheduler.ScheduleCallback. Callers
// may read Task fields for diagnostics but must not mutate them; the
// scheduler is the sole owner of task state once it has been scheduled.
type Task struct {
	id             uint64
	callback       Callback
	priorityLevel  PriorityLevel
	startTime      float64
	expirationTime float64

	// sortIndex is the key this entry is currently ordered by: startTime
	// while parked in timerQueue, expirationTime while live in taskQueue.
	sortIndex float64

	// isQueued is profiling-only bookkeeping: whether this task is
	// currently considered live in either queue.
	isQueued bool
}

// ID returns the task's immutable, monotonically increasing identifier.
func (t *Task) ID() uint64 { return t.id }

// Priority returns the priority level the task was scheduled with.
func (t *Task) Priority() PriorityLevel { return t.priorityLevel }

// StartTime returns the earliest clock time, in ms, at which the task may
// run.
func (t *Task) StartTime() float64 { return t.startTime }

// ExpirationTime returns the task's derived deadline, in ms.
func (t *Task) ExpirationTime() float64 { return t.expirationTime }

// IsCanceled reports whether the task's callback has been cleared, either
// by CancelCallback or by having already run to completion.
func (t *Task) IsCanceled() bool { return t.callback == nil }

func newTask(priority PriorityLevel, cb Callback, startTime, expirationTime float64) *Task {
	return &Task{
		id:             taskIDSeq.Add(1),
		callback:       cb,
		priorityLevel:  priority,
		startTime:      startTime,
		expirationTime: expirationTime,
	}
}
