package sched

// HostBridge is the abstract adapter the core depends on to arrange future
// invocations of the work-loop. Concrete implementations live outside this
// package (see internal/bridge) and decide how "run me again soon" maps to
// a real mechanism - a channel/goroutine pump, an OS timer, or a host
// primitive such as a message-port post. The scheduler reads its own Clock
// when fn eventually runs; the bridge never needs to know what time it is.
//
// At most one RequestHostCallback and one RequestHostTimeout may be
// outstanding at a time; the core, not the bridge, enforces that invariant.
type HostBridge interface {
	// RequestHostCallback arranges exactly one future call to fn, as soon
	// as the host can make one, ahead of other host-level work if
	// possible.
	RequestHostCallback(fn func())

	// CancelHostCallback cancels a pending RequestHostCallback, if any.
	// It is a no-op if none is pending.
	CancelHostCallback()

	// RequestHostTimeout arranges exactly one future call to fn after at
	// least delayMs milliseconds. Only one timeout may be armed at a
	// time; arming a new one implicitly supersedes any prior one from
	// the caller's perspective (the caller is expected to have called
	// CancelHostTimeout first).
	RequestHostTimeout(fn func(), delayMs float64)

	// CancelHostTimeout cancels any armed timeout. It is a no-op if none
	// is armed.
	CancelHostTimeout()
}
