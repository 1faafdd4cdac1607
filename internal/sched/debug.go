package sched

// PauseExecution halts the work-loop between tasks once the schedulerdebug
// build tag is set; it is a no-op otherwise.
func (s *Scheduler) PauseExecution() {
	if !debugBuildEnabled {
		return
	}
	s.mu.Lock()
	s.isSchedulerPaused = true
	s.mu.Unlock()
}

// ContinueExecution clears a pause set by PauseExecution and, if no work is
// in progress and no host-callback is pending, re-requests one so the
// work-loop resumes promptly.
func (s *Scheduler) ContinueExecution() {
	if !debugBuildEnabled {
		return
	}
	s.mu.Lock()
	s.isSchedulerPaused = false

	if !s.isHostCallbackScheduled && !s.isPerformingWork && !s.taskQueue.empty() {
		s.isHostCallbackScheduled = true
		s.isMessageLoopRunning = true
		s.mu.Unlock()
		s.bridge.RequestHostCallback(s.performWorkUntilDeadline)
		return
	}
	s.mu.Unlock()
}
