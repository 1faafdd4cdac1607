package sched

// advanceTimersLocked promotes every timerQueue entry whose startTime has
// arrived into taskQueue, discarding tombstones along the way. s.mu must
// be held by the caller.
func (s *Scheduler) advanceTimersLocked(now float64) {
	for {
		t := s.timerQueue.peek()
		if t == nil {
			return
		}
		if t.callback == nil {
			s.timerQueue.pop()
			continue
		}
		if t.startTime > now {
			return
		}
		s.timerQueue.pop()
		t.sortIndex = t.expirationTime
		s.taskQueue.push(t)
		s.emitTaskStart(now, t)
	}
}

// handleTimeout is invoked by the HostBridge when an armed host
// timeout fires. It reads the scheduler's own Clock rather than trusting
// the bridge for a timestamp, so a fake clock in tests stays authoritative.
func (s *Scheduler) handleTimeout() {
	now := s.clock.Now()
	s.mu.Lock()
	s.isHostTimeoutScheduled = false
	s.advanceTimersLocked(now)

	if s.isHostCallbackScheduled {
		s.mu.Unlock()
		return
	}

	if !s.taskQueue.empty() {
		s.isHostCallbackScheduled = true
		s.isMessageLoopRunning = true
		s.mu.Unlock()
		s.bridge.RequestHostCallback(s.performWorkUntilDeadline)
		return
	}

	if next := s.timerQueue.peek(); next != nil {
		s.isHostTimeoutScheduled = true
		delay := next.startTime - now
		s.mu.Unlock()
		s.bridge.RequestHostTimeout(s.handleTimeout, delay)
		return
	}

	s.mu.Unlock()
}

// workLoop runs ready tasks off taskQueue until none remain or the yield
// policy says to stop. It returns true iff more work remains and the
// caller should arrange another invocation.
func (s *Scheduler) workLoop(initialTime float64) bool {
	s.mu.Lock()

	currentTime := initialTime
	s.advanceTimersLocked(currentTime)
	currentTask := s.taskQueue.peek()

	for currentTask != nil {
		if debugBuildEnabled && s.isSchedulerPaused {
			break
		}
		if currentTask.expirationTime > currentTime && s.shouldYieldLocked(currentTime) {
			break
		}

		cb := currentTask.callback
		if cb == nil {
			// Tombstone: discard and move on.
			s.taskQueue.pop()
			currentTask = s.taskQueue.peek()
			continue
		}

		currentTask.callback = nil
		s.currentPriorityLevel = currentTask.priorityLevel
		s.currentTask = currentTask
		taskID := currentTask.id
		didTimeout := currentTask.expirationTime <= currentTime
		runID := runIDSeq.Add(1)
		if s.profiling != nil {
			s.profiling.TaskRun(msToMicros(currentTime), taskID, runID)
		}

		s.mu.Unlock()
		cont := cb(didTimeout)
		currentTime = s.clock.Now()
		s.mu.Lock()

		if cont.isContinuation() {
			currentTask.callback = cont.next
			if s.profiling != nil {
				s.profiling.TaskYield(msToMicros(currentTime), taskID, runID)
			}
			s.advanceTimersLocked(currentTime)
			s.currentTask = nil
			s.mu.Unlock()
			return true
		}

		if s.profiling != nil {
			s.profiling.TaskComplete(msToMicros(currentTime), taskID)
		}
		if s.taskQueue.peek() == currentTask {
			s.taskQueue.pop()
		}
		s.currentTask = nil
		s.advanceTimersLocked(currentTime)
		currentTask = s.taskQueue.peek()
	}

	if currentTask != nil {
		s.mu.Unlock()
		return true
	}

	if next := s.timerQueue.peek(); next != nil {
		s.isHostTimeoutScheduled = true
		delay := next.startTime - currentTime
		s.mu.Unlock()
		s.bridge.RequestHostTimeout(s.handleTimeout, delay)
		return false
	}

	s.mu.Unlock()
	return false
}

// flushWork brackets one workLoop burst with
// profiling suspend/resume events, priority save/restore, and the
// panic-recovery that turns a callback panic into a TaskError event while
// still forcing the outer driver to reschedule (so a panicking callback
// does not wedge the scheduler).
func (s *Scheduler) flushWork(initialTime float64) (hasMoreWork bool) {
	s.mu.Lock()
	mainThreadID := s.mainThreadID
	s.mu.Unlock()
	if s.profiling != nil {
		s.profiling.SchedulerResume(msToMicros(initialTime), mainThreadID)
	}

	s.mu.Lock()
	s.isHostCallbackScheduled = false
	hadTimeout := s.isHostTimeoutScheduled
	s.isHostTimeoutScheduled = false
	previousPriority := s.currentPriorityLevel
	s.isPerformingWork = true
	s.mu.Unlock()

	if hadTimeout {
		s.bridge.CancelHostTimeout()
	}

	defer func() {
		s.mu.Lock()
		s.currentPriorityLevel = previousPriority
		task := s.currentTask
		s.currentTask = nil
		s.isPerformingWork = false
		now := s.clock.Now()
		s.mu.Unlock()

		if r := recover(); r != nil {
			if s.profiling != nil {
				if task != nil {
					s.profiling.TaskError(msToMicros(now), task.id)
					task.isQueued = false
				}
				s.profiling.SchedulerSuspend(msToMicros(now), mainThreadID)
			}
			hasMoreWork = true
			panic(r)
		}

		if s.profiling != nil {
			s.profiling.SchedulerSuspend(msToMicros(now), mainThreadID)
		}
	}()

	hasMoreWork = s.workLoop(initialTime)
	return
}

// performWorkUntilDeadline is the function a HostBridge invokes to run one
// burst of work. It reads the scheduler's own Clock rather than trusting
// the bridge for a timestamp.
func (s *Scheduler) performWorkUntilDeadline() {
	now := s.clock.Now()
	s.mu.Lock()
	if !s.isMessageLoopRunning {
		s.mu.Unlock()
		return
	}
	s.frameStart = now
	s.mu.Unlock()

	hasMoreWork := true
	defer func() {
		s.mu.Lock()
		// flushWork's hasMoreWork snapshot can go stale: a ScheduleCallback
		// on another goroutine may have pushed a ready task into taskQueue
		// after workLoop decided there was none left, in the window between
		// flushWork's unlock and this one. Re-check taskQueue directly
		// before honoring a false reading, so that task isn't stranded with
		// isMessageLoopRunning cleared and nothing left to revive it.
		if !hasMoreWork && !s.taskQueue.empty() {
			hasMoreWork = true
		}
		if hasMoreWork {
			s.mu.Unlock()
			s.bridge.RequestHostCallback(s.performWorkUntilDeadline)
			return
		}
		s.isMessageLoopRunning = false
		s.mu.Unlock()
	}()

	hasMoreWork = s.flushWork(now)
}
