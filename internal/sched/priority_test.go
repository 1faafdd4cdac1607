package sched

import "testing"

func TestPriorityLevel_String(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		level PriorityLevel
		want  string
	}{
		"immediate":     {Immediate, "Immediate"},
		"user blocking": {UserBlocking, "UserBlocking"},
		"normal":        {Normal, "Normal"},
		"low":           {Low, "Low"},
		"idle":          {Idle, "Idle"},
		"no priority":   {NoPriority, "NoPriority"},
		"out of range":  {PriorityLevel(99), "NoPriority"},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := tt.level.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCoercePriority(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		level PriorityLevel
		want  PriorityLevel
	}{
		"valid level passes through": {Idle, Idle},
		"NoPriority coerces":         {NoPriority, Normal},
		"negative coerces":           {PriorityLevel(-1), Normal},
		"too large coerces":          {PriorityLevel(42), Normal},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := coercePriority(tt.level); got != tt.want {
				t.Errorf("coercePriority(%v) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestRunWithPriority_RestoresOnPanic(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestScheduler()

	defer func() {
		recover()
		if got := s.GetCurrentPriorityLevel(); got != Normal {
			t.Errorf("priority after panic = %v, want Normal restored", got)
		}
	}()

	s.RunWithPriority(Idle, func() {
		panic("boom")
	})
}

func TestNext_CapsAtNormalFromHigherPriorities(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestScheduler()

	tests := map[string]struct {
		start PriorityLevel
		want  PriorityLevel
	}{
		"immediate caps to normal":     {Immediate, Normal},
		"user blocking caps to normal": {UserBlocking, Normal},
		"normal stays normal":          {Normal, Normal},
		"low is preserved":             {Low, Low},
		"idle is preserved":            {Idle, Idle},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var observed PriorityLevel
			s.RunWithPriority(tt.start, func() {
				s.Next(func() {
					observed = s.GetCurrentPriorityLevel()
				})
			})
			if observed != tt.want {
				t.Errorf("Next from %v observed %v, want %v", tt.start, observed, tt.want)
			}
		})
	}
}

func TestWrapCallback_CapturesPriorityAtWrapTime(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestScheduler()

	var observed PriorityLevel
	var wrapped func()
	s.RunWithPriority(Low, func() {
		wrapped = s.WrapCallback(func() { observed = s.GetCurrentPriorityLevel() })
	})

	s.RunWithPriority(Idle, func() {
		wrapped()
	})
	if observed != Low {
		t.Errorf("observed %v, want Low (the priority captured at WrapCallback time)", observed)
	}
}
