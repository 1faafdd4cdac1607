package job

import (
	"testing"

	"coresched/internal/sched"
)

type stepClock struct{ now float64 }

func (c *stepClock) Now() float64       { return c.now }
func (c *stepClock) advance(ms float64) { c.now += ms }

// noopBridge never invokes anything; it suits callbacks, like SleepWork's,
// that are driven directly rather than through a running work-loop.
type noopBridge struct{}

func (noopBridge) RequestHostCallback(fn func())                 {}
func (noopBridge) CancelHostCallback()                           {}
func (noopBridge) RequestHostTimeout(fn func(), delayMs float64) {}
func (noopBridge) CancelHostTimeout()                            {}

// stepBridge records the single outstanding host callback request instead
// of invoking it, so a test can drive the scheduler one burst at a time.
type stepBridge struct {
	callback func()
}

func (b *stepBridge) RequestHostCallback(fn func()) { b.callback = fn }
func (b *stepBridge) CancelHostCallback()           { b.callback = nil }
func (b *stepBridge) RequestHostTimeout(fn func(), delayMs float64) {
}
func (b *stepBridge) CancelHostTimeout() {}

func (b *stepBridge) fireCallback() {
	fn := b.callback
	b.callback = nil
	if fn != nil {
		fn()
	}
}

func TestChunkedWork_RunsAllUnitsWithoutYielding(t *testing.T) {
	t.Parallel()

	clock := &stepClock{}
	s := sched.New(clock, noopBridge{})

	var units []int
	cb := ChunkedWork(s, 5, func(done, total int) { units = append(units, done) })

	cont := cb(false)
	if !cont.IsDone() {
		t.Fatalf("expected ChunkedWork to finish in one dispatch when ShouldYield never trips")
	}
	want := []int{1, 2, 3, 4, 5}
	if len(units) != len(want) {
		t.Fatalf("units = %#v, want %#v", units, want)
	}
	for i := range want {
		if units[i] != want[i] {
			t.Fatalf("units = %#v, want %#v", units, want)
		}
	}
}

func TestChunkedWork_YieldsAndResumesAcrossBursts(t *testing.T) {
	t.Parallel()

	clock := &stepClock{}
	bridge := &stepBridge{}
	s := sched.New(clock, bridge)

	var units []int
	s.ScheduleCallback(sched.Normal, ChunkedWork(s, 3, func(done, total int) {
		units = append(units, done)
		if done == 1 {
			clock.advance(1000) // comfortably past any frame budget
		}
	}))

	bridge.fireCallback()
	if len(units) != 1 {
		t.Fatalf("units after first burst = %#v, want exactly one unit before yielding", units)
	}
	if bridge.callback == nil {
		t.Fatalf("expected a follow-up host callback to be requested after yielding")
	}

	bridge.fireCallback()
	if len(units) != 3 {
		t.Fatalf("units after second burst = %#v, want all three units done", units)
	}
}

func TestSleepWork_CompletesOnlyOnceDeadlineElapses(t *testing.T) {
	t.Parallel()

	clock := &stepClock{}
	s := sched.New(clock, noopBridge{})

	cb := SleepWork(s, 50)

	if cont := cb(false); cont.IsDone() {
		t.Fatalf("expected SleepWork to keep waiting before its deadline")
	}

	clock.advance(50)
	if cont := cb(false); !cont.IsDone() {
		t.Fatalf("expected SleepWork to report done once the deadline has elapsed")
	}
}
