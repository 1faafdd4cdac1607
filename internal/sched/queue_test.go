package sched

import "testing"

func TestOrderedQueue_PopReturnsMinimumBySortIndexThenID(t *testing.T) {
	t.Parallel()

	q := newOrderedQueue()

	a := newTask(Normal, func(bool) Continuation { return Done }, 0, 5000)
	a.sortIndex = 100
	b := newTask(Normal, func(bool) Continuation { return Done }, 0, 5000)
	b.sortIndex = 50
	c := newTask(Normal, func(bool) Continuation { return Done }, 0, 5000)
	c.sortIndex = 50 // ties with b; b was created first so has the lower id

	q.push(a)
	q.push(b)
	q.push(c)

	first := q.pop()
	if first != b {
		t.Fatalf("first pop = task %d, want task %d (lower sortIndex, lower id on tie)", first.id, b.id)
	}
	second := q.pop()
	if second != c {
		t.Fatalf("second pop = task %d, want task %d", second.id, c.id)
	}
	third := q.pop()
	if third != a {
		t.Fatalf("third pop = task %d, want task %d", third.id, a.id)
	}
	if !q.empty() {
		t.Fatalf("expected queue to be empty after draining all three entries")
	}
}

func TestOrderedQueue_PeekDoesNotRemove(t *testing.T) {
	t.Parallel()

	q := newOrderedQueue()
	a := newTask(Normal, func(bool) Continuation { return Done }, 0, 5000)
	a.sortIndex = 1
	q.push(a)

	if q.peek() != a {
		t.Fatalf("peek did not return the pushed task")
	}
	if q.empty() {
		t.Fatalf("peek must not remove the entry")
	}
	if q.peek() != a {
		t.Fatalf("peek is not idempotent")
	}
}

func TestOrderedQueue_EmptyPopAndPeekReturnNil(t *testing.T) {
	t.Parallel()

	q := newOrderedQueue()
	if q.peek() != nil {
		t.Fatalf("peek on empty queue should return nil")
	}
	if q.pop() != nil {
		t.Fatalf("pop on empty queue should return nil")
	}
}

func TestOrderedQueue_SnapshotFiltersTombstonesAndStaysOrdered(t *testing.T) {
	t.Parallel()

	q := newOrderedQueue()
	live := newTask(Normal, func(bool) Continuation { return Done }, 0, 5000)
	live.sortIndex = 10
	canceled := newTask(Normal, func(bool) Continuation { return Done }, 0, 5000)
	canceled.sortIndex = 1
	canceled.callback = nil

	q.push(live)
	q.push(canceled)

	snap := q.snapshot()
	if len(snap) != 1 || snap[0] != live {
		t.Fatalf("snapshot = %#v, want exactly [live]", snap)
	}
}
