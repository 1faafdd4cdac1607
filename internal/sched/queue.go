package sched

import "github.com/emirpasic/gods/trees/redblacktree"

// orderedQueue is an ordered structure keyed by (sortIndex, id) ascending,
// supporting push/pop/peek of only the minimum entry. It is backed by a
// red-black tree rather than an array-based binary heap, keyed on
// sortIndex instead of vruntime so the same tree shape serves both
// taskQueue (keyed by expirationTime) and timerQueue (keyed by startTime).
//
// The tree's Remove is capable of deleting an arbitrary key, but the
// scheduling core never calls it except to extract the minimum;
// cancellation is always tombstone-based, never an arbitrary-position
// delete. That restriction is enforced by callers, not by this type.
type orderedQueue struct {
	tree *redblacktree.Tree
}

// entryKey is the tree key: ascending by sortIndex, ties broken by id so
// that submissions at the same instant with the same priority are dispatched
// FIFO.
type entryKey struct {
	sortIndex float64
	id        uint64
}

func compareEntryKeys(a, b interface{}) int {
	ka, kb := a.(entryKey), b.(entryKey)
	switch {
	case ka.sortIndex < kb.sortIndex:
		return -1
	case ka.sortIndex > kb.sortIndex:
		return 1
	case ka.id < kb.id:
		return -1
	case ka.id > kb.id:
		return 1
	default:
		return 0
	}
}

func newOrderedQueue() *orderedQueue {
	return &orderedQueue{tree: redblacktree.NewWith(compareEntryKeys)}
}

// push inserts t, keyed by its current sortIndex. Callers must set
// t.sortIndex to the appropriate value (expirationTime for taskQueue,
// startTime for timerQueue) before calling push.
func (q *orderedQueue) push(t *Task) {
	t.isQueued = true
	q.tree.Put(entryKey{sortIndex: t.sortIndex, id: t.id}, t)
}

// peek returns the minimum entry without removing it, or nil if empty.
func (q *orderedQueue) peek() *Task {
	node := q.tree.Left()
	if node == nil {
		return nil
	}
	return node.Value.(*Task)
}

// pop removes and returns the minimum entry, or nil if empty.
func (q *orderedQueue) pop() *Task {
	node := q.tree.Left()
	if node == nil {
		return nil
	}
	t := node.Value.(*Task)
	q.tree.Remove(node.Key)
	t.isQueued = false
	return t
}

// empty reports whether the queue currently holds no entries.
func (q *orderedQueue) empty() bool {
	return q.tree.Size() == 0
}

// snapshot returns every live (non-tombstoned) entry in ascending order.
// It rides on the same tree the queue already maintains and does not
// disturb ordering or dispatch state.
func (q *orderedQueue) snapshot() []*Task {
	values := q.tree.Values()
	out := make([]*Task, 0, len(values))
	for _, v := range values {
		t := v.(*Task)
		if !t.IsCanceled() {
			out = append(out, t)
		}
	}
	return out
}
