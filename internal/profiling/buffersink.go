// Package profiling provides a concrete sched.ProfilingSink: an in-memory
// tagged event buffer with an int32 flattening and an optional CSV dump.
package profiling

import (
	"encoding/csv"
	"fmt"
	"io"
	"sync"

	"coresched/internal/sched"
)

const (
	defaultCap = 131072
	growCap    = 524288
)

// record mirrors the fixed shape every tagged event is flattened into
// before landing in the int32 buffer: tag, time, and up to three
// tag-specific fields (unused fields are zero).
type record struct {
	tag    int32
	timeUs int64
	a, b   int64
	c      int32
}

// BufferSink accumulates scheduler events into a growable buffer, keeping
// the hot path allocation-free: records are appended to a preallocated
// slice rather than sent over a channel.
type BufferSink struct {
	mu      sync.Mutex
	records []record
}

// NewBufferSink preallocates room for defaultCap events. When that fills,
// the buffer grows once to growCap; past growCap, appends grow the slice
// as usual, and logging never stops.
func NewBufferSink() *BufferSink {
	return &BufferSink{records: make([]record, 0, defaultCap)}
}

func (s *BufferSink) append(r record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.records) == cap(s.records) && cap(s.records) < growCap {
		grown := make([]record, len(s.records), growCap)
		copy(grown, s.records)
		s.records = grown
	}
	s.records = append(s.records, r)
}

func (s *BufferSink) TaskStart(timeMicros int64, taskID uint64, priority sched.PriorityLevel) {
	s.append(record{tag: int32(sched.EventTaskStart), timeUs: timeMicros, a: int64(taskID), c: int32(priority)})
}

func (s *BufferSink) TaskComplete(timeMicros int64, taskID uint64) {
	s.append(record{tag: int32(sched.EventTaskComplete), timeUs: timeMicros, a: int64(taskID)})
}

func (s *BufferSink) TaskError(timeMicros int64, taskID uint64) {
	s.append(record{tag: int32(sched.EventTaskError), timeUs: timeMicros, a: int64(taskID)})
}

func (s *BufferSink) TaskCancel(timeMicros int64, taskID uint64) {
	s.append(record{tag: int32(sched.EventTaskCancel), timeUs: timeMicros, a: int64(taskID)})
}

func (s *BufferSink) TaskRun(timeMicros int64, taskID uint64, runID int64) {
	s.append(record{tag: int32(sched.EventTaskRun), timeUs: timeMicros, a: int64(taskID), b: runID})
}

func (s *BufferSink) TaskYield(timeMicros int64, taskID uint64, runID int64) {
	s.append(record{tag: int32(sched.EventTaskYield), timeUs: timeMicros, a: int64(taskID), b: runID})
}

func (s *BufferSink) SchedulerSuspend(timeMicros int64, mainThreadID int64) {
	s.append(record{tag: int32(sched.EventSchedulerSuspend), timeUs: timeMicros, a: mainThreadID})
}

func (s *BufferSink) SchedulerResume(timeMicros int64, mainThreadID int64) {
	s.append(record{tag: int32(sched.EventSchedulerResume), timeUs: timeMicros, a: mainThreadID})
}

// Len reports the number of events recorded so far.
func (s *BufferSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Int32 flattens the buffer into a flat []int32 stream of per-event
// records, each shaped by its own tag
// rather than padded to a common width - [tag, timeMicros, taskId] for a
// TaskComplete, [tag, timeMicros, taskId, priorityLevel] for a TaskStart,
// and so on. timeMicros, taskId, and runId are truncated to int32, the
// same bound the 524288-slot cap itself implies for this wire format.
func (s *BufferSink) Int32() []int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int32, 0, len(s.records)*4)
	for _, r := range s.records {
		out = append(out, r.tag, int32(r.timeUs))
		switch sched.EventTag(r.tag) {
		case sched.EventTaskStart: // taskId, priorityLevel
			out = append(out, int32(r.a), r.c)
		case sched.EventTaskRun, sched.EventTaskYield: // taskId, runId
			out = append(out, int32(r.a), int32(r.b))
		default: // TaskComplete, TaskError, TaskCancel, SchedulerSuspend/Resume: one id field
			out = append(out, int32(r.a))
		}
	}
	return out
}

// DumpCSV writes one row per recorded event: tag name, time in
// microseconds, and the three raw fields a, b and c.
func (s *BufferSink) DumpCSV(w io.Writer) error {
	s.mu.Lock()
	rows := make([]record, len(s.records))
	copy(rows, s.records)
	s.mu.Unlock()

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"event", "time_us", "a", "b", "c"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			sched.EventTag(r.tag).String(),
			fmt.Sprintf("%d", r.timeUs),
			fmt.Sprintf("%d", r.a),
			fmt.Sprintf("%d", r.b),
			fmt.Sprintf("%d", r.c),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
