package sim

import "sort"

// taskID identifies a scheduled task for cancellation.
type taskID int

type task struct {
	id  taskID
	due float64 // engine clock, ms
	fn  func(due float64)
}

// scheduler runs deferred work against the engine clock. It never spawns
// goroutines or timers: due tasks run inside Advance, on the caller's thread.
type scheduler struct {
	tasks  []task
	nextID taskID
}

// After schedules fn to run once the clock reaches now+delayMs. fn receives
// its due time so chained tasks can be scheduled without drift.
func (s *scheduler) After(now, delayMs float64, fn func(due float64)) taskID {
	s.nextID++
	s.tasks = append(s.tasks, task{id: s.nextID, due: now + delayMs, fn: fn})
	return s.nextID
}

// Cancel drops a pending task. Cancelling a finished or unknown task is a no-op.
func (s *scheduler) Cancel(id taskID) {
	for i, t := range s.tasks {
		if t.id == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}

// CancelAll drops every pending task.
func (s *scheduler) CancelAll() {
	s.tasks = nil
}

// Pending returns how many tasks are waiting.
func (s *scheduler) Pending() int {
	return len(s.tasks)
}

// Advance runs every task due at or before now, earliest first. Tasks
// scheduled by a running task are considered in the same pass.
func (s *scheduler) Advance(now float64) {
	for {
		idx := -1
		for i, t := range s.tasks {
			if t.due <= now && (idx < 0 || t.due < s.tasks[idx].due) {
				idx = i
			}
		}
		if idx < 0 {
			return
		}
		t := s.tasks[idx]
		s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
		t.fn(t.due)
	}
}

// dueTimes returns the pending due times in order (for tests and debugging).
func (s *scheduler) dueTimes() []float64 {
	out := make([]float64, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.due
	}
	sort.Float64s(out)
	return out
}
