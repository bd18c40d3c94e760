package system

import "time"

// Task is a handle to a scheduled callback.
type Task struct {
	next      time.Duration
	period    time.Duration
	seq       uint64
	fn        func()
	cancelled bool
}

// Cancel stops the task. It is safe to call more than once and from inside
// the task's own callback.
func (t *Task) Cancel() {
	if t != nil {
		t.cancelled = true
	}
}

// Cancelled reports whether Cancel was called.
func (t *Task) Cancelled() bool { return t == nil || t.cancelled }

// Scheduler runs time-driven callbacks on the simulation thread. Time only
// moves when Advance is called, so callbacks never overlap the frame update.
type Scheduler struct {
	now   time.Duration
	seq   uint64
	tasks []*Task
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the scheduler clock.
func (s *Scheduler) Now() time.Duration { return s.now }

// Every runs fn after initialDelay and then every period. A non-positive
// period runs fn once.
func (s *Scheduler) Every(initialDelay, period time.Duration, fn func()) *Task {
	if initialDelay < 0 {
		initialDelay = 0
	}
	s.seq++
	t := &Task{next: s.now + initialDelay, period: period, seq: s.seq, fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

// After runs fn once after delay.
func (s *Scheduler) After(delay time.Duration, fn func()) *Task {
	return s.Every(delay, 0, fn)
}

// Len returns the number of live tasks.
func (s *Scheduler) Len() int {
	n := 0
	for _, t := range s.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by dt and fires every due callback in due
// time order. A task that fell several periods behind fires once per missed
// period. Ties fire in registration order.
func (s *Scheduler) Advance(dt time.Duration) {
	if dt > 0 {
		s.now += dt
	}
	for {
		t := s.nextDue()
		if t == nil {
			break
		}
		if t.period > 0 {
			t.next += t.period
		} else {
			t.cancelled = true
		}
		if t.fn != nil {
			t.fn()
		}
	}
	s.compact()
}

func (s *Scheduler) nextDue() *Task {
	var best *Task
	for _, t := range s.tasks {
		if t.cancelled || t.next > s.now {
			continue
		}
		if best == nil || t.next < best.next || (t.next == best.next && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (s *Scheduler) compact() {
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	clear(s.tasks[len(live):])
	s.tasks = live
}
