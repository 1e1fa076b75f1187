package recyclerview

// Scheduler defers a task until the host decides work may run. Schedule
// returns a cancel function; cancelling after the task has run is a no-op.
// Implementations are single-threaded like the rest of the engine: tasks
// run on whatever goroutine drives the scheduler.
type Scheduler interface {
	Schedule(task func()) (cancel func())
}

// turnTask is one scheduled unit. Cancellation just flips the flag; the
// slot stays in place so flushing never reindexes around removals.
type turnTask struct {
	run       func()
	cancelled bool
}

// TurnScheduler queues tasks until Flush. It is the engine's stand-in for
// a host event loop turn: note work during event handling, flush once the
// turn ends. Tasks scheduled while flushing run on the next flush.
type TurnScheduler struct {
	tasks []*turnTask
}

// NewTurnScheduler returns an empty scheduler.
func NewTurnScheduler() *TurnScheduler {
	return &TurnScheduler{}
}

// Schedule queues task for the next flush.
func (s *TurnScheduler) Schedule(task func()) (cancel func()) {
	t := &turnTask{run: task}
	s.tasks = append(s.tasks, t)
	return func() { t.cancelled = true }
}

// Flush runs every task queued before the call, in order, skipping
// cancelled ones. Tasks queued by running tasks are kept for the next
// flush.
func (s *TurnScheduler) Flush() {
	n := len(s.tasks)
	for i := 0; i < n; i++ {
		t := s.tasks[i]
		if !t.cancelled {
			t.run()
		}
	}
	s.tasks = append(s.tasks[:0], s.tasks[n:]...)
}

// Pending returns the number of queued tasks, cancelled ones included.
func (s *TurnScheduler) Pending() int {
	return len(s.tasks)
}

// immediateScheduler runs tasks synchronously. It is the fallback when a
// component is constructed without a scheduler, trading coalescing for
// zero setup.
type immediateScheduler struct{}

func (immediateScheduler) Schedule(task func()) (cancel func()) {
	task()
	return func() {}
}

var _ Scheduler = &TurnScheduler{}
var _ Scheduler = immediateScheduler{}
