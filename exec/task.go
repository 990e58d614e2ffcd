package exec

import "sync/atomic"

// task is the type-independent header of a submitted task. The generic
// result storage lives in the enclosing cell; run and discard are bound
// to the cell on creation so that the executor and the task lists can
// treat all tasks uniformly.
type task struct {
	state state

	// done is closed exactly once, when the task completes or is
	// canceled. Joining and timeouts wait on it.
	done chan struct{}

	// priority holds the current priority. It may only be modified with
	// the executor's queue mutex held.
	priority atomic.Int32

	exec    *Executor
	monitor Monitor

	// Intrusive list node, guarded by the executor's queue mutex.
	prev   *task
	next   *task
	queued bool

	// run executes the closure and stores the result or captured panic.
	run func()

	// discard drops the closure and any stored result.
	discard func()
}

// execute runs the task closure on a worker. A task that lost the race
// against cancellation is skipped silently.
func (t *task) execute() {
	if _, ok := t.state.transitionInitToExec(); !ok {
		return
	}

	if t.monitor != nil {
		t.monitor.OnExecute()
	}

	t.run()

	t.state.transitionExecToComplete()
	close(t.done)

	if t.monitor != nil {
		t.monitor.OnComplete()
	}
}

// cancel tries to cancel the task. On success the task is removed from
// its queue, its closure is dropped and waiters are woken. Returns true
// iff the task is canceled, including a previous successful cancel.
func (t *task) cancel() bool {
	snap, ok := t.state.transitionToCanceled()
	if !ok {
		return snap.isCanceled()
	}

	t.exec.removeCanceled(t)
	t.discard()
	close(t.done)

	if t.monitor != nil {
		t.monitor.OnCanceled()
	}

	return true
}

// cell carries the typed closure and result of a task alongside its
// header. This is the tagged-union rendition of recovering the enclosing
// task from its header: the header's run and discard closures dispatch
// back into the cell.
type cell[R any] struct {
	task

	fn     func() R
	result R

	// panicked holds a panic captured while running the closure; it is
	// re-raised on join.
	panicked any
}

func newCell[R any](e *Executor, m Monitor, pri Priority, fn func() R) *cell[R] {
	c := &cell[R]{fn: fn}

	c.task.done = make(chan struct{})
	c.task.exec = e
	c.task.monitor = m
	c.task.priority.Store(int32(pri))
	c.task.run = c.runClosure
	c.task.discard = c.discardData

	return c
}

// runClosure consumes the closure and stores its result. Panics are
// captured, not propagated, so that a panicking render closure never
// takes down a worker.
func (c *cell[R]) runClosure() {
	defer func() {
		if p := recover(); p != nil {
			c.panicked = p
		}
	}()

	fn := c.fn
	c.fn = nil
	c.result = fn()
}

// discardData drops the closure and result immediately, releasing any
// captured memory.
func (c *cell[R]) discardData() {
	var zero R

	c.fn = nil
	c.result = zero
	c.panicked = nil
}
