package exec

import (
	"sync"

	"github.com/gogpu/docview"
)

// Priority selects the queue a task is submitted to. Higher values run
// first.
type Priority int

// Monitor receives task lifecycle notifications. OnComplete is invoked
// exactly once per task that actually runs, OnCanceled exactly once per
// successful cancel. Implementations must be safe for concurrent use;
// they are called from worker goroutines and from whichever goroutine
// cancels a task.
type Monitor interface {
	OnExecute()
	OnComplete()
	OnCanceled()
}

// NopMonitor is a Monitor that ignores all notifications.
type NopMonitor struct{}

func (NopMonitor) OnExecute()  {}
func (NopMonitor) OnComplete() {}
func (NopMonitor) OnCanceled() {}

// Executor is a thread-pool executor with a fixed number of workers and
// one FIFO queue per priority.
//
// Workers always pull from the highest-priority non-empty queue. A
// higher-priority task preempts the dequeueing of lower-priority work
// but never a task that is already running.
type Executor struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queues  []taskList
	running bool

	wg sync.WaitGroup
}

// NewExecutor creates an executor with the given number of priority
// levels and worker goroutines. Both are clamped to at least one. The
// workers start immediately.
func NewExecutor(priorities, workers int) *Executor {
	if priorities < 1 {
		priorities = 1
	}
	if workers < 1 {
		workers = 1
	}

	e := &Executor{
		queues:  make([]taskList, priorities),
		running: true,
	}
	e.cond = sync.NewCond(&e.mu)

	docview.Logger().Info("exec: executor started",
		"workers", workers, "priorities", priorities)

	e.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go e.process()
	}

	return e
}

// Submit enqueues a closure at the given priority and returns a handle
// to its eventual result.
func Submit[R any](e *Executor, pri Priority, fn func() R) *Handle[R] {
	return SubmitMonitored(e, nil, pri, fn)
}

// SubmitMonitored enqueues a closure at the given priority with a
// monitor attached to the task's lifecycle.
//
// Panics if pri is outside the executor's configured priority range.
func SubmitMonitored[R any](e *Executor, m Monitor, pri Priority, fn func() R) *Handle[R] {
	if int(pri) < 0 || int(pri) >= len(e.queues) {
		panic("exec: priority out of range")
	}

	c := newCell(e, m, pri, fn)
	e.push(&c.task)

	return &Handle[R]{c: c}
}

// Close stops the executor. Workers finish their current task, then
// exit; queued tasks are left unexecuted but their handles remain valid
// and will simply never observe further state changes. Close blocks
// until all workers have exited and is safe to call multiple times.
func (e *Executor) Close() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	e.mu.Unlock()

	e.cond.Broadcast()
	e.wg.Wait()

	docview.Logger().Info("exec: executor stopped")
}

// Pending returns the total number of queued tasks across all
// priorities.
func (e *Executor) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := 0
	for i := range e.queues {
		n += e.queues[i].len()
	}
	return n
}

// push enqueues a task to the front of its priority queue and wakes one
// worker. Enqueue-then-submit across threads is ordered by the queue
// mutex.
func (e *Executor) push(t *task) {
	e.mu.Lock()
	e.queues[t.priority.Load()].pushFront(t)
	e.mu.Unlock()

	e.cond.Signal()
}

// pop dequeues the next task, scanning queues from highest priority to
// lowest and pulling from the back for FIFO order within a priority.
// Blocks while all queues are empty; returns nil when the executor shuts
// down.
func (e *Executor) pop() *task {
	e.mu.Lock()
	defer e.mu.Unlock()

	for e.running {
		for i := len(e.queues) - 1; i >= 0; i-- {
			if t := e.queues[i].popBack(); t != nil {
				return t
			}
		}

		e.cond.Wait()
	}

	return nil
}

// process is the worker loop.
func (e *Executor) process() {
	defer e.wg.Done()

	for {
		t := e.pop()
		if t == nil {
			return
		}
		t.execute()
	}
}

// removeCanceled unlinks a freshly canceled task from its queue. The
// priority may only be read with the queue mutex held.
func (e *Executor) removeCanceled(t *task) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.queues[t.priority.Load()].remove(t)
}

// setPriority atomically swaps the stored priority and, under the queue
// mutex, moves the task from its old list to the new one. If the task is
// no longer on any list the priority change is a no-op for scheduling.
func (e *Executor) setPriority(t *task, pri Priority) {
	if int(pri) < 0 || int(pri) >= len(e.queues) {
		panic("exec: priority out of range")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	old := t.priority.Swap(int32(pri))
	if old == int32(pri) {
		return
	}

	if e.queues[old].remove(t) {
		e.queues[pri].pushFront(t)
	}
}
