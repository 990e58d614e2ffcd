package exec

import (
	"errors"
	"time"
)

// Sentinel errors for task handles.
var (
	// ErrCanceled is returned by Join when the task was canceled before
	// it ran.
	ErrCanceled = errors.New("exec: task canceled")

	// ErrConsumed is returned by Join when the result has already been
	// taken by a previous Join.
	ErrConsumed = errors.New("exec: task result already consumed")

	// ErrTimeout is returned by JoinTimeout when the task did not
	// complete within the given duration. The handle stays valid.
	ErrTimeout = errors.New("exec: join timed out")
)

// Handle is a remote handle for a submitted task.
//
// All methods are safe for concurrent use, but the result can be joined
// only once.
type Handle[R any] struct {
	c *cell[R]
}

// Finished reports whether the associated task has completed. Canceled
// tasks count as finished.
func (h *Handle[R]) Finished() bool {
	return h.c.state.load().isComplete()
}

// Cancel tries to cancel the associated task.
//
// Returns true if the task is canceled (by this or an earlier call) and
// false if it could not be canceled because it is executing or has
// already completed. A successful cancel removes the task from its queue
// and drops its closure immediately.
func (h *Handle[R]) Cancel() bool {
	return h.c.cancel()
}

// Release cancels the task if possible and ignores the outcome. Callers
// that overwrite or discard a pending handle use Release so that stale
// requests leave the queues immediately.
func (h *Handle[R]) Release() {
	h.c.cancel()
}

// SetPriority moves the task to the queue for the given priority. If the
// task is no longer queued - executing, completed or canceled - only the
// stored priority changes and the call is otherwise a no-op.
func (h *Handle[R]) SetPriority(pri Priority) {
	h.c.exec.setPriority(&h.c.task, pri)
}

// Priority returns the current priority of the task.
func (h *Handle[R]) Priority() Priority {
	return Priority(h.c.priority.Load())
}

// Join waits for the task to complete and returns its result.
//
// Returns ErrCanceled if the task was canceled before running and
// ErrConsumed if the result has already been taken. If the task closure
// panicked, Join re-raises that panic on the caller.
func (h *Handle[R]) Join() (R, error) {
	<-h.c.done
	return h.take()
}

// JoinTimeout waits for the task to complete within d and returns its
// result. Returns ErrTimeout without consuming the result if the task
// did not complete in time; the handle remains usable.
func (h *Handle[R]) JoinTimeout(d time.Duration) (R, error) {
	select {
	case <-h.c.done:
		return h.take()
	case <-time.After(d):
		var zero R
		return zero, ErrTimeout
	}
}

// take consumes the completed result.
func (h *Handle[R]) take() (R, error) {
	var zero R

	snap, ok := h.c.state.transitionCompleteToConsumed()
	if !ok {
		if snap.isCanceled() {
			return zero, ErrCanceled
		}
		return zero, ErrConsumed
	}

	if p := h.c.panicked; p != nil {
		panic(p)
	}

	result := h.c.result
	h.c.result = zero

	return result, nil
}
