package exec

import "sync/atomic"

// Task state flag bits.
const (
	stateExecuting uint32 = 1 << 0
	stateComplete  uint32 = 1 << 1
	stateConsumed  uint32 = 1 << 2
	stateCanceled  uint32 = 1 << 3
)

// state is the atomic state machine of a task.
//
// Valid transitions:
//
//	initial   --initToExec-------> executing
//	executing --execToComplete---> complete
//	complete  --completeToConsumed-> consumed
//	initial   --toCanceled-------> canceled (complete|consumed|canceled)
//
// A transition succeeds iff the current flag bits allow it; on failure
// the caller observes the returned snapshot and decides. The executing
// bit forbids cancellation, the complete bit forbids execution.
type state struct {
	v atomic.Uint32
}

// snapshot is an observed state value.
type snapshot uint32

func (s snapshot) isExecuting() bool { return uint32(s)&stateExecuting != 0 }
func (s snapshot) isComplete() bool  { return uint32(s)&stateComplete != 0 }
func (s snapshot) isConsumed() bool  { return uint32(s)&stateConsumed != 0 }
func (s snapshot) isCanceled() bool  { return uint32(s)&stateCanceled != 0 }

// load returns the current state snapshot.
func (s *state) load() snapshot {
	return snapshot(s.v.Load())
}

// transitionInitToExec marks the task as executing, gaining exclusive
// access to the task closure. Fails if the task is already executing or
// has been completed (including canceled).
func (s *state) transitionInitToExec() (snapshot, bool) {
	return s.update(func(v uint32) (uint32, bool) {
		if v&(stateComplete|stateExecuting) != 0 {
			return v, false
		}
		return v | stateExecuting, true
	})
}

// transitionExecToComplete clears the executing bit and marks the task
// as complete. The caller must hold the executing bit.
func (s *state) transitionExecToComplete() (snapshot, bool) {
	return s.update(func(v uint32) (uint32, bool) {
		return (v &^ stateExecuting) | stateComplete, true
	})
}

// transitionCompleteToConsumed marks the result as consumed, gaining
// exclusive access to it. Fails if the task has not completed or the
// result has already been taken.
func (s *state) transitionCompleteToConsumed() (snapshot, bool) {
	return s.update(func(v uint32) (uint32, bool) {
		if v&stateComplete == 0 || v&stateConsumed != 0 {
			return v, false
		}
		return v | stateConsumed, true
	})
}

// transitionToCanceled marks the task as canceled. The complete and
// consumed bits are set atomically alongside the canceled bit so that
// the task can neither execute nor surface a result. Fails if the task
// is executing or already complete.
func (s *state) transitionToCanceled() (snapshot, bool) {
	return s.update(func(v uint32) (uint32, bool) {
		if v&(stateComplete|stateExecuting) != 0 {
			return v, false
		}
		return v | stateComplete | stateConsumed | stateCanceled, true
	})
}

// update applies fn in a CAS loop. On failure the returned snapshot is
// the value that blocked the transition.
func (s *state) update(fn func(uint32) (uint32, bool)) (snapshot, bool) {
	for {
		curr := s.v.Load()

		next, ok := fn(curr)
		if !ok {
			return snapshot(curr), false
		}

		if s.v.CompareAndSwap(curr, next) {
			return snapshot(next), true
		}
	}
}
