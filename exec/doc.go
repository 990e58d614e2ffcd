// Package exec provides a fixed-size thread-pool executor with support
// for task priorities, in-flight priority changes and cancellation.
//
// Tasks are submitted with a priority and enqueued into one intrusive
// doubly-linked list per priority. Workers pull from the highest-priority
// non-empty list in FIFO order. Because the lists are intrusive, removing
// a specific task - for cancellation or a priority change - is O(1) and
// never scans a queue.
//
// Each task runs through a small atomic state machine over the flags
// executing, complete, consumed and canceled. A task that has started
// executing can no longer be canceled; a canceled task will never
// execute. Panics in the task closure are captured and re-raised when the
// result is joined.
package exec
