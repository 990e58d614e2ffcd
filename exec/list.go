package exec

// taskList is an intrusive doubly-linked list of tasks.
//
// The node pointers live inside the task itself, which makes removal by
// identity O(1) without scanning. All operations must be called with the
// owning executor's mutex held; the list itself performs no locking.
//
// New tasks are pushed to the front and workers pop from the back, so
// each list is FIFO within its priority.
type taskList struct {
	head *task
	tail *task
	size int
}

// len returns the number of queued tasks.
func (l *taskList) len() int {
	return l.size
}

// pushFront adds a task at the front of the list. The task must not be
// on any list.
func (l *taskList) pushFront(t *task) {
	t.prev = nil
	t.next = l.head

	if l.head != nil {
		l.head.prev = t
	} else {
		l.tail = t
	}

	l.head = t
	t.queued = true
	l.size++
}

// popBack removes and returns the task at the back of the list, or nil
// if the list is empty.
func (l *taskList) popBack() *task {
	t := l.tail
	if t == nil {
		return nil
	}

	l.tail = t.prev
	if l.tail != nil {
		l.tail.next = nil
	} else {
		l.head = nil
	}

	t.prev = nil
	t.next = nil
	t.queued = false
	l.size--

	return t
}

// remove unlinks the given task from the list. Returns false if the task
// is not queued, e.g. because a worker already dequeued it.
func (l *taskList) remove(t *task) bool {
	if !t.queued {
		return false
	}

	if t.prev != nil {
		t.prev.next = t.next
	} else {
		l.head = t.next
	}

	if t.next != nil {
		t.next.prev = t.prev
	} else {
		l.tail = t.prev
	}

	t.prev = nil
	t.next = nil
	t.queued = false
	l.size--

	return true
}
