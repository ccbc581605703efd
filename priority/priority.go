package priority

// Queue is a binary min-heap. The less function reports whether a has
// higher priority than b.
type Queue[E any] struct {
	items []E
	less  func(a, b E) bool
}

// NewQueue returns an empty queue ordered by less.
func NewQueue[E any](less func(a, b E) bool) *Queue[E] {
	return &Queue[E]{less: less}
}

// Len returns the number of items in the queue.
func (q *Queue[E]) Len() int { return len(q.items) }

// Push adds an item.
func (q *Queue[E]) Push(e E) {
	q.items = append(q.items, e)
	q.siftUp(len(q.items) - 1)
}

// Peek returns the minimum item without removing it.
func (q *Queue[E]) Peek() (E, bool) {
	if len(q.items) == 0 {
		var zero E
		return zero, false
	}
	return q.items[0], true
}

// FixTop restores heap order after the minimum item has been mutated in
// place (through the value returned by Peek on pointer element types).
func (q *Queue[E]) FixTop() {
	if len(q.items) > 0 {
		q.siftDown(0)
	}
}

// Pop removes and returns the minimum item.
func (q *Queue[E]) Pop() (E, bool) {
	if len(q.items) == 0 {
		var zero E
		return zero, false
	}
	top := q.items[0]
	last := len(q.items) - 1
	q.items[0] = q.items[last]
	var zero E
	q.items[last] = zero
	q.items = q.items[:last]
	if last > 0 {
		q.siftDown(0)
	}
	return top, true
}

func (q *Queue[E]) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !q.less(q.items[i], q.items[parent]) {
			break
		}
		q.items[i], q.items[parent] = q.items[parent], q.items[i]
		i = parent
	}
}

func (q *Queue[E]) siftDown(i int) {
	n := len(q.items)
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		min := left
		if right := left + 1; right < n && q.less(q.items[right], q.items[left]) {
			min = right
		}
		if !q.less(q.items[min], q.items[i]) {
			break
		}
		q.items[i], q.items[min] = q.items[min], q.items[i]
		i = min
	}
}
