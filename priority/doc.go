// Package priority implements a generic binary min-heap ordered by a
// user-provided less function.
//
// The queue is shaped for k-way merging: the common operation is reading
// the minimum, replacing it in place, and restoring the heap with FixTop,
// which avoids a pop/push pair per element.
//
// Basic usage:
//
//	q := priority.NewQueue(func(a, b int) bool { return a < b })
//	q.Push(5)
//	q.Push(3)
//	q.Push(7)
//
//	for q.Len() > 0 {
//	    v, _ := q.Pop()
//	    fmt.Println(v) // 3, 5, 7
//	}
package priority
