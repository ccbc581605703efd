package priority_test

import (
	"fmt"

	"linesort/priority"
)

// ExampleQueue demonstrates using the queue as a min-heap.
func ExampleQueue() {
	q := priority.NewQueue(func(a, b int) bool { return a < b })

	q.Push(5)
	q.Push(3)
	q.Push(7)

	for q.Len() > 0 {
		v, _ := q.Pop()
		fmt.Println(v)
	}

	// Output:
	// 3
	// 5
	// 7
}
