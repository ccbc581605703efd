package merge

import (
	"context"

	"linesort/priority"
)

// Source is one exhaustible stream of sorted lines, typically an open
// spill file.
type Source interface {
	// Next returns the next line in sorted order, with ok=false once the
	// source is exhausted.
	Next() (line string, ok bool, err error)

	// Seq is the creation order of the source; the lower sequence wins
	// comparator ties.
	Seq() int

	// Close releases the source. Implementations must tolerate repeated
	// calls, since the caller may close again on its own cleanup path.
	Close() error
}

// Cancellation is polled once per stride of queue pops to keep the check
// off the per-line path.
const cancelStride = 256

type entry struct {
	line string
	src  Source
}

// Merge streams the sorted union of sources through emit. Each source is
// read exactly once, sequentially, and closed as soon as it is exhausted.
// On error the remaining sources are left open for the caller's cleanup.
func Merge(ctx context.Context, sources []Source, cmp func(a, b string) int, emit func(line string) error) error {
	less := func(a, b *entry) bool {
		if c := cmp(a.line, b.line); c != 0 {
			return c < 0
		}
		return a.src.Seq() < b.src.Seq()
	}
	q := priority.NewQueue(less)

	// Prime the queue with the first line of every source.
	for _, src := range sources {
		line, ok, err := src.Next()
		if err != nil {
			return err
		}
		if !ok {
			if err := src.Close(); err != nil {
				return err
			}
			continue
		}
		q.Push(&entry{line: line, src: src})
	}

	var pops int
	for q.Len() > 0 {
		if pops%cancelStride == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		pops++

		e, _ := q.Peek()
		if err := emit(e.line); err != nil {
			return err
		}

		line, ok, err := e.src.Next()
		if err != nil {
			return err
		}
		if ok {
			e.line = line
			q.FixTop()
		} else {
			if err := e.src.Close(); err != nil {
				return err
			}
			q.Pop()
		}
	}

	return nil
}
