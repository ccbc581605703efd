// Package fanin reads several independent input files concurrently with a
// fixed-size worker pool while preserving their original relative order in
// the combined result: every line of paths[i] precedes every line of
// paths[i+1], whatever order the workers finish in. It never parallelizes
// a single sort job.
package fanin

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"linesort/lineio"
)

const defaultMaxConcurrency = 10

// Options configures a concurrent read.
type Options struct {
	// MaxConcurrency bounds the worker pool; 10 when zero.
	MaxConcurrency int

	// Line configures the delimiter and encoding shared by all files.
	Line lineio.Options
}

// ReadAll reads every named file and returns their logical lines
// concatenated in path order. The first failure cancels the remaining
// reads and is returned.
func ReadAll(ctx context.Context, paths []string, opts Options) ([]string, error) {
	workers := opts.MaxConcurrency
	if workers <= 0 {
		workers = defaultMaxConcurrency
	}

	results := make([][]string, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			lines, err := readFile(path, opts.Line)
			if err != nil {
				return err
			}
			results[i] = lines
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var combined []string
	for _, lines := range results {
		combined = append(combined, lines...)
	}
	return combined, nil
}

func readFile(path string, opts lineio.Options) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fanin: failed to open %s: %w", path, err)
	}
	defer f.Close()

	sc, err := lineio.NewScanner(f, opts)
	if err != nil {
		return nil, err
	}

	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("fanin: %s: %w", path, err)
	}
	return lines, nil
}
