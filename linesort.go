// Package linesort sorts line-oriented tabular files that do not fit in
// memory, using an external merge sort: the input is read in chunks under
// a byte budget, each chunk is sorted in memory by a caller-supplied
// comparator and spilled to a per-job temporary file, and the spills are
// k-way merged into the output.
//
// A job either fully produces the output path or fails with a typed error
// and leaves no temporary state behind: output is staged next to the
// destination and renamed into place only on success, and the job's
// temporary directory is removed on every exit path.
package linesort

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"linesort/lineio"
	"linesort/merge"
	"linesort/spill"
)

// Sort sorts the file at inputPath into outputPath using cmp. It is a
// single synchronous operation; cancel ctx to abort between chunks or
// merge steps. Multiple jobs may run concurrently as long as they name
// distinct output paths.
func Sort(ctx context.Context, inputPath, outputPath string, cmp Comparator, opts ...Option) (err error) {
	switch {
	case inputPath == "":
		return fmt.Errorf("%w: input path is required", ErrConfig)
	case outputPath == "":
		return fmt.Errorf("%w: output path is required", ErrConfig)
	case cmp == nil:
		return fmt.Errorf("%w: comparator is required", ErrConfig)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.chunkSizeBytes <= 0 {
		return fmt.Errorf("%w: chunk size must be positive", ErrConfig)
	}

	// Comparator panics unwind through every phase; catch them at the job
	// boundary once cleanup has already run. Anything else is a bug and
	// keeps panicking.
	defer func() {
		if r := recover(); r != nil {
			ce, ok := r.(*ComparatorError)
			if !ok {
				panic(r)
			}
			err = ce
		}
	}()

	j := &job{
		id:  uuid.NewString(),
		in:  inputPath,
		out: outputPath,
		cmp: guard(cmp),
		o:   o,
	}
	return j.run(ctx)
}

// guard re-raises comparator panics as *ComparatorError so the job
// boundary can tell them apart from internal failures.
func guard(cmp Comparator) func(a, b string) int {
	return func(a, b string) int {
		defer func() {
			if r := recover(); r != nil {
				panic(&ComparatorError{Cause: r})
			}
		}()
		return cmp(a, b)
	}
}

type job struct {
	id  string
	in  string
	out string
	cmp func(a, b string) int
	o   options
}

// input carries what the chunk phase learned about the source.
type input struct {
	header     string
	hasHeader  bool
	terminator string
	files      []spill.File
}

func (j *job) lineOptions() lineio.Options {
	return lineio.Options{Delimiter: rune(j.o.delimiter), Encoding: j.o.encoding}
}

func (j *job) run(ctx context.Context) error {
	log := j.o.logger.With("job", j.id)

	dir, err := spill.NewDir(j.o.tempRoot, j.id)
	if err != nil {
		return classify(err)
	}
	defer func() {
		if rerr := dir.RemoveAll(); rerr != nil {
			log.Warn("linesort: temp directory cleanup failed",
				"dir", dir.Path(), "error", rerr)
		}
	}()

	in, err := j.produceChunks(ctx, dir)
	if err != nil {
		return classify(err)
	}

	staging := fmt.Sprintf("%s.tmp-%s", j.out, j.id)
	published := false
	defer func() {
		if published {
			return
		}
		if rerr := os.Remove(staging); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
			log.Warn("linesort: staging file cleanup failed",
				"path", staging, "error", rerr)
		}
	}()

	if err := j.writeOutput(ctx, staging, in); err != nil {
		return classify(err)
	}

	if err := os.Rename(staging, j.out); err != nil {
		return classify(fmt.Errorf("failed to publish output: %w", err))
	}
	published = true
	return nil
}

// produceChunks reads the logical line stream, withholding the header when
// configured, and spills one sorted file per full chunk. Cancellation is
// polled at chunk boundaries.
func (j *job) produceChunks(ctx context.Context, dir *spill.Dir) (*input, error) {
	f, err := os.Open(j.in)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	sc, err := lineio.NewScanner(f, j.lineOptions())
	if err != nil {
		return nil, err
	}

	in := &input{}
	if j.o.skipHeader && sc.Scan() {
		in.header = sc.Text()
		in.hasHeader = true
	}

	chunk := spill.NewChunk(j.cmp)
	for sc.Scan() {
		chunk.Add(sc.Text())
		if chunk.Bytes() >= j.o.chunkSizeBytes {
			if cerr := ctx.Err(); cerr != nil {
				return nil, cerr
			}
			file, serr := spill.WriteChunk(dir, chunk, rune(j.o.delimiter))
			if serr != nil {
				return nil, serr
			}
			in.files = append(in.files, file)
			chunk = spill.NewChunk(j.cmp)
		}
	}
	if serr := sc.Err(); serr != nil {
		return nil, serr
	}
	if chunk.Len() > 0 {
		file, serr := spill.WriteChunk(dir, chunk, rune(j.o.delimiter))
		if serr != nil {
			return nil, serr
		}
		in.files = append(in.files, file)
	}

	in.terminator = sc.Terminator()
	return in, nil
}

// writeOutput streams the header and the merged spills to the staging
// path. With zero spills only the header (if any) is written; with one
// spill the merge degenerates to a sequential copy.
func (j *job) writeOutput(ctx context.Context, staging string, in *input) error {
	out, err := os.OpenFile(staging, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create staging output: %w", err)
	}
	defer out.Close()

	w, err := lineio.NewWriter(out, j.lineOptions(), in.terminator)
	if err != nil {
		return err
	}

	if in.hasHeader {
		if err := w.WriteLine(in.header); err != nil {
			return err
		}
	}

	sources := make([]merge.Source, 0, len(in.files))
	defer func() {
		for _, s := range sources {
			s.Close()
		}
	}()
	for _, file := range in.files {
		r, rerr := spill.OpenReader(file, rune(j.o.delimiter))
		if rerr != nil {
			return rerr
		}
		sources = append(sources, r)
	}

	if err := merge.Merge(ctx, sources, j.cmp, w.WriteLine); err != nil {
		return err
	}

	if err := w.Close(); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	return nil
}
