package spill

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/btree"

	"linesort/lineio"
)

var ErrClosed = errors.New("spill: reader already closed")

const btreeDegree = 16

// Dir is the private temporary directory of one sort job. Every file
// created through it lives inside the directory, so removing the directory
// recursively reclaims all working state at once.
type Dir struct {
	path string
	seq  int
}

// NewDir creates the job directory under root, named by the job identifier.
func NewDir(root, jobID string) (*Dir, error) {
	path := filepath.Join(root, "linesort-"+jobID)
	if err := os.MkdirAll(path, 0o700); err != nil {
		return nil, fmt.Errorf("spill: failed to create temp dir: %w", err)
	}
	return &Dir{path: path}, nil
}

// Path returns the directory path.
func (d *Dir) Path() string { return d.path }

// RemoveAll deletes the directory and everything inside it.
func (d *Dir) RemoveAll() error {
	return os.RemoveAll(d.path)
}

func (d *Dir) nextFile() File {
	f := File{
		Path: filepath.Join(d.path, fmt.Sprintf("spill-%06d.run", d.seq)),
		Seq:  d.seq,
	}
	d.seq++
	return f
}

// File names one spill file. Seq is the creation order, which the merge
// uses to break comparator ties deterministically.
type File struct {
	Path string
	Seq  int
}

type chunkEntry struct {
	line string
	ord  int64
}

// Chunk accumulates lines for one spill file, kept ordered as they arrive.
type Chunk struct {
	tree  *btree.BTreeG[chunkEntry]
	bytes int64
	next  int64
}

// NewChunk returns an empty chunk ordered by cmp. Equal lines are kept in
// arrival order.
func NewChunk(cmp func(a, b string) int) *Chunk {
	less := func(a, b chunkEntry) bool {
		if c := cmp(a.line, b.line); c != 0 {
			return c < 0
		}
		return a.ord < b.ord
	}
	return &Chunk{tree: btree.NewG(btreeDegree, less)}
}

// Add inserts one line. The ordinal tie-break makes every entry distinct,
// so an insert can never displace an equal line.
func (c *Chunk) Add(line string) {
	c.tree.ReplaceOrInsert(chunkEntry{line: line, ord: c.next})
	c.next++
	c.bytes += int64(len(line)) + 1
}

// Bytes returns the accumulated size, counting one terminator per line.
func (c *Chunk) Bytes() int64 { return c.bytes }

// Len returns the number of lines in the chunk.
func (c *Chunk) Len() int { return c.tree.Len() }

// Ascend visits every line in sorted order until fn returns false.
func (c *Chunk) Ascend(fn func(line string) bool) {
	c.tree.Ascend(func(e chunkEntry) bool {
		return fn(e.line)
	})
}

// internalOptions describes the spill layout: UTF-8 text, one record per
// line, LF-terminated.
func internalOptions(delim rune) lineio.Options {
	return lineio.Options{Delimiter: delim}
}

// WriteChunk flushes one sorted chunk to the next spill file in d.
// Exactly one file is produced per chunk.
func WriteChunk(d *Dir, c *Chunk, delim rune) (File, error) {
	file := d.nextFile()

	f, err := os.OpenFile(file.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return File{}, fmt.Errorf("spill: failed to create %s: %w", file.Path, err)
	}

	w, err := lineio.NewWriter(f, internalOptions(delim), "\n")
	if err != nil {
		f.Close()
		return File{}, err
	}

	var writeErr error
	c.Ascend(func(line string) bool {
		writeErr = w.WriteLine(line)
		return writeErr == nil
	})
	if writeErr == nil {
		writeErr = w.Close()
	}
	if cerr := f.Close(); writeErr == nil && cerr != nil {
		writeErr = fmt.Errorf("spill: failed to close %s: %w", file.Path, cerr)
	}
	if writeErr != nil {
		return File{}, writeErr
	}
	return file, nil
}

// Reader streams one spill file back, one logical line per call.
type Reader struct {
	file File
	f    *os.File
	sc   *lineio.Scanner
}

// OpenReader opens a spill file for its single sequential read.
func OpenReader(file File, delim rune) (*Reader, error) {
	f, err := os.Open(file.Path)
	if err != nil {
		return nil, fmt.Errorf("spill: failed to open %s: %w", file.Path, err)
	}
	sc, err := lineio.NewScanner(f, internalOptions(delim))
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Reader{file: file, f: f, sc: sc}, nil
}

// Seq returns the creation sequence number of the underlying file.
func (r *Reader) Seq() int { return r.file.Seq }

// Next returns the next line, or ok=false once the file is exhausted.
func (r *Reader) Next() (line string, ok bool, err error) {
	if r.f == nil {
		return "", false, ErrClosed
	}
	if r.sc.Scan() {
		return r.sc.Text(), true, nil
	}
	if err := r.sc.Err(); err != nil {
		return "", false, err
	}
	return "", false, nil
}

// Close releases the underlying file. It is safe to call more than once.
func (r *Reader) Close() error {
	if r.f == nil {
		return nil
	}
	f := r.f
	r.f = nil
	if err := f.Close(); err != nil {
		return fmt.Errorf("spill: failed to close %s: %w", r.file.Path, err)
	}
	return nil
}
