package lineio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// Common errors returned by lineio operations.
var (
	ErrEncoding        = errors.New("lineio: malformed text for configured encoding")
	ErrUnknownEncoding = errors.New("lineio: unknown encoding")
)

const bufferSize = 64 * 1024

// Options configures the text format shared by Scanner and Writer.
type Options struct {
	// Delimiter separates fields; ',' when zero. Tab-delimited files use '\t'.
	Delimiter rune

	// Encoding names the on-disk text encoding; UTF-8 when empty.
	Encoding string
}

func (o Options) delimiter() rune {
	if o.Delimiter == 0 {
		return ','
	}
	return o.Delimiter
}

// errTap records the first error raised by the wrapped reader or writer,
// so that a failure surfacing through a transform chain can be told apart
// from a failure of the transform itself.
type errTap struct {
	r io.Reader
	w io.Writer

	err error
}

func (t *errTap) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && t.err == nil {
		t.err = err
	}
	return n, err
}

func (t *errTap) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if err != nil && t.err == nil {
		t.err = err
	}
	return n, err
}

// Scanner reads successive logical lines from a delimited text stream.
type Scanner struct {
	br      *bufio.Reader
	tap     *errTap
	delim   rune
	utf8Src bool

	line    string
	lineNum int
	term    string
	err     error
	done    bool
}

// NewScanner returns a Scanner reading decoded logical lines from r.
func NewScanner(r io.Reader, opts Options) (*Scanner, error) {
	enc, err := lookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}

	tap := &errTap{r: r}
	var rd io.Reader = tap
	if enc != nil {
		rd = transform.NewReader(tap, enc.NewDecoder())
	}

	return &Scanner{
		br:      bufio.NewReaderSize(rd, bufferSize),
		tap:     tap,
		delim:   opts.delimiter(),
		utf8Src: enc == nil,
	}, nil
}

// Scan advances to the next logical line. It returns false at end of input
// or on error; Err distinguishes the two.
func (s *Scanner) Scan() bool {
	if s.err != nil || s.done {
		return false
	}

	var b strings.Builder
	var started bool
	inQuote := false
	afterDelim := true

	for {
		phys, err := s.br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			if s.tap.err != nil {
				s.err = fmt.Errorf("lineio: read failed: %w", s.tap.err)
			} else {
				s.err = fmt.Errorf("lineio: line %d: %v: %w", s.lineNum+1, err, ErrEncoding)
			}
			return false
		}
		eof := errors.Is(err, io.EOF)

		body := phys
		var term string
		if strings.HasSuffix(body, "\n") {
			term = "\n"
			if strings.HasSuffix(body, "\r\n") {
				term = "\r\n"
			}
			body = body[:len(body)-len(term)]
			if s.term == "" {
				s.term = term
			}
		}

		if verr := s.checkText(body); verr != nil {
			s.err = verr
			return false
		}

		inQuote, afterDelim = advanceQuoteState(body, s.delim, inQuote, afterDelim)
		if body != "" || term != "" {
			started = true
		}
		b.WriteString(body)

		if inQuote && !eof {
			// An open quoted field swallows the terminator; the logical
			// line continues on the next physical line.
			b.WriteString(term)
			continue
		}

		if eof {
			s.done = true
			if !started {
				return false
			}
		}

		s.line = b.String()
		s.lineNum++
		return true
	}
}

// Text returns the current logical line without its final terminator.
// Terminators embedded in quoted fields are preserved verbatim.
func (s *Scanner) Text() string { return s.line }

// Line returns the 1-based number of logical lines read so far.
func (s *Scanner) Line() int { return s.lineNum }

// Err returns the first error encountered by the Scanner.
func (s *Scanner) Err() error { return s.err }

// Terminator returns the line terminator detected on the first terminated
// physical line, or "\n" when none has been seen.
func (s *Scanner) Terminator() string {
	if s.term == "" {
		return "\n"
	}
	return s.term
}

func (s *Scanner) checkText(body string) error {
	if s.utf8Src {
		if !utf8.ValidString(body) {
			return fmt.Errorf("lineio: line %d: invalid UTF-8: %w", s.lineNum+1, ErrEncoding)
		}
		return nil
	}
	// The decoders substitute U+FFFD for unmappable input instead of
	// failing; none of the supported source encodings can decode to
	// U+FFFD, so its presence marks an undecodable byte sequence.
	if strings.ContainsRune(body, utf8.RuneError) {
		return fmt.Errorf("lineio: line %d: undecodable byte sequence: %w", s.lineNum+1, ErrEncoding)
	}
	return nil
}

// advanceQuoteState walks the quote state machine across one physical line.
// A quote opens a field only at the start of that field; inside a quoted
// field a doubled quote is an escaped literal.
func advanceQuoteState(body string, delim rune, inQuote, afterDelim bool) (bool, bool) {
	for i := 0; i < len(body); {
		r, size := utf8.DecodeRuneInString(body[i:])
		if inQuote {
			if r == '"' {
				if i+size < len(body) && body[i+size] == '"' {
					i += size + 1
					continue
				}
				inQuote = false
				afterDelim = false
			}
		} else {
			switch {
			case r == '"' && afterDelim:
				inQuote = true
			case r == delim:
				afterDelim = true
			default:
				afterDelim = false
			}
		}
		i += size
	}
	return inQuote, afterDelim
}

// Writer writes logical lines with a fixed terminator, encoding them back
// to the configured encoding.
type Writer struct {
	bw   *bufio.Writer
	tw   io.WriteCloser
	tap  *errTap
	term string
}

// NewWriter returns a Writer emitting lines to w with the given terminator
// ("\n" when empty).
func NewWriter(w io.Writer, opts Options, terminator string) (*Writer, error) {
	enc, err := lookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}
	if terminator == "" {
		terminator = "\n"
	}

	lw := &Writer{term: terminator}
	if enc != nil {
		lw.tap = &errTap{w: w}
		lw.tw = transform.NewWriter(lw.tap, enc.NewEncoder())
		lw.bw = bufio.NewWriterSize(lw.tw, bufferSize)
	} else {
		lw.bw = bufio.NewWriterSize(w, bufferSize)
	}
	return lw, nil
}

// WriteLine appends one logical line followed by the terminator.
func (w *Writer) WriteLine(line string) error {
	if _, err := w.bw.WriteString(line); err != nil {
		return w.wrapWrite(err)
	}
	if _, err := w.bw.WriteString(w.term); err != nil {
		return w.wrapWrite(err)
	}
	return nil
}

// Close flushes buffered lines and finalizes the encoding transform. It
// does not close the underlying writer.
func (w *Writer) Close() error {
	if err := w.bw.Flush(); err != nil {
		return w.wrapWrite(err)
	}
	if w.tw != nil {
		if err := w.tw.Close(); err != nil {
			return w.wrapWrite(err)
		}
	}
	return nil
}

func (w *Writer) wrapWrite(err error) error {
	if w.tap != nil && w.tap.err == nil {
		// The destination never failed, so the transform did: the line
		// holds a rune the target encoding cannot represent.
		return fmt.Errorf("lineio: %v: %w", err, ErrEncoding)
	}
	return fmt.Errorf("lineio: write failed: %w", err)
}
