package linesort

import (
	"log/slog"
	"os"
)

// DefaultChunkSizeBytes is the in-memory byte budget of one chunk when no
// option overrides it.
const DefaultChunkSizeBytes = 100_000_000

// Delimiter selects the field delimiter of the input.
type Delimiter rune

const (
	Comma Delimiter = ','
	Tab   Delimiter = '\t'
)

// Comparator orders two logical lines: negative when a sorts before b,
// zero when equal, positive when a sorts after b. It must be a pure
// function of its arguments.
type Comparator func(a, b string) int

// options defines all configuration options for one sort job.
type options struct {
	chunkSizeBytes int64
	encoding       string
	delimiter      Delimiter
	skipHeader     bool
	tempRoot       string
	logger         *slog.Logger
}

// Option is a function that configures a sort job.
type Option func(*options)

// WithChunkSizeBytes sets the in-memory byte budget per chunk. The line
// that crosses the budget still joins its chunk, so the bound is soft by
// at most one line.
func WithChunkSizeBytes(n int64) Option {
	return func(o *options) {
		o.chunkSizeBytes = n
	}
}

// WithEncoding sets the text encoding of the input and output. UTF-8,
// Shift-JIS, Windows-31J, EUC-JP and UTF-16 (LE/BE) are recognized.
func WithEncoding(name string) Option {
	return func(o *options) {
		o.encoding = name
	}
}

// WithDelimiter sets the field delimiter used by the quote-aware line
// splitter.
func WithDelimiter(d Delimiter) Option {
	return func(o *options) {
		o.delimiter = d
	}
}

// WithSkipHeader controls whether the first logical line is withheld from
// sorting and written verbatim as the first output line.
func WithSkipHeader(skip bool) Option {
	return func(o *options) {
		o.skipHeader = skip
	}
}

// WithTempRoot sets the directory the per-job temporary directory is
// created under.
func WithTempRoot(dir string) Option {
	return func(o *options) {
		o.tempRoot = dir
	}
}

// WithLogger sets the logger used for cleanup-path diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		chunkSizeBytes: DefaultChunkSizeBytes,
		delimiter:      Comma,
		skipHeader:     true,
		tempRoot:       os.TempDir(),
		logger:         slog.Default(),
	}
}
