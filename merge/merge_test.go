package merge

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSource is an in-memory Source for testing.
type memSource struct {
	seq     int
	lines   []string
	pos     int
	nextErr error
	closed  int
}

func (m *memSource) Next() (string, bool, error) {
	if m.nextErr != nil && m.pos == len(m.lines) {
		return "", false, m.nextErr
	}
	if m.pos >= len(m.lines) {
		return "", false, nil
	}
	line := m.lines[m.pos]
	m.pos++
	return line, true, nil
}

func (m *memSource) Seq() int { return m.seq }

func (m *memSource) Close() error {
	m.closed++
	return nil
}

func runMerge(t *testing.T, sources []Source) []string {
	t.Helper()
	var out []string
	err := Merge(context.Background(), sources, strings.Compare, func(line string) error {
		out = append(out, line)
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestMerge_ThreeSources(t *testing.T) {
	sources := []Source{
		&memSource{seq: 0, lines: []string{"a", "d", "g"}},
		&memSource{seq: 1, lines: []string{"b", "e", "h"}},
		&memSource{seq: 2, lines: []string{"c", "f", "i"}},
	}

	out := runMerge(t, sources)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}, out)

	for _, s := range sources {
		assert.Equal(t, 1, s.(*memSource).closed, "each source closed exactly once")
	}
}

func TestMerge_UnevenSources(t *testing.T) {
	sources := []Source{
		&memSource{seq: 0, lines: []string{"z"}},
		&memSource{seq: 1, lines: nil},
		&memSource{seq: 2, lines: []string{"a", "b", "c", "d"}},
	}

	out := runMerge(t, sources)
	assert.Equal(t, []string{"a", "b", "c", "d", "z"}, out)
}

func TestMerge_NoSources(t *testing.T) {
	out := runMerge(t, nil)
	assert.Empty(t, out)
}

func TestMerge_EqualLinesBreakTiesBySeq(t *testing.T) {
	// All lines compare equal under a constant comparator; output must
	// follow source creation order regardless of slice order.
	a := &memSource{seq: 0, lines: []string{"from-0", "from-0"}}
	b := &memSource{seq: 1, lines: []string{"from-1"}}
	c := &memSource{seq: 2, lines: []string{"from-2"}}

	var out []string
	err := Merge(context.Background(), []Source{c, b, a},
		func(string, string) int { return 0 },
		func(line string) error {
			out = append(out, line)
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, []string{"from-0", "from-0", "from-1", "from-2"}, out)
}

func TestMerge_SourceError(t *testing.T) {
	wantErr := errors.New("spill read failed")
	sources := []Source{
		&memSource{seq: 0, lines: []string{"a", "b"}, nextErr: wantErr},
		&memSource{seq: 1, lines: []string{"c"}},
	}

	err := Merge(context.Background(), sources, strings.Compare, func(string) error { return nil })
	assert.ErrorIs(t, err, wantErr)
}

func TestMerge_EmitError(t *testing.T) {
	wantErr := errors.New("output full")
	sources := []Source{
		&memSource{seq: 0, lines: []string{"a"}},
	}

	err := Merge(context.Background(), sources, strings.Compare, func(string) error { return wantErr })
	assert.ErrorIs(t, err, wantErr)
}

func TestMerge_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sources := []Source{
		&memSource{seq: 0, lines: []string{"a", "b"}},
	}

	var out []string
	err := Merge(ctx, sources, strings.Compare, func(line string) error {
		out = append(out, line)
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out)
}
