package dedup

import (
	"context"
	"errors"
	"testing"

	"github.com/nrtkbb/dupscan/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareContents(t *testing.T) {
	fsys, _ := writeDir(t, map[string]string{
		"a":      "aaaaaaaaaa",
		"a2":     "aaaaaaaaaa",
		"b":      "bbbbbbbbbb",
		"low":    "abc\x01",
		"high":   "abc\xff",
		"empty1": "",
		"empty2": "",
		"short":  "aaaaa",
	})
	stats := &models.ProgressStats{}
	c := NewFileContents(fsys, stats)
	ctx := context.Background()

	tests := []struct {
		name   string
		n1, n2 string
		want   int
	}{
		{"identical", "a", "a2", 0},
		{"same file", "a", "a", 0},
		{"first byte smaller", "a", "b", -1},
		{"first byte larger", "b", "a", +1},
		{"unsigned byte order", "low", "high", -1},
		{"unsigned byte order reversed", "high", "low", +1},
		{"empty files", "empty1", "empty2", 0},
		{"first ends early", "short", "a", -1},
		{"second ends early", "a", "short", +1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.CompareContents(ctx, tt.n1, tt.n2)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Positive(t, stats.BytesCompared.Load())
}

func TestCompareContentsOpenFailure(t *testing.T) {
	base, _ := writeDir(t, map[string]string{"a": "xx", "b": "xx"})
	fsys := &trackingFS{Filesystem: base, failOpen: map[string]bool{"b": true}}
	c := NewFileContents(fsys, nil)

	_, err := c.CompareContents(context.Background(), "a", "b")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOpen))
	assert.False(t, errors.Is(err, ErrRead))

	var ce *CompareError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "b", ce.Name)
	assert.Equal(t, fsys.opened, fsys.closed, "every opened handle must be closed")
}

func TestCompareContentsMissingFile(t *testing.T) {
	fsys, _ := writeDir(t, map[string]string{"a": "xx"})
	c := NewFileContents(fsys, nil)

	order, err := c.CompareContents(context.Background(), "gone", "a")
	assert.ErrorIs(t, err, ErrOpen)
	assert.Zero(t, order)
}

func TestCompareContentsReadFailure(t *testing.T) {
	base, _ := writeDir(t, map[string]string{"a": "xx", "b": "xx"})
	fsys := &trackingFS{Filesystem: base, failRead: map[string]bool{"a": true}}
	c := NewFileContents(fsys, nil)

	_, err := c.CompareContents(context.Background(), "a", "b")
	assert.ErrorIs(t, err, ErrRead)
	assert.ErrorIs(t, err, errDisk)
	assert.Equal(t, 2, fsys.opened)
	assert.Equal(t, 2, fsys.closed)
}

func TestCompareContentsReleasesHandles(t *testing.T) {
	base, _ := writeDir(t, map[string]string{"a": "abc", "b": "abd", "c": "abc"})
	fsys := &trackingFS{Filesystem: base}
	c := NewFileContents(fsys, nil)

	_, err := c.CompareContents(context.Background(), "a", "b")
	require.NoError(t, err)
	_, err = c.CompareContents(context.Background(), "a", "c")
	require.NoError(t, err)

	assert.Equal(t, 4, fsys.opened)
	assert.Equal(t, 4, fsys.closed)
}

func TestCompareContentsCanceled(t *testing.T) {
	fsys, _ := writeDir(t, map[string]string{"a": "x", "b": "x"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileContents(fsys, nil).CompareContents(ctx, "a", "b")
	assert.ErrorIs(t, err, context.Canceled)
}
