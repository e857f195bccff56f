package dedup

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-git/go-billy/v5"
	"github.com/nrtkbb/dupscan/models"
)

var (
	ErrOpen = errors.New("open failed")
	ErrRead = errors.New("read failed")
)

// CompareError describes a content comparison that could not finish.
type CompareError struct {
	Op   error // ErrOpen or ErrRead
	Name string
	Err  error
}

func (e *CompareError) Error() string {
	return fmt.Sprintf("%v: %s: %v", e.Op, e.Name, e.Err)
}

func (e *CompareError) Is(target error) bool { return target == e.Op }

func (e *CompareError) Unwrap() error { return e.Err }

// ContentComparer orders two files by their bytes.
type ContentComparer interface {
	CompareContents(ctx context.Context, name1, name2 string) (int, error)
}

// FileContents compares files read from a billy filesystem.
type FileContents struct {
	FS    billy.Filesystem
	Stats *models.ProgressStats
}

func NewFileContents(fsys billy.Filesystem, stats *models.ProgressStats) *FileContents {
	return &FileContents{FS: fsys, Stats: stats}
}

// CompareContents reads both files in lockstep and stops at the first
// differing byte. It returns 0 only when both files end at the same
// offset with no difference. If one file ends first it orders before the
// other.
func (c *FileContents) CompareContents(ctx context.Context, name1, name2 string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	f1, err := c.open(ctx, name1)
	if err != nil {
		return 0, err
	}
	defer f1.Close()

	f2, err := c.open(ctx, name2)
	if err != nil {
		return 0, err
	}
	defer f2.Close()

	r1 := bufio.NewReader(f1)
	r2 := bufio.NewReader(f2)

	var read int64
	defer func() {
		if c.Stats != nil {
			c.Stats.BytesCompared.Add(read)
		}
	}()

	for {
		b1, err1 := r1.ReadByte()
		if err1 != nil && err1 != io.EOF {
			return 0, &CompareError{Op: ErrRead, Name: name1, Err: err1}
		}
		b2, err2 := r2.ReadByte()
		if err2 != nil && err2 != io.EOF {
			return 0, &CompareError{Op: ErrRead, Name: name2, Err: err2}
		}

		switch {
		case err1 == io.EOF && err2 == io.EOF:
			return 0, nil
		case err1 == io.EOF:
			return -1, nil
		case err2 == io.EOF:
			return +1, nil
		}

		read++
		if b1 != b2 {
			if b1 < b2 {
				return -1, nil
			}
			return +1, nil
		}
	}
}

func (c *FileContents) open(ctx context.Context, name string) (billy.File, error) {
	f, err := c.FS.Open(name)
	if err != nil {
		return nil, &CompareError{Op: ErrOpen, Name: name, Err: err}
	}
	adviseSequential(ctx, f)
	return f, nil
}
