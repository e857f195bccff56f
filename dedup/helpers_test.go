package dedup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/nrtkbb/dupscan/models"
	"github.com/nrtkbb/dupscan/scanner"
	"github.com/stretchr/testify/require"
)

func writeDir(t *testing.T, files map[string]string) (billy.Filesystem, string) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	fsys, err := scanner.Open(dir)
	require.NoError(t, err)
	return fsys, dir
}

func names(g models.Group) []string {
	out := make([]string, 0, len(g.Files))
	for _, f := range g.Files {
		out = append(out, f.Name)
	}
	return out
}

// countingContents is a ContentComparer stub that records its calls.
type countingContents struct {
	calls  int
	result int
	err    error
	failOn map[[2]string]error
}

func (c *countingContents) CompareContents(_ context.Context, name1, name2 string) (int, error) {
	c.calls++
	if err, ok := c.failOn[[2]string{name1, name2}]; ok {
		return 0, err
	}
	return c.result, c.err
}

// trackingFS counts opened and closed handles and can fail Open or Read
// for selected names.
type trackingFS struct {
	billy.Filesystem

	mu       sync.Mutex
	opened   int
	closed   int
	failOpen map[string]bool
	failRead map[string]bool
}

var errDisk = errors.New("disk on fire")

func (fs *trackingFS) Open(name string) (billy.File, error) {
	if fs.failOpen[name] {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	f, err := fs.Filesystem.Open(name)
	if err != nil {
		return nil, err
	}
	fs.mu.Lock()
	fs.opened++
	fs.mu.Unlock()
	return &trackedFile{File: f, fs: fs, failRead: fs.failRead[name]}, nil
}

type trackedFile struct {
	billy.File
	fs       *trackingFS
	failRead bool
}

func (f *trackedFile) Read(p []byte) (int, error) {
	if f.failRead {
		return 0, errDisk
	}
	return f.File.Read(p)
}

func (f *trackedFile) Close() error {
	f.fs.mu.Lock()
	f.fs.closed++
	f.fs.mu.Unlock()
	return f.File.Close()
}
