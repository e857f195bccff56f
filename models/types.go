package models

import (
	"sync/atomic"
	"time"
)

// FileRecord is one non-directory entry found by a scan.
type FileRecord struct {
	Name string
	Size uint64
}

// SizeHigh returns the upper 32 bits of the size.
func (f FileRecord) SizeHigh() uint32 { return uint32(f.Size >> 32) }

// SizeLow returns the lower 32 bits of the size.
func (f FileRecord) SizeLow() uint32 { return uint32(f.Size) }

// SizeKB is the size shown in reports: whole kilobytes plus one.
func (f FileRecord) SizeKB() uint64 { return f.Size/1024 + 1 }

// Group is a run of byte-identical files, in sorted order.
type Group struct {
	Files []FileRecord
}

// Bytes returns the space taken by every copy after the first.
func (g Group) Bytes() uint64 {
	if len(g.Files) < 2 {
		return 0
	}
	return g.Files[0].Size * uint64(len(g.Files)-1)
}

// PairError records an adjacent pair that could not be compared.
type PairError struct {
	First  string
	Second string
	Err    error
}

func (e PairError) Error() string {
	return e.First + " <-> " + e.Second + ": " + e.Err.Error()
}

func (e PairError) Unwrap() error { return e.Err }

// Report is the outcome of scanning one directory. Groups and Errors
// follow the sorted file order.
type Report struct {
	Directory string
	StartedAt time.Time
	Elapsed   time.Duration
	FileCount int
	Groups    []Group
	Errors    []PairError
}

// DuplicateBytes sums Group.Bytes over the report.
func (r *Report) DuplicateBytes() uint64 {
	var total uint64
	for _, g := range r.Groups {
		total += g.Bytes()
	}
	return total
}

// ProgressStats counts comparison work. The counters are safe to read
// while a scan is running.
type ProgressStats struct {
	SizeComparisons    atomic.Int64
	ContentComparisons atomic.Int64
	BytesCompared      atomic.Int64
	StartTime          time.Time
}
