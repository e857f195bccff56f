package dedup

import (
	"context"

	"github.com/nrtkbb/dupscan/models"
)

// Comparator decides whether two records are the same file content.
// Contents are only read when the sizes already match.
type Comparator struct {
	Contents ContentComparer
	Stats    *models.ProgressStats
}

func NewComparator(contents ContentComparer, stats *models.ProgressStats) *Comparator {
	return &Comparator{Contents: contents, Stats: stats}
}

// Compare returns the size ordering of a and b when their sizes differ
// and the content ordering otherwise.
func (c *Comparator) Compare(ctx context.Context, a, b models.FileRecord) (int, error) {
	if c.Stats != nil {
		c.Stats.SizeComparisons.Add(1)
	}
	if order := CompareSize(a, b); order != 0 {
		return order, nil
	}

	if c.Stats != nil {
		c.Stats.ContentComparisons.Add(1)
	}
	return c.Contents.CompareContents(ctx, a.Name, b.Name)
}

// Identical reports whether a and b have equal size and equal bytes.
func (c *Comparator) Identical(ctx context.Context, a, b models.FileRecord) (bool, error) {
	order, err := c.Compare(ctx, a, b)
	if err != nil {
		return false, err
	}
	return order == 0, nil
}
