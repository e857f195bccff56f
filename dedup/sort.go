package dedup

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/nrtkbb/dupscan/models"
	"github.com/rs/zerolog"
)

// SortBySize orders files by ascending size in place. Files of equal size
// keep no particular order.
func SortBySize(files []models.FileRecord) {
	slices.SortFunc(files, CompareSize)
}

// OrderEqualSizes reorders every block of three or more equal-size files
// by content, so that identical files end up adjacent even when a
// different file of the same size was listed between them. files must
// already be sorted by size. Files that fail to compare are moved behind
// the readable ones of their block; FindGroups reports them.
func OrderEqualSizes(ctx context.Context, files []models.FileRecord, cmp *Comparator) {
	for start := 0; start < len(files); {
		end := start + 1
		for end < len(files) && CompareSize(files[start], files[end]) == 0 {
			end++
		}
		if end-start > 2 {
			orderBlock(ctx, files[start:end], cmp)
		}
		start = end
	}
}

// orderBlock sorts one equal-size block by content. A failed comparison
// would make the ordering inconsistent, so the failing file is set aside
// and the remaining files are sorted again.
func orderBlock(ctx context.Context, block []models.FileRecord, cmp *Comparator) {
	logger := zerolog.Ctx(ctx)
	failed := make(map[string]bool)

	for {
		slices.SortStableFunc(block, func(a, b models.FileRecord) int {
			return boolOrder(failed[a.Name], failed[b.Name])
		})
		readable := block[:len(block)-countFailed(block, failed)]

		var (
			newlyFailed bool
			giveUp      bool
		)
		slices.SortStableFunc(readable, func(a, b models.FileRecord) int {
			if newlyFailed || giveUp {
				return strings.Compare(a.Name, b.Name)
			}
			order, err := cmp.Compare(ctx, a, b)
			if err == nil {
				return order
			}
			var ce *CompareError
			if errors.As(err, &ce) && !failed[ce.Name] {
				logger.Debug().Err(err).Str("file", ce.Name).Msg("setting aside unreadable file")
				failed[ce.Name] = true
				newlyFailed = true
			} else {
				giveUp = true
			}
			return strings.Compare(a.Name, b.Name)
		})

		if !newlyFailed {
			return
		}
	}
}

func countFailed(block []models.FileRecord, failed map[string]bool) int {
	n := 0
	for _, f := range block {
		if failed[f.Name] {
			n++
		}
	}
	return n
}

// boolOrder puts false before true.
func boolOrder(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return +1
	}
}
