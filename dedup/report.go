package dedup

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/nrtkbb/dupscan/models"
	"github.com/rs/zerolog"
)

const ReportHeader = "Identical files report (size in KB):"

// ProgressFunc is called after each adjacent pair has been compared.
type ProgressFunc func(done, total int)

// FindGroups walks a size-sorted list and collects maximal runs of
// adjacent identical files. Files without an identical neighbour are left
// out. A pair that cannot be compared counts as different and is returned
// in the error list; the walk goes on.
func FindGroups(ctx context.Context, files []models.FileRecord, cmp *Comparator, progress ProgressFunc) ([]models.Group, []models.PairError, error) {
	var (
		groups  []models.Group
		skipped []models.PairError
		run     []models.FileRecord
		inRun   bool
	)
	logger := zerolog.Ctx(ctx)

	pairs := len(files) - 1
	for i := 0; i < pairs; i++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		same, err := cmp.Identical(ctx, files[i], files[i+1])
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, nil, ctxErr
			}
			pe := models.PairError{First: files[i].Name, Second: files[i+1].Name, Err: err}
			logger.Warn().Err(err).
				Str("first", pe.First).
				Str("second", pe.Second).
				Msg("skipping pair")
			skipped = append(skipped, pe)
			same = false
		}

		if same {
			run = append(run, files[i])
			inRun = true
		} else if inRun {
			run = append(run, files[i])
			groups = append(groups, models.Group{Files: run})
			run = nil
			inRun = false
		}

		if progress != nil {
			progress(i+1, pairs)
		}
	}

	if inRun {
		run = append(run, files[len(files)-1])
		groups = append(groups, models.Group{Files: run})
	}

	return groups, skipped, nil
}

// WriteReport prints the header followed by one line per file of each
// group and a blank line after every group.
func WriteReport(w io.Writer, groups []models.Group) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n\n", ReportHeader)
	for _, g := range groups {
		for _, f := range g.Files {
			fmt.Fprintf(bw, "%d %s\n", f.SizeKB(), f.Name)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
