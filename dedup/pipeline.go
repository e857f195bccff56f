package dedup

import (
	"context"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/nrtkbb/dupscan/models"
	"github.com/nrtkbb/dupscan/scanner"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Options struct {
	// Contents overrides the content comparer; defaults to FileContents
	// over the scanned filesystem.
	Contents ContentComparer
	Progress ProgressFunc
	Stats    *models.ProgressStats
}

// Run lists dir, sorts the files by size and finds the identical runs.
// Only a listing failure is returned as an error; pairs that could not be
// compared are carried in the report.
func Run(ctx context.Context, fsys billy.Filesystem, dir string, opts Options) (*models.Report, error) {
	tracer := otel.Tracer("dedup")
	ctx, span := tracer.Start(ctx, "dedup.Run")
	defer span.End()
	span.SetAttributes(attribute.String("directory", dir))

	logger := zerolog.Ctx(ctx)
	report := &models.Report{Directory: dir, StartedAt: time.Now()}

	stats := opts.Stats
	if stats == nil {
		stats = &models.ProgressStats{}
	}
	stats.StartTime = report.StartedAt

	_, enumSpan := tracer.Start(ctx, "dedup.Enumerate")
	files, err := scanner.ListFiles(fsys, dir)
	if err != nil {
		enumSpan.RecordError(err)
		enumSpan.SetStatus(codes.Error, "enumeration failed")
		enumSpan.End()
		span.RecordError(err)
		return nil, err
	}
	enumSpan.SetAttributes(attribute.Int("files", len(files)))
	enumSpan.End()
	report.FileCount = len(files)
	logger.Debug().Str("dir", dir).Int("files", len(files)).Msg("listed directory")

	contents := opts.Contents
	if contents == nil {
		contents = NewFileContents(fsys, stats)
	}
	cmp := NewComparator(contents, stats)

	sortCtx, sortSpan := tracer.Start(ctx, "dedup.Sort")
	SortBySize(files)
	OrderEqualSizes(sortCtx, files, cmp)
	sortSpan.End()

	groupCtx, groupSpan := tracer.Start(ctx, "dedup.FindGroups")
	groups, skipped, err := FindGroups(groupCtx, files, cmp, opts.Progress)
	if err != nil {
		groupSpan.RecordError(err)
		groupSpan.End()
		return nil, err
	}
	groupSpan.SetAttributes(
		attribute.Int("groups", len(groups)),
		attribute.Int("skipped_pairs", len(skipped)),
		attribute.Int64("content_comparisons", stats.ContentComparisons.Load()),
	)
	groupSpan.End()

	report.Groups = groups
	report.Errors = skipped
	report.Elapsed = time.Since(report.StartedAt)

	logger.Info().
		Str("dir", dir).
		Int("files", report.FileCount).
		Int("groups", len(groups)).
		Int("skipped_pairs", len(skipped)).
		Int64("bytes_compared", stats.BytesCompared.Load()).
		Dur("elapsed", report.Elapsed).
		Msg("scan completed")

	return report, nil
}
