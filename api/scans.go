package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nrtkbb/dupscan/db"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// ListScans returns stored scans, newest first
func (h *Handler) ListScans(c echo.Context) error {
	ctx := c.Request().Context()
	tracer := otel.Tracer("api/handlers")
	ctx, span := tracer.Start(ctx, "ListScans")
	defer span.End()

	c.SetRequest(c.Request().WithContext(ctx))

	total, err := db.CountScans(ctx, h.db)
	if err != nil {
		span.RecordError(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get total count")
	}

	page, err := h.getPageFromQuery(c, total)
	if err != nil {
		span.RecordError(err)
		return err
	}

	scans, err := db.ListScans(ctx, h.db, perPage, (page-1)*perPage)
	if err != nil {
		span.RecordError(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list scans")
	}

	data := make([]ScanSummary, 0, len(scans))
	for _, s := range scans {
		data = append(data, toScanSummary(s))
	}

	return c.JSON(http.StatusOK, NewPaginatedResponse(c, data, page, perPage, total))
}

// GetScan returns the summary of one scan
func (h *Handler) GetScan(c echo.Context) error {
	ctx := c.Request().Context()
	tracer := otel.Tracer("api/handlers")
	ctx, span := tracer.Start(ctx, "GetScan")
	defer span.End()

	scanID, err := h.getScanIDFromParam(c)
	if err != nil {
		span.RecordError(err)
		return err
	}
	span.SetAttributes(attribute.Int64("scan_id", scanID))

	scan, err := db.GetScan(ctx, h.db, scanID)
	if err != nil {
		span.RecordError(err)
		return scanLookupError(err)
	}

	return c.JSON(http.StatusOK, toScanSummary(scan))
}

// GetGroups returns the duplicate groups of one scan
func (h *Handler) GetGroups(c echo.Context) error {
	ctx := c.Request().Context()
	tracer := otel.Tracer("api/handlers")
	ctx, span := tracer.Start(ctx, "GetGroups")
	defer span.End()

	scanID, err := h.getScanIDFromParam(c)
	if err != nil {
		span.RecordError(err)
		return err
	}
	span.SetAttributes(attribute.Int64("scan_id", scanID))

	if _, err := db.GetScan(ctx, h.db, scanID); err != nil {
		span.RecordError(err)
		return scanLookupError(err)
	}

	groups, err := db.GetGroups(ctx, h.db, scanID)
	if err != nil {
		span.RecordError(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get groups")
	}

	data := make([]DuplicateGroup, 0, len(groups))
	for i, g := range groups {
		group := DuplicateGroup{Index: i, Files: make([]DuplicateFile, 0, len(g.Files))}
		for _, f := range g.Files {
			group.Files = append(group.Files, DuplicateFile{Name: f.Name, Size: f.Size, SizeKB: f.SizeKB()})
		}
		data = append(data, group)
	}
	span.SetAttributes(attribute.Int("groups", len(data)))

	return c.JSON(http.StatusOK, data)
}

// GetErrors returns the pairs one scan could not compare
func (h *Handler) GetErrors(c echo.Context) error {
	ctx := c.Request().Context()
	tracer := otel.Tracer("api/handlers")
	ctx, span := tracer.Start(ctx, "GetErrors")
	defer span.End()

	scanID, err := h.getScanIDFromParam(c)
	if err != nil {
		span.RecordError(err)
		return err
	}
	span.SetAttributes(attribute.Int64("scan_id", scanID))

	if _, err := db.GetScan(ctx, h.db, scanID); err != nil {
		span.RecordError(err)
		return scanLookupError(err)
	}

	stored, err := db.GetErrors(ctx, h.db, scanID)
	if err != nil {
		span.RecordError(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get comparison errors")
	}

	data := make([]ComparisonError, 0, len(stored))
	for _, e := range stored {
		data = append(data, ComparisonError{First: e.First, Second: e.Second, Message: e.Message})
	}

	return c.JSON(http.StatusOK, data)
}

func scanLookupError(err error) error {
	if errors.Is(err, db.ErrScanNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Scan not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get scan")
}

func toScanSummary(s db.ScanSummary) ScanSummary {
	return ScanSummary{
		ScanID:         s.ScanID,
		Directory:      s.Directory,
		CreatedAt:      s.CreatedAt,
		ElapsedMS:      s.ElapsedMS,
		FileCount:      s.FileCount,
		GroupCount:     s.GroupCount,
		DuplicateBytes: s.DuplicateBytes,
		ErrorCount:     s.ErrorCount,
	}
}
