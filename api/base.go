package api

import (
	"database/sql"
	"net/http"
	"reflect"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const perPage = 100

type Handler struct {
	db *sql.DB
}

func NewHandler(db *sql.DB) *Handler {
	return &Handler{db: db}
}

// Register mounts the scan history routes on e.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/api/scans", h.ListScans)
	e.GET("/api/scans/:id", h.GetScan)
	e.GET("/api/scans/:id/groups", h.GetGroups)
	e.GET("/api/scans/:id/errors", h.GetErrors)
}

// NewPaginatedResponse creates a new paginated response and adds telemetry
func NewPaginatedResponse(c echo.Context, data interface{}, page int, perPage int, total int) *PaginatedResponse {
	totalPages := (total + perPage - 1) / perPage
	hasNext := page < totalPages

	if span := trace.SpanFromContext(c.Request().Context()); span != nil {
		span.SetAttributes(
			attribute.Bool("has_next_page", hasNext),
			attribute.Int("response_items", reflect.ValueOf(data).Len()),
		)
	}

	return &PaginatedResponse{
		Data:       data,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    hasNext,
	}
}

// getScanIDFromParam gets and validates the :id path parameter
func (h *Handler) getScanIDFromParam(c echo.Context) (int64, error) {
	scanID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || scanID < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid scan id")
	}
	return scanID, nil
}

// getPageFromQuery gets and validates page number from query parameters
func (h *Handler) getPageFromQuery(c echo.Context, total int) (int, error) {
	pageStr := c.QueryParam("page")
	if pageStr == "" {
		return 1, nil
	}

	page, err := strconv.Atoi(pageStr)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid page number")
	}

	if page < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Page number must be greater than 0")
	}

	totalPages := (total + perPage - 1) / perPage
	if page > 1 && page > totalPages {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Page number exceeds total pages. Total pages: "+strconv.Itoa(totalPages))
	}

	span := trace.SpanFromContext(c.Request().Context())
	span.SetAttributes(
		attribute.Int("page", page),
		attribute.Int("per_page", perPage),
		attribute.Int("total", total),
		attribute.Int("total_pages", totalPages),
	)

	return page, nil
}
