package api

// ScanSummary is a stored scan as returned by the API
type ScanSummary struct {
	ScanID         int64  `json:"scan_id"`
	Directory      string `json:"directory"`
	CreatedAt      int64  `json:"created_at"`
	ElapsedMS      int64  `json:"elapsed_ms"`
	FileCount      int    `json:"file_count"`
	GroupCount     int    `json:"group_count"`
	DuplicateBytes int64  `json:"duplicate_bytes"`
	ErrorCount     int    `json:"error_count"`
}

// DuplicateFile is one file of a duplicate group
type DuplicateFile struct {
	Name   string `json:"name"`
	Size   uint64 `json:"size"`
	SizeKB uint64 `json:"size_kb"`
}

type DuplicateGroup struct {
	Index int             `json:"index"`
	Files []DuplicateFile `json:"files"`
}

// ComparisonError is a pair the scan could not compare
type ComparisonError struct {
	First   string `json:"first"`
	Second  string `json:"second"`
	Message string `json:"message"`
}

// PaginatedResponse represents a paginated response
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Page       int         `json:"page"`
	PerPage    int         `json:"per_page"`
	Total      int         `json:"total"`
	TotalPages int         `json:"total_pages"`
	HasNext    bool        `json:"has_next"`
}
