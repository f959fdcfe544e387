package pagination

import (
	"fmt"
	"math"

	"github.com/SscSPs/ledger_transfer_engine/internal/apperrors"
)

const (
	// DefaultPageSize is used when a caller asks for a page without a size.
	DefaultPageSize = 20
	// MaxPageSize caps the page size a caller may request.
	MaxPageSize = 100
)

// PageRequest addresses one zero-based page of a result set.
type PageRequest struct {
	Page     int
	PageSize int
}

// NewPageRequest validates page and pageSize. A zero pageSize becomes DefaultPageSize
// and anything above MaxPageSize is clamped. A page whose offset would overflow int is rejected.
func NewPageRequest(page int, pageSize int) (PageRequest, error) {
	if page < 0 {
		return PageRequest{}, fmt.Errorf("%w: page must not be negative (got %d)", apperrors.ErrValidation, page)
	}
	if pageSize < 0 {
		return PageRequest{}, fmt.Errorf("%w: pageSize must not be negative (got %d)", apperrors.ErrValidation, pageSize)
	}
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if page > math.MaxInt/pageSize {
		return PageRequest{}, fmt.Errorf("%w: page %d is out of range", apperrors.ErrValidation, page)
	}
	return PageRequest{Page: page, PageSize: pageSize}, nil
}

// Offset is the number of rows preceding the page.
func (p PageRequest) Offset() int {
	return p.Page * p.PageSize
}

// Limit is the maximum number of rows in the page.
func (p PageRequest) Limit() int {
	return p.PageSize
}
