package params

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	defaultPageNumber = 1
	defaultPageSize   = 20
	maxPageSize       = 100
)

// QueryParams carries common list query parameters
type QueryParams struct {
	PageNumber int
	PageSize   int
	Search     string
}

// NewQueryParams extracts pagination parameters from the request
func NewQueryParams(c echo.Context) QueryParams {
	p := QueryParams{
		PageNumber: defaultPageNumber,
		PageSize:   defaultPageSize,
		Search:     c.QueryParam("search"),
	}

	if n, err := strconv.Atoi(c.QueryParam("page")); err == nil && n > 0 {
		p.PageNumber = n
	}
	if n, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && n > 0 {
		p.PageSize = n
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}

	return p
}

// Offset returns the SQL offset for the current page
func (p QueryParams) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}
