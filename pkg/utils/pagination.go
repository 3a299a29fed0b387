package utils

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const DefaultPageSize = 20

// CursorParams represents keyset pagination parameters.
type CursorParams struct {
	Cursor   string
	PageSize int
}

// GetCursorParams extracts `cursor` and `limit` from the query string,
// clamping the page size to [1, maxPageSize].
func GetCursorParams(c echo.Context, maxPageSize int) CursorParams {
	pageSize, _ := strconv.Atoi(c.QueryParam("limit"))
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if maxPageSize > 0 && pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return CursorParams{
		Cursor:   c.QueryParam("cursor"),
		PageSize: pageSize,
	}
}

// GetLimit reads `limit` with a default and an upper bound.
func GetLimit(c echo.Context, def, max int) int {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
