package pagination

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Params struct {
	Limit  int
	Offset int
}

// FromContext reads limit and offset from the query string. Missing or
// malformed values fall back to the defaults and limit is capped at
// MaxLimit.
func FromContext(c echo.Context) Params {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}

	return Params{Limit: limit, Offset: offset}
}

// Response wraps a paginated API response. NextOffset is set only when
// another page exists.
type Response struct {
	Data       interface{} `json:"data"`
	Total      int         `json:"total"`
	Limit      int         `json:"limit"`
	Offset     int         `json:"offset"`
	HasMore    bool        `json:"hasMore"`
	NextOffset *int        `json:"nextOffset,omitempty"`
}

func NewResponse(data interface{}, total int, p Params) *Response {
	resp := &Response{
		Data:   data,
		Total:  total,
		Limit:  p.Limit,
		Offset: p.Offset,
	}
	if p.HasNext(total) {
		next := p.NextOffset()
		resp.HasMore = true
		resp.NextOffset = &next
	}
	return resp
}

// Page cuts the window described by p out of an in-memory result.
func Page[T any](all []T, p Params) []T {
	if p.Offset >= len(all) {
		return []T{}
	}
	end := p.Offset + p.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[p.Offset:end]
}

func (p Params) HasNext(total int) bool {
	return p.Offset+p.Limit < total
}

func (p Params) NextOffset() int {
	return p.Offset + p.Limit
}
