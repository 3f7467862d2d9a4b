// Package pagination is the page contract shared by every list endpoint:
// validated (pageIndex, pageSize) in, {pageCount, results} out.
package pagination

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	dErrors "fairgate/pkg/domain-errors"
)

const (
	MinPageSize = 5
	MaxPageSize = 50

	// DefaultPageSize applies when a query string omits pageSize.
	DefaultPageSize = 20

	ReasonInvalidParameter = "invalid-parameter"
)

// RawParams is caller input before bounds checking.
type RawParams struct {
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
}

// Params are validated paging inputs. Only Validate produces them.
type Params struct {
	pageIndex int
	pageSize  int
}

// Validate enforces 0 <= pageIndex and MinPageSize <= pageSize <= MaxPageSize.
// Out-of-range values are rejected, never clamped.
func Validate(raw RawParams) (Params, error) {
	if raw.PageIndex < 0 {
		return Params{}, invalid("pageIndex must be zero or greater")
	}
	if raw.PageSize < MinPageSize || raw.PageSize > MaxPageSize {
		return Params{}, invalid(fmt.Sprintf("pageSize must be between %d and %d", MinPageSize, MaxPageSize))
	}
	return Params{pageIndex: raw.PageIndex, pageSize: raw.PageSize}, nil
}

// FromQuery reads pageIndex and pageSize from a query string and validates
// them. Missing values take index 0 and DefaultPageSize.
func FromQuery(q url.Values) (Params, error) {
	return FromQueryWithDefault(q, DefaultPageSize)
}

// FromQueryWithDefault is FromQuery with a caller-chosen size for requests
// that omit pageSize. The default is validated like any other size.
func FromQueryWithDefault(q url.Values, defaultSize int) (Params, error) {
	raw := RawParams{PageIndex: 0, PageSize: defaultSize}
	if v := q.Get("pageIndex"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Params{}, invalid("pageIndex must be an integer")
		}
		raw.PageIndex = n
	}
	if v := q.Get("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Params{}, invalid("pageSize must be an integer")
		}
		raw.PageSize = n
	}
	return Validate(raw)
}

func invalid(msg string) error {
	return dErrors.BadRequest(ReasonInvalidParameter, msg)
}

func (p Params) PageIndex() int { return p.pageIndex }
func (p Params) PageSize() int  { return p.pageSize }

// Skip is the number of rows before the requested page. It can overflow for
// huge page indexes, so callers check PastEnd first.
func (p Params) Skip() int { return p.pageIndex * p.pageSize }

// PastEnd reports whether the page starts at or after row total. It compares
// page numbers, so any pageIndex is safe.
func (p Params) PastEnd(total int) bool {
	return total <= 0 || p.pageIndex >= PageCount(total, p.pageSize)
}

// Take is the window size of the fetch.
func (p Params) Take() int { return p.pageSize }

// Data is one page of results.
type Data[T any] struct {
	PageCount int `json:"pageCount"`
	Results   []T `json:"results"`
}

// PageCount returns ceil(total / size). A non-positive size yields 0.
func PageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	n := total / size
	if total%size != 0 {
		n++
	}
	return n
}

// NewData assembles a page, replacing nil results with an empty slice so
// the wire shape never carries null.
func NewData[T any](total int, p Params, results []T) Data[T] {
	if results == nil {
		results = []T{}
	}
	return Data[T]{PageCount: PageCount(total, p.pageSize), Results: results}
}

// Counter returns the current total row count.
type Counter func(ctx context.Context) (int, error)

// Fetcher returns up to take rows after skipping skip rows, in a stable order.
type Fetcher[T any] func(ctx context.Context, skip, take int) ([]T, error)

// Query counts, then fetches the requested window. A page past the end is
// not an error: it yields empty results with the real page count.
func Query[T any](ctx context.Context, p Params, count Counter, fetch Fetcher[T]) (Data[T], error) {
	total, err := count(ctx)
	if err != nil {
		return Data[T]{}, fmt.Errorf("count: %w", err)
	}
	if p.PastEnd(total) {
		return NewData[T](total, p, nil), nil
	}
	results, err := fetch(ctx, p.Skip(), p.Take())
	if err != nil {
		return Data[T]{}, fmt.Errorf("fetch page: %w", err)
	}
	return NewData(total, p, results), nil
}

// Slice pages an in-memory, already ordered collection.
func Slice[T any](items []T, p Params) Data[T] {
	total := len(items)
	if p.PastEnd(total) {
		return NewData[T](total, p, nil)
	}
	skip := p.Skip()
	end := min(skip+p.Take(), total)
	return NewData(total, p, items[skip:end])
}
