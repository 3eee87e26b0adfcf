package pagination

import (
	"context"
	"strconv"

	"growup-backend/database"
	"growup-backend/models"
)

// Request is the window a caller asked for. ExportAll returns every match in
// one page and must be requested explicitly.
type Request struct {
	Page      int
	Limit     int
	ExportAll bool
}

// FromQuery parses raw query values, falling back to page 1 and defaultLimit
// for anything missing or not a positive integer.
func FromQuery(page, limit, exportAll string, defaultLimit int) Request {
	req := Request{}
	req.Page, _ = strconv.Atoi(page)
	req.Limit, _ = strconv.Atoi(limit)
	req.ExportAll, _ = strconv.ParseBool(exportAll)
	return req.Normalize(defaultLimit)
}

func (r Request) Normalize(defaultLimit int) Request {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 {
		r.Limit = defaultLimit
	}
	if r.Limit < 1 {
		r.Limit = 1
	}
	return r
}

func (r Request) Skip() int64 {
	return int64(r.Page-1) * int64(r.Limit)
}

type Page[T any] struct {
	Records      []T
	TotalPages   int64
	CurrentPage  int
	TotalRecords int64
}

// Envelope renders the page with the resource specific key names the API
// uses, e.g. clients/totalClients.
func (p Page[T]) Envelope(recordsKey, totalKey string) map[string]interface{} {
	return map[string]interface{}{
		recordsKey:    p.Records,
		"totalPages":  p.TotalPages,
		"currentPage": p.CurrentPage,
		totalKey:      p.TotalRecords,
	}
}

// Source is the read side of a collection.
type Source[T any] interface {
	Count(ctx context.Context, filter database.Filter) (int64, error)
	Find(ctx context.Context, filter database.Filter, opts database.FindOptions) ([]T, error)
}

// List counts and fetches with the same filter so that totals describe the
// records being paged over.
func List[T any](ctx context.Context, src Source[T], filter database.Filter, req Request, sort ...database.SortField) (Page[T], error) {
	if filter == nil {
		filter = database.All()
	}

	total, err := src.Count(ctx, filter)
	if err != nil {
		return Page[T]{}, models.NewInternalError("read failure", err)
	}

	opts := database.FindOptions{Sort: sort}
	if !req.ExportAll {
		opts.Skip = req.Skip()
		opts.Limit = int64(req.Limit)
	}
	records, err := src.Find(ctx, filter, opts)
	if err != nil {
		return Page[T]{}, models.NewInternalError("read failure", err)
	}
	if records == nil {
		records = []T{}
	}

	page := Page[T]{
		Records:      records,
		CurrentPage:  req.Page,
		TotalRecords: total,
	}
	if req.ExportAll {
		page.TotalPages = 1
		page.CurrentPage = 1
	} else {
		page.TotalPages = (total + int64(req.Limit) - 1) / int64(req.Limit)
	}
	return page, nil
}

// Map converts the records of a page, keeping the metadata.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := Page[U]{
		Records:      make([]U, len(p.Records)),
		TotalPages:   p.TotalPages,
		CurrentPage:  p.CurrentPage,
		TotalRecords: p.TotalRecords,
	}
	for i, r := range p.Records {
		out.Records[i] = fn(r)
	}
	return out
}
