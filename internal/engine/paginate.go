package engine

import (
	"context"
)

// PageFunc fetches one page of records starting after the given cursor.
// A nil cursor requests the first page.
type PageFunc[T any] func(ctx context.Context, after *string) ([]T, error)

// Paginate exhausts a cursor-paginated collection. It calls fetch starting
// with a nil cursor and accumulates every returned record, in page-arrival
// order, until either a page comes back shorter than pageSize or the last
// record of a page carries an empty cursor.
//
// There is no upper bound on page count: a source that keeps returning full
// pages with a repeating cursor will loop forever, so bounding a misbehaving
// source is the caller's job (typically via ctx deadline).
//
// Any fetch error aborts the whole run; partial pages are discarded.
func Paginate[T any](ctx context.Context, pageSize int, cursorOf func(T) string, fetch PageFunc[T]) ([]T, error) {
	var all []T
	var after *string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := fetch(ctx, after)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		all = append(all, page...)
		if len(page) < pageSize {
			break
		}
		cursor := cursorOf(page[len(page)-1])
		if cursor == "" {
			break
		}
		after = &cursor
	}
	return all, nil
}
