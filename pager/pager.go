package pager

import (
	"context"
	"fmt"
)

// Page is one fetch result from a cursor-paginated endpoint. An empty
// Cursor means the server has no further pages.
type Page[T any] struct {
	Items  []T
	Cursor string
}

// FetchFunc retrieves a single page. The cursor is empty on the first
// call and comes from the previous page afterwards.
type FetchFunc[T any] func(ctx context.Context, limit int64, cursor string) (Page[T], error)

// Result is the outcome of a pagination walk.
type Result[T any] struct {
	Items []T
	// Page is the page actually reached; lower than the requested page
	// when the feed ran out of cursors first.
	Page    int
	HasNext bool
}

// WarnThreshold is the page number above which callers should warn the
// user that loading page N costs N sequential API calls.
const WarnThreshold = 5

// Walk fetches pages sequentially until it reaches the requested page,
// threading the server cursor through each call. Page numbers are a
// client-side convenience: the server only hands out opaque cursors, so
// reaching page N takes N-1 skip fetches plus one content fetch. If an
// intermediate fetch returns no cursor the feed is exhausted and that
// fetch's own items are returned with the clamped page number. Fetch
// errors propagate immediately; nothing is retried here.
func Walk[T any](ctx context.Context, fetch FetchFunc[T], limit int64, page int) (Result[T], error) {
	if page < 1 {
		return Result[T]{}, fmt.Errorf("page must be positive: %d", page)
	}

	cursor := ""
	for i := 1; i < page; i++ {
		p, err := fetch(ctx, limit, cursor)
		if err != nil {
			return Result[T]{}, err
		}
		if p.Cursor == "" {
			return Result[T]{Items: p.Items, Page: i, HasNext: false}, nil
		}
		cursor = p.Cursor
	}

	p, err := fetch(ctx, limit, cursor)
	if err != nil {
		return Result[T]{}, err
	}
	return Result[T]{Items: p.Items, Page: page, HasNext: p.Cursor != ""}, nil
}

// Reverse flips items in place so the newest entry lands at the bottom
// of terminal output (scroll up to read older entries).
func Reverse[T any](items []T) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}
