package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type rec struct {
	ID     string
	Cursor string
}

func cursorOf(r rec) string { return r.Cursor }

func makePages(counts []int, lastCursor string) [][]rec {
	pages := make([][]rec, len(counts))
	n := 0
	for i, count := range counts {
		for k := 0; k < count; k++ {
			n++
			pages[i] = append(pages[i], rec{ID: fmt.Sprintf("r%d", n), Cursor: fmt.Sprintf("c%d", n)})
		}
	}
	if len(pages) > 0 {
		last := pages[len(pages)-1]
		if len(last) > 0 {
			last[len(last)-1].Cursor = lastCursor
		}
	}
	return pages
}

func TestPaginate(t *testing.T) {
	cases := []struct {
		name       string
		pageSize   int
		pages      [][]rec
		wantCount  int
		wantnCalls int
	}{
		{
			name:       "short_final_page_terminates",
			pageSize:   3,
			pages:      makePages([]int{3, 3, 2}, "c8"),
			wantCount:  8,
			wantnCalls: 3,
		},
		{
			name:       "missing_cursor_terminates_on_full_page",
			pageSize:   3,
			pages:      makePages([]int{3, 3}, ""),
			wantCount:  6,
			wantnCalls: 2,
		},
		{
			name:       "single_short_page",
			pageSize:   10,
			pages:      makePages([]int{4}, "c4"),
			wantCount:  4,
			wantnCalls: 1,
		},
		{
			name:       "empty_collection",
			pageSize:   10,
			pages:      [][]rec{{}},
			wantCount:  0,
			wantnCalls: 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			fetch := func(ctx context.Context, after *string) ([]rec, error) {
				if calls >= len(tc.pages) {
					t.Fatalf("fetch called %d times, only %d pages available", calls+1, len(tc.pages))
				}
				if calls == 0 && after != nil {
					t.Fatalf("first fetch got cursor %q, want nil", *after)
				}
				if calls > 0 {
					prev := tc.pages[calls-1]
					want := prev[len(prev)-1].Cursor
					if after == nil || *after != want {
						t.Fatalf("fetch %d got cursor %v, want %q", calls, after, want)
					}
				}
				page := tc.pages[calls]
				calls++
				return page, nil
			}

			got, err := Paginate(context.Background(), tc.pageSize, cursorOf, fetch)
			if err != nil {
				t.Fatalf("Paginate returned error: %v", err)
			}
			if calls != tc.wantnCalls {
				t.Fatalf("fetch called %d times, want %d", calls, tc.wantnCalls)
			}
			if len(got) != tc.wantCount {
				t.Fatalf("got %d records, want %d", len(got), tc.wantCount)
			}
			for i, r := range got {
				want := fmt.Sprintf("r%d", i+1)
				if r.ID != want {
					t.Fatalf("record %d is %q, want %q (page order must be preserved)", i, r.ID, want)
				}
			}
		})
	}
}

func TestPaginateFailFast(t *testing.T) {
	boom := errors.New("upstream exploded")
	calls := 0
	fetch := func(ctx context.Context, after *string) ([]rec, error) {
		calls++
		if calls == 2 {
			return nil, boom
		}
		return makePages([]int{3}, "c3")[0], nil
	}

	got, err := Paginate(context.Background(), 3, cursorOf, fetch)
	if !errors.Is(err, boom) {
		t.Fatalf("Paginate error = %v, want %v", err, boom)
	}
	if got != nil {
		t.Fatalf("Paginate returned %d partial records, want none", len(got))
	}
}

func TestPaginateHonorsContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetch := func(ctx context.Context, after *string) ([]rec, error) {
		cancel()
		// Full page with a live cursor: without the ctx check this would spin.
		return makePages([]int{2}, "again")[0], nil
	}
	_, err := Paginate(ctx, 2, cursorOf, fetch)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Paginate error = %v, want context.Canceled", err)
	}
}
