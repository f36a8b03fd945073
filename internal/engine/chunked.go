package engine

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Chunks splits keys into contiguous chunks of at most size elements.
func Chunks[K any](keys []K, size int) [][]K {
	if size <= 0 || len(keys) == 0 {
		return nil
	}
	out := make([][]K, 0, (len(keys)+size-1)/size)
	for start := 0; start < len(keys); start += size {
		end := start + size
		if end > len(keys) {
			end = len(keys)
		}
		out = append(out, keys[start:end])
	}
	return out
}

// FetchChunked fans a large key set out into per-chunk fetches with at most
// limit chunks in flight, then concatenates the results in chunk order so the
// output is deterministic for a given input. Consumers must not rely on any
// ordering beyond that; joins downstream key on record ids.
//
// The first chunk error cancels the remaining fetches and fails the whole
// call. There is no partial-success mode.
func FetchChunked[K, T any](ctx context.Context, keys []K, chunkSize, limit int, fetch func(ctx context.Context, chunk []K) ([]T, error)) ([]T, error) {
	chunks := Chunks(keys, chunkSize)
	if len(chunks) == 0 {
		return nil, nil
	}
	if limit < 1 {
		limit = 1
	}

	results := make([][]T, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records, err := fetch(gctx, chunk)
			if err != nil {
				return err
			}
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []T
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged, nil
}
