package report

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// MergeFiles reads every report in paths concurrently and concatenates them
// in argument order. Unlike Load, an unreadable input is an error.
func MergeFiles(ctx context.Context, paths []string) (*Report, error) {
	parts := make([]*Report, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := Read(p)
			if err != nil {
				return fmt.Errorf("merge %s: %w", p, err)
			}
			parts[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := New()
	for _, r := range parts {
		out.Extend(r)
	}
	return out, nil
}
