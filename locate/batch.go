package locate

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// cancelCheckInterval is how many queries a worker answers between context checks.
const cancelCheckInterval = 256

// LocateBatch locates every point concurrently. Each worker owns a Cursor
// and handles a contiguous chunk, so coherent inputs keep their locality.
// Points that are not found yield NotFound. workers <= 0 uses GOMAXPROCS.
func (ix *Index) LocateBatch(ctx context.Context, points [][]float64, workers int) ([]Location, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([]Location, len(points))
	if len(points) == 0 {
		return out, nil
	}

	workers = min(workers, len(points))
	chunk := (len(points) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for lo := 0; lo < len(points); lo += chunk {
		hi := min(lo+chunk, len(points))

		g.Go(func() error {
			cur := ix.NewCursor()
			for i := lo; i < hi; i++ {
				if (i-lo)%cancelCheckInterval == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				out[i], _ = cur.Locate(points[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
