package driver

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"synapse/internal/bind"
)

// Inspection is one decoded container.
type Inspection struct {
	Path     string
	Bindings []*bind.Binding
	Err      error
}

// Inspect decodes the containers concurrently. A damaged file is
// reported in its Inspection and does not stop the others; only
// cancellation of ctx is returned as an error.
func Inspect(ctx context.Context, paths []string, jobs int) ([]Inspection, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]Inspection, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(paths))))
	for i, p := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = inspectFile(p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func inspectFile(path string) Inspection {
	res := Inspection{Path: path}
	f, err := os.Open(path)
	if err != nil {
		res.Err = err
		return res
	}
	defer f.Close()
	res.Bindings, res.Err = bind.DecodeAll(f)
	if res.Err != nil {
		res.Err = fmt.Errorf("%s: %w", path, res.Err)
	}
	return res
}
