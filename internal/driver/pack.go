package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"synapse/internal/bind"
	"synapse/internal/diag"
	"synapse/internal/source"
	"synapse/internal/trace"
)

// Pack builds the manifests and writes all their bindings to out as one
// container. Nothing is written when a manifest has errors.
func Pack(ctx context.Context, manifests []string, out string, maxDiagnostics int) (*Result, error) {
	fs := source.NewFileSet()
	bag := diag.NewBag(maxDiagnostics)
	res := &Result{FileSet: fs, Bag: bag}

	lib, err := LoadLibrary(ctx, fs, manifests, newSink(bag, false), nil)
	res.Library = lib
	if err != nil {
		return res, err
	}
	bag.Sort()
	if bag.HasErrors() {
		return res, nil
	}

	sp := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "encode", trace.ParentSpan(ctx)).WithExtra("out", out)
	defer sp.End("")
	return res, writeAtomic(out, func(f *os.File) error {
		return bind.EncodeAll(f, lib.Bindings())
	})
}

func writeAtomic(path string, write func(*os.File) error) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), ".pack-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()
	if err = write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
