package diagfmt

import (
	"path/filepath"
	"strings"

	"synapse/internal/source"
)

func displayPath(fs *source.FileSet, sp source.Span, mode PathMode, base string) string {
	f := fs.Get(sp.File)
	if f == nil {
		return "<unknown>"
	}
	switch mode {
	case PathModeBasename:
		return filepath.Base(f.Path)
	case PathModeAbsolute:
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
		return f.Path
	case PathModeRelative, PathModeAuto:
		if base == "" {
			return f.Path
		}
		rel, err := filepath.Rel(base, f.Path)
		if err != nil {
			return f.Path
		}
		rel = filepath.ToSlash(rel)
		if mode == PathModeAuto && strings.HasPrefix(rel, "../") {
			return f.Path
		}
		return rel
	}
	return f.Path
}
