package prof

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSession_WritesRequestedFiles(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		CPU:   filepath.Join(dir, "cpu.pprof"),
		Mem:   filepath.Join(dir, "mem.pprof"),
		Trace: filepath.Join(dir, "run.trace"),
	}
	s, err := Start(opts)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{opts.CPU, opts.Mem, opts.Trace} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s: %v", filepath.Base(p), err)
		}
	}
}

func TestOptions_Enabled(t *testing.T) {
	if (Options{}).Enabled() {
		t.Error("empty options enabled")
	}
	if !(Options{Mem: "m"}).Enabled() {
		t.Error("mem-only options disabled")
	}
}
