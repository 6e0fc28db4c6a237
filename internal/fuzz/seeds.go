package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

// builtinSeeds cover every step form and statement shape.
var builtinSeeds = []string{
	"",
	"#asset.x\n",
	"#asset.x[1] = \"a\"\n",
	"#asset.x[1] += 2\n",
	"#asset.color.shade\n",
	"#asset.{big red}\n",
	"#asset->bob\n",
	"#asset.x:describe(1, \"a\", $v, #asset.y)\n",
	"#asset.$v[2.5]\n",
	"~net[1][2] = $v // comment\n",
	"#asset.x[\n#asset.y\n",
	"#asset.x = ]\n",
	"#\"unterminated\n",
	"#asset.x[#asset.y[#asset.z[1]]]\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.syn файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".syn" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clamp(src, maxSeedBytes))
		return nil
	})
}

func clamp(src []byte, n int) []byte {
	if len(src) <= n {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:n]...)
}
