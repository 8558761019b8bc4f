package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// UpdateGoldenEnv names the environment variable that rewrites golden files
// instead of comparing against them.
const UpdateGoldenEnv = "GOLDEN_UPDATE"

// Golden compares rendered output with testdata/<name>.golden and reports the
// first line that differs.
func Golden(t *testing.T, name string, got []byte) {
	t.Helper()

	path := filepath.Join("testdata", name+".golden")
	if os.Getenv(UpdateGoldenEnv) != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("create testdata: %v", err)
		}
		if err := os.WriteFile(path, got, 0644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v (set %s=1 to create it)\ngot:\n%s", path, err, UpdateGoldenEnv, got)
	}
	if line, w, g, ok := firstDiff(string(want), string(got)); !ok {
		t.Errorf("%s: line %d differs\nwant: %q\ngot:  %q", path, line, w, g)
	}
}

// firstDiff returns the 1-based number of the first differing line, or
// ok=true when both texts are equal.
func firstDiff(want, got string) (line int, w, g string, ok bool) {
	if want == got {
		return 0, "", "", true
	}
	wl := strings.Split(want, "\n")
	gl := strings.Split(got, "\n")
	for i := 0; i < len(wl) || i < len(gl); i++ {
		if i < len(wl) {
			w = wl[i]
		} else {
			w = "<end of file>"
		}
		if i < len(gl) {
			g = gl[i]
		} else {
			g = "<end of output>"
		}
		if i >= len(wl) || i >= len(gl) || w != g {
			return i + 1, w, g, false
		}
	}
	return 0, "", "", true
}
