package scan

import (
	"os"
	"path/filepath"
	"testing"
)

func write(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("<Chart/>"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "2023", "charts", "kee20231014tch.xml"))
	write(t, filepath.Join(root, "2023", "charts", "b.XML"))
	write(t, filepath.Join(root, "2023", "pp", "SIMD20231014KEE.xml"))
	write(t, filepath.Join(root, "2023", "charts", "notes.txt"))

	got, err := Find(root, "chart")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("files = %v", got)
	}
	// Sorted: b.XML before kee...
	if filepath.Base(got[0]) != "b.XML" || filepath.Base(got[1]) != "kee20231014tch.xml" {
		t.Fatalf("order: %v", got)
	}

	pp, err := Find(root, "pp")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(pp) != 1 {
		t.Fatalf("pp files = %v", pp)
	}
}

func TestFindMissingRoot(t *testing.T) {
	if _, err := Find(filepath.Join(t.TempDir(), "nope"), "chart"); err == nil {
		t.Fatalf("want error for missing root")
	}
}

func TestDedup(t *testing.T) {
	d := NewDedup()
	if d.Seen([]byte("a")) {
		t.Fatalf("first sighting reported as seen")
	}
	if !d.Seen([]byte("a")) {
		t.Fatalf("second sighting not reported")
	}
	if d.Seen([]byte("b")) {
		t.Fatalf("different content reported as seen")
	}
}
