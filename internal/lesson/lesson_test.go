package lesson

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vowels.txt")
	content := "# vowels first\na\n\ne\n a \ni\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write lesson: %v", err)
	}
	ids, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if strings.Join(ids, ",") != "a,e,i" {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestLoadEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("# nothing\n\n"), 0o644); err != nil {
		t.Fatalf("write lesson: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for empty lesson")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected error for missing lesson")
	}
}

func TestFilter(t *testing.T) {
	known := map[string]bool{"a": true, "c": true}
	kept, missing := Filter([]string{"a", "b", "c", "d"}, func(id string) bool { return known[id] })
	if strings.Join(kept, ",") != "a,c" || strings.Join(missing, ",") != "b,d" {
		t.Fatalf("unexpected filter result %v %v", kept, missing)
	}
}
