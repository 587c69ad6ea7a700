package fsys

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMapAncestors(t *testing.T) {
	m := NewMap("/work/app/Project.hcl")

	tests := []struct {
		path string
		want bool
	}{
		{"/work/app/Project.hcl", true},
		{"/work/app", true},
		{"/work", true},
		{"/", true},
		{"/work/app/", true},
		{"/work/lib", false},
		{"/work/app/Project.toml", false},
	}

	for _, tt := range tests {
		if got := m.Exists(tt.path); got != tt.want {
			t.Errorf("Exists(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestOSExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "marker")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	var fs FS = OS{}
	if !fs.Exists(dir) {
		t.Error("temp dir should exist")
	}
	if !fs.Exists(file) {
		t.Error("marker file should exist")
	}
	if fs.Exists(filepath.Join(dir, "missing")) {
		t.Error("missing entry should not exist")
	}
}
