package rootdir

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/stackgen/pkg/fsys"
)

func TestLocate(t *testing.T) {
	tests := []struct {
		name   string
		paths  []string
		from   string
		want   string
		wantOK bool
	}{
		{
			name:   "git marker in start dir",
			paths:  []string{"/work/.git"},
			from:   "/work",
			want:   "/work",
			wantOK: true,
		},
		{
			name:   "config marker in ancestor",
			paths:  []string{"/work/Stackgen/Config.toml", "/work/apps/ios/Project.hcl"},
			from:   "/work/apps/ios",
			want:   "/work",
			wantOK: true,
		},
		{
			name:   "closest marker wins",
			paths:  []string{"/work/.git", "/work/vendor/lib/.git", "/work/vendor/lib/src/a"},
			from:   "/work/vendor/lib/src/a",
			want:   "/work/vendor/lib",
			wantOK: true,
		},
		{
			name:   "no marker",
			paths:  []string{"/work/apps/ios/Project.hcl"},
			from:   "/work/apps/ios",
			wantOK: false,
		},
		{
			name:   "similar names are not markers",
			paths:  []string{"/work/.gitignore", "/work/stackgen", "/work/app"},
			from:   "/work/app",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := New(fsys.NewMap(tt.paths...)).Locate(tt.from)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Locate(%q) = (%q, %v), want (%q, %v)", tt.from, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLocateIndependentOfDepth(t *testing.T) {
	fs := fsys.NewMap("/r/.git")
	loc := New(fs)

	dir := "/r"
	for k := 0; k < 8; k++ {
		got, ok := loc.Locate(dir)
		if !ok || got != "/r" {
			t.Fatalf("depth %d: Locate(%q) = (%q, %v), want (\"/r\", true)", k, dir, got, ok)
		}
		dir = filepath.Join(dir, fmt.Sprintf("d%d", k))
		fs.Add(dir)
	}
}

func TestLocateOnDisk(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(root, ConfigDirectoryName), 0o755); err != nil {
		t.Fatal(err)
	}

	got, ok := New(nil).Locate(nested)
	if !ok || got != root {
		t.Errorf("Locate() = (%q, %v), want (%q, true)", got, ok, root)
	}
}

func TestCachedLocator(t *testing.T) {
	var mu sync.Mutex
	calls := map[string]int{}
	inner := Func(func(from string) (string, bool) {
		mu.Lock()
		calls[from]++
		mu.Unlock()
		if strings.HasPrefix(from, "/work") {
			return "/work", true
		}
		return "", false
	})

	c := NewCached(inner)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Locate("/work/app")
		}()
	}
	wg.Wait()

	if root, ok := c.Locate("/work/app/"); !ok || root != "/work" {
		t.Errorf("Locate() = (%q, %v), want (\"/work\", true)", root, ok)
	}
	if _, ok := c.Locate("/elsewhere"); ok {
		t.Error("Locate(/elsewhere) should miss")
	}
	c.Locate("/elsewhere")

	mu.Lock()
	defer mu.Unlock()
	// Concurrent first lookups may race to fill the memo; afterwards it must hold.
	if calls["/work/app"] == 0 || calls["/work/app"] > 20 {
		t.Errorf("inner calls for /work/app = %d", calls["/work/app"])
	}
	if calls["/elsewhere"] != 1 {
		t.Errorf("negative result should be cached, inner calls = %d", calls["/elsewhere"])
	}
}
