package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	c := newTestCLI()
	dir, err := c.Config.CacheDir()
	if err != nil {
		t.Fatalf("CacheDir() error: %v", err)
	}

	want := filepath.Join("/tmp/xdg-cache", "conetree")
	if dir != want {
		t.Errorf("CacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirConfigOverride(t *testing.T) {
	c := newTestCLI()
	c.Config.Cache.Dir = "/var/cache/conetree"

	dir, err := c.Config.CacheDir()
	if err != nil {
		t.Fatalf("CacheDir() error: %v", err)
	}
	if dir != "/var/cache/conetree" {
		t.Errorf("CacheDir() = %q, want config override", dir)
	}
}

func TestCacheClearCommand(t *testing.T) {
	dir := t.TempDir()

	// Seed the cache with nested entries the way the file cache lays
	// them out.
	sub := filepath.Join(dir, "ab")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{filepath.Join(sub, "abc123"), filepath.Join(dir, "def456")} {
		if err := os.WriteFile(name, []byte("cached"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	c := newTestCLI()
	c.Config.Cache.Dir = dir

	cmd := c.cacheClearCommand()
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("cache clear error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read cache dir: %v", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			t.Errorf("cache clear left file %s behind", e.Name())
		}
	}
}

func TestCacheClearMissingDir(t *testing.T) {
	c := newTestCLI()
	c.Config.Cache.Dir = filepath.Join(t.TempDir(), "does-not-exist")

	cmd := c.cacheClearCommand()
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Errorf("cache clear on missing dir should succeed, got %v", err)
	}
}
