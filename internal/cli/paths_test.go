package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/autolayout/pkg/layout"
)

func TestCacheDir(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "")
		home, err := os.UserHomeDir()
		if err != nil {
			t.Skip("no home directory")
		}
		dir, err := cacheDir()
		if err != nil {
			t.Fatalf("cacheDir() error: %v", err)
		}
		if want := filepath.Join(home, ".cache", appName); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})
	t.Run("XDG", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")
		dir, err := cacheDir()
		if err != nil {
			t.Fatalf("cacheDir() error: %v", err)
		}
		if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})
}

func TestDerivedPath(t *testing.T) {
	tests := []struct {
		input string
		mode  layout.Mode
		want  string
	}{
		{"arch.json", layout.ModeLayout, "arch.laid.json"},
		{"arch.yaml", layout.ModePack, "arch.packed.yaml"},
		{"dir.v2/arch.yml", layout.ModeLayout, "dir.v2/arch.laid.yml"},
		{"dir.v2/arch", layout.ModeLayout, "dir.v2/arch.laid"},
	}
	for _, tt := range tests {
		if got := derivedPath(tt.input, tt.mode); got != tt.want {
			t.Errorf("derivedPath(%q, %s) = %q, want %q", tt.input, tt.mode, got, tt.want)
		}
	}
}
