package compositor

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveDisplayNamePicksFirstFreeSlot(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "wayland-1"), nil, 0600); err != nil {
		t.Fatalf("seed wayland-1: %v", err)
	}

	cfg, err := Config{RuntimeDir: dir}.ResolveDisplayName()
	if err != nil {
		t.Fatalf("ResolveDisplayName() error = %v", err)
	}
	if cfg.DisplayName != "wayland-2" {
		t.Fatalf("DisplayName = %q, want wayland-2", cfg.DisplayName)
	}
}

func TestResolveDisplayNameKeepsExplicitOverride(t *testing.T) {
	cfg, err := Config{RuntimeDir: t.TempDir(), DisplayName: "wayland-7"}.ResolveDisplayName()
	if err != nil {
		t.Fatalf("ResolveDisplayName() error = %v", err)
	}
	if cfg.DisplayName != "wayland-7" {
		t.Fatalf("DisplayName = %q, want wayland-7 (explicit override preserved)", cfg.DisplayName)
	}
}

func TestEnvironmentOmitsDisplayWhenXWaylandInactive(t *testing.T) {
	cfg := Config{DisplayName: "wayland-3"}
	env := cfg.Environment()
	for _, e := range env {
		if len(e) >= 8 && e[:8] == "DISPLAY=" {
			t.Fatalf("Environment() = %v, want no DISPLAY when X11DisplayNumber is 0", env)
		}
	}
}

func TestEnvironmentIncludesDisplayWhenXWaylandActive(t *testing.T) {
	cfg := Config{DisplayName: "wayland-3", X11DisplayNumber: 5}
	env := cfg.Environment()
	found := false
	for _, e := range env {
		if e == "DISPLAY=:5" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Environment() = %v, want DISPLAY=:5", env)
	}
}

func TestEnvironmentAppendsExtraOverrides(t *testing.T) {
	cfg := Config{DisplayName: "wayland-3", ExtraEnv: []string{"FOO=bar"}}
	env := cfg.Environment()
	found := false
	for _, e := range env {
		if e == "FOO=bar" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Environment() = %v, want FOO=bar passed through", env)
	}
}

func TestSocketPathJoinsRuntimeDirAndDisplayName(t *testing.T) {
	cfg := Config{RuntimeDir: "/run/user/1000", DisplayName: "wayland-0"}
	if got, want := cfg.SocketPath(), "/run/user/1000/wayland-0"; got != want {
		t.Fatalf("SocketPath() = %q, want %q", got, want)
	}
}
