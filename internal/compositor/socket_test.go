package compositor

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestListenCreatesSocketAndResolvesDisplayName(t *testing.T) {
	dir := t.TempDir()
	ln, cfg, err := Listen(Config{RuntimeDir: dir})
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	defer ln.Close()

	if cfg.DisplayName != "wayland-1" {
		t.Fatalf("DisplayName = %q, want wayland-1", cfg.DisplayName)
	}
	if _, err := os.Stat(filepath.Join(dir, "wayland-1")); err != nil {
		t.Fatalf("socket file not created: %v", err)
	}
}

func TestListenRemovesStaleSocket(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "wayland-9")
	if err := os.WriteFile(stale, []byte("not a socket"), 0600); err != nil {
		t.Fatalf("seed stale file: %v", err)
	}

	ln, _, err := Listen(Config{RuntimeDir: dir, DisplayName: "wayland-9"})
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	ln.Close()
}

func TestServeDispatchesAcceptedConnections(t *testing.T) {
	dir := t.TempDir()
	ln, cfg, err := Listen(Config{RuntimeDir: dir, DisplayName: "wayland-test"})
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	handled := make(chan struct{}, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Serve(ctx, ln, NewLogger("text"), func(ctx context.Context, conn net.Conn) {
		conn.Close()
		handled <- struct{}{}
	})

	conn, err := net.Dial("unix", cfg.SocketPath())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	conn.Close()

	select {
	case <-handled:
	case <-time.After(2 * time.Second):
		t.Fatal("connection was never handled")
	}
}
