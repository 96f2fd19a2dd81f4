package compositor

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
)

// Listen opens the Wayland listening socket at cfg.SocketPath(), removing
// any stale socket left by a previous run and creating the runtime
// directory if needed (grounded on
// helixml-helix/api/pkg/drm/manager.go's Run: MkdirAll the parent,
// os.Remove any stale socket, net.Listen, then Chmod for the expected
// access mode — 0700 here since, unlike the lease socket, a Wayland
// display socket must not be world-writable).
func Listen(cfg Config) (net.Listener, Config, error) {
	cfg, err := cfg.ResolveDisplayName()
	if err != nil {
		return nil, Config{}, err
	}
	path := cfg.SocketPath()
	if dir := filepath.Dir(path); dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, Config{}, fmt.Errorf("compositor: create runtime dir %s: %w", dir, err)
		}
	}
	os.Remove(path)

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, Config{}, fmt.Errorf("compositor: listen %s: %w", path, err)
	}
	if err := os.Chmod(path, 0700); err != nil {
		ln.Close()
		return nil, Config{}, fmt.Errorf("compositor: chmod %s: %w", path, err)
	}
	return ln, cfg, nil
}

// ConnHandler accepts one freshly-accepted client connection. The actual
// Wayland wire framing/dispatch lives in the external protocol-codec
// collaborator (internal/wlproto documents the contract); this package
// only owns accept-loop lifecycle.
type ConnHandler func(ctx context.Context, conn net.Conn)

// Serve runs the accept loop against ln until ctx is cancelled, handing
// each connection to handle in its own goroutine — the same
// accept-then-dispatch shape as manager.go's Run, generalized from one
// lease protocol to an arbitrary per-connection handler.
func Serve(ctx context.Context, ln net.Listener, logger *slog.Logger, handle ConnHandler) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				logger.Error("accept error", "err", err)
				continue
			}
		}
		go handle(ctx, conn)
	}
}
