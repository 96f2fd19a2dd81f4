// waylex is a Wayland compositor: it owns every connected GPU's DRM
// master lock, imports client buffers into GPU textures, and schedules
// redraws reactively as surfaces commit.
package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/waylex/waylex/internal/compositor"
	"github.com/waylex/waylex/internal/drm"
)

func main() {
	cfg, err := compositor.LoadConfig()
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("load config", "err", err)
		os.Exit(1)
	}

	logger := compositor.NewLogger(cfg.LogFormat)

	gbmOpen, err := drm.NewGbmOpener()
	if err != nil {
		logger.Error("resolve gbm", "err", err)
		os.Exit(1)
	}

	comp := compositor.New(cfg, logger)
	if err := comp.Start(gbmOpen); err != nil {
		logger.Error("start compositor", "err", err)
		os.Exit(1)
	}
	defer comp.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("waylex listening", "display", comp.Config.DisplayName)

	if err := comp.Run(ctx, dispatchConn); err != nil && ctx.Err() == nil {
		logger.Error("compositor run error", "err", err)
		os.Exit(1)
	}

	logger.Info("waylex shutdown complete")
}

// dispatchConn holds a freshly-accepted connection open until shutdown and
// then closes it. No protocol dispatch happens here: framing and decoding
// belong to the external protocol-codec collaborator whose contract
// internal/wlproto documents.
func dispatchConn(ctx context.Context, conn net.Conn) {
	<-ctx.Done()
	conn.Close()
}
