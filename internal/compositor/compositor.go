package compositor

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/waylex/waylex/internal/drm"
	"github.com/waylex/waylex/internal/ecs"
	"github.com/waylex/waylex/internal/gpudevice"
)

// Compositor is the single process-wide value spec.md §9 calls for: the
// DRM master lock and the XWayland display number are process-wide state,
// so every subsystem that needs them is handed this value by reference
// rather than reaching for a package global.
type Compositor struct {
	Config Config
	Logger *slog.Logger

	Devices   []*gpudevice.DrmDevice
	Outputs   []*drm.StartupResult
	Scheduler *ecs.Registry

	listener net.Listener
}

// New assembles a Compositor from a resolved configuration and logger
// without touching any hardware; Start performs the actual device/socket
// bring-up so construction itself can never fail on I/O.
func New(cfg Config, logger *slog.Logger) *Compositor {
	return &Compositor{
		Config:    cfg,
		Logger:    logger,
		Scheduler: ecs.NewRegistry(),
	}
}

// Start opens every GPU device for cfg.Seat, brings each one's connected
// outputs up via drm.BringupDevice, and opens the Wayland listening
// socket, in that order — devices and outputs must exist before clients
// can be handed surfaces to attach buffers to.
func (c *Compositor) Start(gbmOpen drm.GbmOpener) error {
	paths, err := gpudevice.Enumerate(c.Config.Seat)
	if err != nil {
		return fmt.Errorf("compositor: enumerate gpu devices: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("compositor: no gpu devices found for seat %q", c.Config.Seat)
	}

	for _, path := range paths {
		dev, err := gpudevice.Open(path)
		if err != nil {
			c.Logger.Warn("skipping gpu device", "path", path, "err", err)
			continue
		}
		result, err := drm.BringupDevice(dev, gbmOpen, c.Logger)
		if err != nil {
			c.Logger.Warn("skipping gpu device bringup", "path", path, "err", err)
			dev.File.Close()
			continue
		}
		c.Devices = append(c.Devices, dev)
		c.Outputs = append(c.Outputs, result)
	}
	if len(c.Devices) == 0 {
		return fmt.Errorf("compositor: no gpu device could be brought up")
	}

	ln, resolved, err := Listen(c.Config)
	if err != nil {
		return fmt.Errorf("compositor: listen: %w", err)
	}
	c.Config = resolved
	c.listener = ln

	if err := c.Scheduler.Build(); err != nil {
		ln.Close()
		return fmt.Errorf("compositor: build scheduler graph: %w", err)
	}

	c.Logger.Info("compositor started",
		"display", c.Config.DisplayName, "devices", len(c.Devices))
	return nil
}

// Run serves client connections until ctx is cancelled. handle performs
// the actual Wayland wire dispatch for one connection (external
// collaborator per internal/wlproto's contract).
func (c *Compositor) Run(ctx context.Context, handle ConnHandler) error {
	return Serve(ctx, c.listener, c.Logger, handle)
}

// Close tears down every brought-up output and closes every opened
// device, releasing the DRM master lock each holds.
func (c *Compositor) Close() error {
	if c.listener != nil {
		c.listener.Close()
	}
	for _, result := range c.Outputs {
		for _, out := range result.Outputs {
			out.Surface.Destroy()
		}
	}
	for _, dev := range c.Devices {
		dev.File.Close()
	}
	return nil
}
