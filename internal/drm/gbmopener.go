package drm

import "github.com/waylex/waylex/internal/drm/gbm"

// resolvedGbmOpener is the production GbmOpener: it resolves libgbm's
// symbol table once and opens one gbm.Device per DRM file descriptor,
// satisfying BringupDevice's GbmOpener dependency.
type resolvedGbmOpener struct {
	funcs gbm.Funcs
}

// NewGbmOpener resolves libgbm via goffi once; the returned GbmOpener is
// safe to reuse across every GPU device the process brings up.
func NewGbmOpener() (GbmOpener, error) {
	funcs, err := gbm.New()
	if err != nil {
		return nil, err
	}
	return &resolvedGbmOpener{funcs: funcs}, nil
}

func (o *resolvedGbmOpener) Open(fd int) (gbm.Device, error) {
	return o.funcs.CreateDevice(fd)
}

func (o *resolvedGbmOpener) Funcs() gbm.Funcs {
	return o.funcs
}
