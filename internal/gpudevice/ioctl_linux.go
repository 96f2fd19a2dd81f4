//go:build linux

package gpudevice

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// unixCloexec is folded into the Open() OpenFile flags.
const unixCloexec = unix.O_CLOEXEC

// DRM ioctl numbers, encoded the same way the rest of this corpus's DRM
// code encodes them: _IO/_IOW/_IOWR by hand, no cgo libdrm header.
const (
	ioctlVersion          = 0xc0406400 // DRM_IOCTL_VERSION = _IOWR('d', 0x00, struct drm_version)
	ioctlSetMaster        = 0x641e     // DRM_IOCTL_SET_MASTER = _IO('d', 0x1e)
	ioctlDropMaster       = 0x641f     // DRM_IOCTL_DROP_MASTER = _IO('d', 0x1f)
	ioctlSetClientCap     = 0x4010640d // DRM_IOCTL_SET_CLIENT_CAP = _IOW('d', 0x0d, struct drm_set_client_cap)
	ioctlModeGetResources = 0xc04064a0 // DRM_IOCTL_MODE_GETRESOURCES
	ioctlModeGetConnector = 0xc05064a7 // DRM_IOCTL_MODE_GETCONNECTOR
	ioctlModeGetPlaneRes  = 0xc00864b5 // DRM_IOCTL_MODE_GETPLANERESOURCES
	ioctlModeGetPlane     = 0xc05464b6 // DRM_IOCTL_MODE_GETPLANE
	ioctlModeGetCrtc      = 0xc06864a1 // DRM_IOCTL_MODE_GETCRTC
	ioctlModeSetCrtc      = 0xc06864a2 // DRM_IOCTL_MODE_SETCRTC
	ioctlModeAtomic       = 0xc02864bc // DRM_IOCTL_MODE_ATOMIC
	ioctlModeObjGetProps  = 0xc01064b9 // DRM_IOCTL_MODE_OBJ_GETPROPERTIES
	ioctlModeObjSetProp   = 0xc01864ba // DRM_IOCTL_MODE_OBJ_SETPROPERTY
	ioctlModeGetProperty  = 0xc04064aa // DRM_IOCTL_MODE_GETPROPERTY
	ioctlModeGetPropBlob  = 0xc01064ac // DRM_IOCTL_MODE_GETPROPBLOB
	ioctlModeGetEncoder   = 0xc01464a6 // DRM_IOCTL_MODE_GETENCODER
	ioctlModePageFlip     = 0xc01864b0 // DRM_IOCTL_MODE_PAGE_FLIP
	ioctlModeAddFB        = 0xc01c64ae // DRM_IOCTL_MODE_ADDFB
	ioctlModeRmFB         = 0xc00464af // DRM_IOCTL_MODE_RMFB
	ioctlModeCreatePropBlob  = 0xc01064bd // DRM_IOCTL_MODE_CREATEPROPBLOB
	ioctlModeDestroyPropBlob = 0xc00464be // DRM_IOCTL_MODE_DESTROYPROPBLOB
	ioctlModeAddFB2          = 0xc06464b8 // DRM_IOCTL_MODE_ADDFB2
	ioctlModeCursor          = 0xc01c64a3 // DRM_IOCTL_MODE_CURSOR
)

const maxFBPlanes = 4

const objTypePlane = 0xeeeeeeee // DRM_MODE_OBJECT_PLANE

const propNameLen = 32

const (
	clientCapUniversalPlanes = 2
	clientCapAtomic          = 3
)

type drmVersion struct {
	Major, Minor, Patchlevel int32
	NameLen                  uint64
	Name                     uint64
	DateLen                  uint64
	Date                     uint64
	DescLen                  uint64
	Desc                     uint64
}

type drmSetClientCap struct {
	Capability uint64
	Value      uint64
}

type drmModeCardRes struct {
	FbIDPtr, CrtcIDPtr, ConnectorIDPtr, EncoderIDPtr   uint64
	CountFbs, CountCrtcs, CountConnectors, CountEncoders uint32
	MinWidth, MaxWidth, MinHeight, MaxHeight            uint32
}

type drmModeGetConnector struct {
	EncodersPtr, ModesPtr, PropsPtr, PropValuesPtr                  uint64
	CountModes, CountProps, CountEncoders                           uint32
	EncoderID, ConnectorID, ConnectorType, ConnectorTypeID          uint32
	Connection, MmWidth, MmHeight, Subpixel, Pad                    uint32
}

type drmModeGetPlaneRes struct {
	PlaneIDPtr uint64
	CountPlanes uint32
}

type drmModeGetPlane struct {
	PlaneID          uint32
	CrtcID           uint32
	FbID             uint32
	CrtcXOff, CrtcYOff int32
	XOff, YOff       uint32
	XScale, YScale   uint32
	PossibleCrtcs    uint32
	GammaSize        uint32
	CountFormatTypes uint32
	FormatTypePtr    uint64
}

type drmModeObjGetProperties struct {
	PropsPtr, PropValuesPtr uint64
	CountProps              uint32
	ObjID                   uint32
	ObjType                 uint32
}

type drmModeGetProperty struct {
	ValuesPtr      uint64
	EnumBlobPtr    uint64
	PropID         uint32
	Flags          uint32
	Name           [propNameLen]byte
	CountValues    uint32
	CountEnumBlobs uint32
}

type drmModeGetBlob struct {
	BlobID  uint32
	Length  uint32
	DataPtr uint64
}

type drmModeGetEncoder struct {
	EncoderID      uint32
	EncoderType    uint32
	CrtcID         uint32
	PossibleCrtcs  uint32
	PossibleClones uint32
}

// drmModeCrtcPageFlip mirrors struct drm_mode_crtc_page_flip: requests an
// asynchronous framebuffer swap on the next vblank, with completion
// reported through a drm_event read back from the device fd.
type drmModeCrtcPageFlip struct {
	CrtcID   uint32
	FbID     uint32
	Flags    uint32
	Reserved uint32
	UserData uint64
}

// drmModeFBCmd mirrors struct drm_mode_fb_cmd: registers a GEM buffer
// object as a scanout-capable framebuffer.
type drmModeFBCmd struct {
	FbID   uint32
	Width  uint32
	Height uint32
	Pitch  uint32
	BPP    uint32
	Depth  uint32
	Handle uint32
}

// drmModeFBCmd2 mirrors struct drm_mode_fb_cmd2: the modifier-aware
// framebuffer add path, carrying up to 4 planes plus an explicit
// modifier when DRM_MODE_FB_MODIFIERS is set in Flags.
type drmModeFBCmd2 struct {
	FbID        uint32
	Width       uint32
	Height      uint32
	PixelFormat uint32
	Flags       uint32
	Handles     [maxFBPlanes]uint32
	Pitches     [maxFBPlanes]uint32
	Offsets     [maxFBPlanes]uint32
	Modifier    [maxFBPlanes]uint64
}

const fbFlagModifiers = 1 << 1 // DRM_MODE_FB_MODIFIERS

// drmModeCreateBlob mirrors struct drm_mode_create_blob: uploads an
// opaque blob (e.g. a drm_mode_modeinfo) and returns its property-blob ID,
// used for the atomic CRTC MODE_ID property.
type drmModeCreateBlob struct {
	DataPtr uint64
	Length  uint32
	BlobID  uint32
}

const pageFlipFlagEvent = 0x01 // DRM_MODE_PAGE_FLIP_EVENT

// drmEvent mirrors struct drm_event: the common header every event read
// back from the DRM fd starts with.
type drmEvent struct {
	Type   uint32
	Length uint32
}

// drmEventVblank mirrors struct drm_event_vblank, the payload following a
// drmEvent header for both DRM_EVENT_VBLANK and DRM_EVENT_FLIP_COMPLETE.
type drmEventVblank struct {
	Base        drmEvent
	UserData    uint64
	TvSec       uint32
	TvUsec      uint32
	SequenceNum uint32
	CrtcID      uint32 // only valid for FLIP_COMPLETE on kernels with the crtc_id extension
}

const (
	drmEventVblankType       = 0x01 // DRM_EVENT_VBLANK
	drmEventFlipCompleteType = 0x03 // DRM_EVENT_FLIP_COMPLETE
)

func ioctl(f *os.File, request uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), request, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func setMaster(f *os.File) error {
	if err := ioctl(f, ioctlSetMaster, nil); err != nil {
		return fmt.Errorf("%w: SET_MASTER: %v", ErrNoMasterLock, err)
	}
	return nil
}

func dropMaster(f *os.File) error {
	return ioctl(f, ioctlDropMaster, nil)
}

func setClientCap(f *os.File, cap uint64, value uint64) error {
	req := drmSetClientCap{Capability: cap, Value: value}
	return ioctl(f, ioctlSetClientCap, unsafe.Pointer(&req))
}

func enableUniversalPlanes(f *os.File) error {
	if err := setClientCap(f, clientCapUniversalPlanes, 1); err != nil {
		return fmt.Errorf("%w: universal planes: %v", ErrCapabilityQuery, err)
	}
	return nil
}

func enableAtomic(f *os.File) error {
	if err := setClientCap(f, clientCapAtomic, 1); err != nil {
		return fmt.Errorf("%w: %v", ErrNoAtomic, err)
	}
	return nil
}

func getDriverName(f *os.File) (string, error) {
	var v drmVersion
	if err := ioctl(f, ioctlVersion, unsafe.Pointer(&v)); err != nil {
		return "", err
	}
	if v.NameLen == 0 {
		return "", nil
	}
	buf := make([]byte, v.NameLen)
	v.Name = uint64(uintptr(unsafe.Pointer(&buf[0])))
	if err := ioctl(f, ioctlVersion, unsafe.Pointer(&v)); err != nil {
		return "", err
	}
	return string(buf), nil
}

// cardResources lists the CRTC, connector, and encoder object IDs known to
// the device.
func cardResources(f *os.File) (crtcIDs, connectorIDs, encoderIDs []uint32, err error) {
	var res drmModeCardRes
	if err := ioctl(f, ioctlModeGetResources, unsafe.Pointer(&res)); err != nil {
		return nil, nil, nil, err
	}

	crtcIDs = make([]uint32, res.CountCrtcs)
	connectorIDs = make([]uint32, res.CountConnectors)
	encoderIDs = make([]uint32, res.CountEncoders)

	res2 := drmModeCardRes{
		CountCrtcs: res.CountCrtcs, CountConnectors: res.CountConnectors, CountEncoders: res.CountEncoders,
	}
	if len(crtcIDs) > 0 {
		res2.CrtcIDPtr = uint64(uintptr(unsafe.Pointer(&crtcIDs[0])))
	}
	if len(connectorIDs) > 0 {
		res2.ConnectorIDPtr = uint64(uintptr(unsafe.Pointer(&connectorIDs[0])))
	}
	if len(encoderIDs) > 0 {
		res2.EncoderIDPtr = uint64(uintptr(unsafe.Pointer(&encoderIDs[0])))
	}

	if err := ioctl(f, ioctlModeGetResources, unsafe.Pointer(&res2)); err != nil {
		return nil, nil, nil, err
	}
	return crtcIDs, connectorIDs, encoderIDs, nil
}

func getConnector(f *os.File, id uint32) (drmModeGetConnector, []uint32, error) {
	conn := drmModeGetConnector{ConnectorID: id}
	if err := ioctl(f, ioctlModeGetConnector, unsafe.Pointer(&conn)); err != nil {
		return conn, nil, err
	}

	encoders := make([]uint32, conn.CountEncoders)
	conn2 := drmModeGetConnector{ConnectorID: id, CountEncoders: conn.CountEncoders, CountModes: conn.CountModes}
	if len(encoders) > 0 {
		conn2.EncodersPtr = uint64(uintptr(unsafe.Pointer(&encoders[0])))
	}
	if err := ioctl(f, ioctlModeGetConnector, unsafe.Pointer(&conn2)); err != nil {
		return conn2, nil, err
	}
	return conn2, encoders, nil
}

func planeResources(f *os.File) ([]uint32, error) {
	var res drmModeGetPlaneRes
	if err := ioctl(f, ioctlModeGetPlaneRes, unsafe.Pointer(&res)); err != nil {
		return nil, err
	}
	planeIDs := make([]uint32, res.CountPlanes)
	res2 := drmModeGetPlaneRes{CountPlanes: res.CountPlanes}
	if len(planeIDs) > 0 {
		res2.PlaneIDPtr = uint64(uintptr(unsafe.Pointer(&planeIDs[0])))
	}
	if err := ioctl(f, ioctlModeGetPlaneRes, unsafe.Pointer(&res2)); err != nil {
		return nil, err
	}
	return planeIDs, nil
}

const atomicFlagAllowModeset = 0x0400 // DRM_MODE_ATOMIC_ALLOW_MODESET

type drmModeAtomic struct {
	Flags         uint32
	CountObjs     uint32
	ObjsPtr       uint64
	CountPropsPtr uint64
	PropsPtr      uint64
	PropValuesPtr uint64
	Reserved      uint64
	UserData      uint64
}

type drmModeObjSetProperty struct {
	Value   uint64
	PropID  uint32
	ObjID   uint32
	ObjType uint32
}

// commitAtomic groups the request's entries by object (preserving first
// appearance order) and issues a single DRM_IOCTL_MODE_ATOMIC.
func commitAtomic(f *os.File, req *AtomicRequest, flags uint32) error {
	objOrder := make([]uint32, 0, len(req.Entries))
	seen := make(map[uint32]bool)
	propsByObj := make(map[uint32][]uint32)
	valuesByObj := make(map[uint32][]uint64)

	for _, e := range req.Entries {
		if !seen[e.ObjID] {
			seen[e.ObjID] = true
			objOrder = append(objOrder, e.ObjID)
		}
		propsByObj[e.ObjID] = append(propsByObj[e.ObjID], e.PropID)
		valuesByObj[e.ObjID] = append(valuesByObj[e.ObjID], e.Value)
	}

	if len(objOrder) == 0 {
		return nil
	}

	counts := make([]uint32, len(objOrder))
	var props []uint32
	var values []uint64
	for i, obj := range objOrder {
		counts[i] = uint32(len(propsByObj[obj]))
		props = append(props, propsByObj[obj]...)
		values = append(values, valuesByObj[obj]...)
	}

	atomicReq := drmModeAtomic{
		Flags:         flags,
		CountObjs:     uint32(len(objOrder)),
		ObjsPtr:       uint64(uintptr(unsafe.Pointer(&objOrder[0]))),
		CountPropsPtr: uint64(uintptr(unsafe.Pointer(&counts[0]))),
		PropsPtr:      uint64(uintptr(unsafe.Pointer(&props[0]))),
		PropValuesPtr: uint64(uintptr(unsafe.Pointer(&values[0]))),
	}
	return ioctl(f, ioctlModeAtomic, unsafe.Pointer(&atomicReq))
}

func setConnectorProperty(f *os.File, connectorID, propID uint32, value uint64) error {
	req := drmModeObjSetProperty{Value: value, PropID: propID, ObjID: connectorID, ObjType: objTypeConnector}
	return ioctl(f, ioctlModeObjSetProp, unsafe.Pointer(&req))
}

// clearCrtcMode nulls a CRTC's mode via legacy SETCRTC with no
// framebuffer and ModeValid=0, matching the reset described in spec 4.A
// for devices without atomic support.
func clearCrtcMode(f *os.File, crtcID uint32) error {
	req := drmModeCrtc{CrtcID: crtcID}
	return ioctl(f, ioctlModeSetCrtc, unsafe.Pointer(&req))
}

// drmModeCursor mirrors struct drm_mode_cursor: sets or clears a CRTC's
// hardware cursor buffer.
type drmModeCursor struct {
	Flags  uint32
	CrtcID uint32
	X, Y   int32
	Width  uint32
	Height uint32
	Handle uint32
}

const cursorFlagBO = 0x01 // DRM_MODE_CURSOR_BO

// clearCursor nulls a CRTC's hardware cursor buffer, per the legacy reset
// path in spec 4.A ("clear the cursor").
func clearCursor(f *os.File, crtcID uint32) error {
	req := drmModeCursor{Flags: cursorFlagBO, CrtcID: crtcID}
	return ioctl(f, ioctlModeCursor, unsafe.Pointer(&req))
}

const objTypeConnector = 0xc0125500 // DRM_MODE_OBJECT_CONNECTOR

type drmModeCrtc struct {
	SetConnectorsPtr uint64
	CountConnectors  uint32
	CrtcID           uint32
	FbID             uint32
	X, Y             uint32
	GammaSize        uint32
	ModeValid        uint32
	Mode             [68]byte // drm_mode_modeinfo, opaque here: we only zero it
}

// kmsSnapshot records the pre-launch connector->CRTC and plane->(CRTC,FB)
// bindings. Reset does not consult it.
type kmsSnapshot struct {
	connectorCrtc map[uint32]uint32
	planeCrtcFb   map[uint32][2]uint32
}

// objectProperties lists the property IDs and current values attached to a
// mode object (a plane, CRTC, or connector), following the same
// count-then-fill pattern as cardResources.
func objectProperties(f *os.File, objID, objType uint32) (propIDs []uint32, values []uint64, err error) {
	var req drmModeObjGetProperties
	req.ObjID, req.ObjType = objID, objType
	if err := ioctl(f, ioctlModeObjGetProps, unsafe.Pointer(&req)); err != nil {
		return nil, nil, err
	}

	propIDs = make([]uint32, req.CountProps)
	values = make([]uint64, req.CountProps)
	req2 := drmModeObjGetProperties{ObjID: objID, ObjType: objType, CountProps: req.CountProps}
	if len(propIDs) > 0 {
		req2.PropsPtr = uint64(uintptr(unsafe.Pointer(&propIDs[0])))
		req2.PropValuesPtr = uint64(uintptr(unsafe.Pointer(&values[0])))
	}
	if err := ioctl(f, ioctlModeObjGetProps, unsafe.Pointer(&req2)); err != nil {
		return nil, nil, err
	}
	return propIDs, values, nil
}

// propertyName resolves a property ID to the name the kernel registered it
// under (e.g. "IN_FORMATS"), so callers can match properties by name
// instead of relying on an ID that differs per driver instance.
func propertyName(f *os.File, propID uint32) (string, error) {
	req := drmModeGetProperty{PropID: propID}
	if err := ioctl(f, ioctlModeGetProperty, unsafe.Pointer(&req)); err != nil {
		return "", err
	}
	n := 0
	for n < len(req.Name) && req.Name[n] != 0 {
		n++
	}
	return string(req.Name[:n]), nil
}

// propBlob reads a blob property's payload given the blob ID stored as that
// property's value (IN_FORMATS's value is such a blob ID).
func propBlob(f *os.File, blobID uint32) ([]byte, error) {
	var req drmModeGetBlob
	req.BlobID = blobID
	if err := ioctl(f, ioctlModeGetPropBlob, unsafe.Pointer(&req)); err != nil {
		return nil, err
	}
	if req.Length == 0 {
		return nil, nil
	}
	data := make([]byte, req.Length)
	req2 := drmModeGetBlob{BlobID: blobID, Length: req.Length, DataPtr: uint64(uintptr(unsafe.Pointer(&data[0])))}
	if err := ioctl(f, ioctlModeGetPropBlob, unsafe.Pointer(&req2)); err != nil {
		return nil, err
	}
	return data, nil
}

// getEncoder resolves an encoder's current CRTC and the bitmask of CRTCs it
// could be routed to, used to compute which CRTCs a connector may use.
func getEncoder(f *os.File, id uint32) (drmModeGetEncoder, error) {
	enc := drmModeGetEncoder{EncoderID: id}
	if err := ioctl(f, ioctlModeGetEncoder, unsafe.Pointer(&enc)); err != nil {
		return enc, err
	}
	return enc, nil
}

// addFB registers a GEM handle as a scanout framebuffer, returning the new
// framebuffer ID.
func addFB(f *os.File, width, height, pitch, bpp, depth, handle uint32) (uint32, error) {
	req := drmModeFBCmd{Width: width, Height: height, Pitch: pitch, BPP: bpp, Depth: depth, Handle: handle}
	if err := ioctl(f, ioctlModeAddFB, unsafe.Pointer(&req)); err != nil {
		return 0, err
	}
	return req.FbID, nil
}

// rmFB releases a framebuffer ID previously returned by addFB.
func rmFB(f *os.File, fbID uint32) error {
	id := fbID
	return ioctl(f, ioctlModeRmFB, unsafe.Pointer(&id))
}

// FBPlane is one plane of a multi-planar framebuffer (handle, pitch,
// offset), used by addFB2WithModifiers.
type FBPlane struct {
	Handle uint32
	Pitch  uint32
	Offset uint32
}

// addFB2WithModifiers registers a (possibly multi-planar, modifier-tagged)
// GEM buffer as a scanout framebuffer via the modifier-aware path (spec
// 4.D: "Framebuffer creation prefers the modifier-aware addFB2WithModifiers
// path").
func addFB2WithModifiers(f *os.File, width, height, fourcc uint32, planes []FBPlane, modifier uint64) (uint32, error) {
	if len(planes) == 0 || len(planes) > maxFBPlanes {
		return 0, fmt.Errorf("gpudevice: addFB2: %d planes out of range", len(planes))
	}
	req := drmModeFBCmd2{Width: width, Height: height, PixelFormat: fourcc, Flags: fbFlagModifiers}
	for i, p := range planes {
		req.Handles[i] = p.Handle
		req.Pitches[i] = p.Pitch
		req.Offsets[i] = p.Offset
		req.Modifier[i] = modifier
	}
	if err := ioctl(f, ioctlModeAddFB2, unsafe.Pointer(&req)); err != nil {
		return 0, err
	}
	return req.FbID, nil
}

// createPropBlob uploads data as a property blob, returning its ID. The
// atomic modeset path uses this to publish a mode's MODE_ID.
func createPropBlob(f *os.File, data []byte) (uint32, error) {
	req := drmModeCreateBlob{Length: uint32(len(data))}
	if len(data) > 0 {
		req.DataPtr = uint64(uintptr(unsafe.Pointer(&data[0])))
	}
	if err := ioctl(f, ioctlModeCreatePropBlob, unsafe.Pointer(&req)); err != nil {
		return 0, err
	}
	return req.BlobID, nil
}

// destroyPropBlob releases a blob previously returned by createPropBlob.
func destroyPropBlob(f *os.File, blobID uint32) error {
	id := blobID
	return ioctl(f, ioctlModeDestroyPropBlob, unsafe.Pointer(&id))
}

// setCrtc performs a legacy (non-atomic) mode-set, binding fbID to crtcID
// scanning out through connectorIDs with the given mode bytes (an opaque
// drm_mode_modeinfo blob the caller builds).
func setCrtc(f *os.File, crtcID, fbID uint32, connectorIDs []uint32, mode [68]byte) error {
	req := drmModeCrtc{CrtcID: crtcID, FbID: fbID, ModeValid: 1, Mode: mode}
	if len(connectorIDs) > 0 {
		req.CountConnectors = uint32(len(connectorIDs))
		req.SetConnectorsPtr = uint64(uintptr(unsafe.Pointer(&connectorIDs[0])))
	}
	return ioctl(f, ioctlModeSetCrtc, unsafe.Pointer(&req))
}

// pageFlip requests an asynchronous scanout swap to fbID on crtcID,
// completing asynchronously; the caller reads the completion event back
// from the device fd (see ParsePageFlipEvents).
func pageFlip(f *os.File, crtcID, fbID uint32, userData uint64) error {
	req := drmModeCrtcPageFlip{CrtcID: crtcID, FbID: fbID, Flags: pageFlipFlagEvent, UserData: userData}
	return ioctl(f, ioctlModePageFlip, unsafe.Pointer(&req))
}

func snapshotKMS(f *os.File) (kmsSnapshot, error) {
	snap := kmsSnapshot{connectorCrtc: map[uint32]uint32{}, planeCrtcFb: map[uint32][2]uint32{}}

	_, connectorIDs, _, err := cardResources(f)
	if err != nil {
		return snap, err
	}
	for _, cid := range connectorIDs {
		conn, _, err := getConnector(f, cid)
		if err != nil {
			continue
		}
		if conn.EncoderID != 0 {
			if enc, err := getEncoder(f, conn.EncoderID); err == nil && enc.CrtcID != 0 {
				snap.connectorCrtc[cid] = enc.CrtcID
			}
		}
	}

	planeIDs, err := planeResources(f)
	if err != nil {
		return snap, nil // plane enumeration is best-effort for the snapshot
	}
	for _, pid := range planeIDs {
		plane := drmModeGetPlane{PlaneID: pid}
		if err := ioctl(f, ioctlModeGetPlane, unsafe.Pointer(&plane)); err != nil {
			continue
		}
		snap.planeCrtcFb[pid] = [2]uint32{plane.CrtcID, plane.FbID}
	}
	return snap, nil
}
