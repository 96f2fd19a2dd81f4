package drm

import (
	"testing"

	"github.com/waylex/waylex/internal/geom"
	"github.com/waylex/waylex/internal/gpudevice"
)

func testProps() gpudevice.PropIDs {
	return gpudevice.PropIDs{
		ConnectorCRTCID: 1, CRTCActive: 2, CRTCModeID: 3,
		PlaneCRTCID: 4, PlaneFBID: 5,
		PlaneSrcX: 6, PlaneSrcY: 7, PlaneSrcW: 8, PlaneSrcH: 9,
		PlaneCrtcX: 10, PlaneCrtcY: 11, PlaneCrtcW: 12, PlaneCrtcH: 13,
	}
}

func TestBuildModesetRequestSetsConnectorCrtcAndActive(t *testing.T) {
	props := testProps()
	req := BuildModesetRequest(100, 200, 300, 400, 500, geom.Rect{W: 1920, H: 1080}, geom.Rect{W: 1920, H: 1080}, props)

	var gotConnectorCrtc, gotActive, gotModeID bool
	for _, e := range req.Entries {
		switch {
		case e.ObjID == 100 && e.PropID == props.ConnectorCRTCID:
			gotConnectorCrtc = e.Value == 200
		case e.ObjID == 200 && e.PropID == props.CRTCActive:
			gotActive = e.Value == 1
		case e.ObjID == 200 && e.PropID == props.CRTCModeID:
			gotModeID = e.Value == 500
		}
	}
	if !gotConnectorCrtc || !gotActive || !gotModeID {
		t.Fatalf("req.Entries = %+v, missing expected connector/crtc entries", req.Entries)
	}
}

func TestBuildModesetRequestSetsPlaneRects(t *testing.T) {
	props := testProps()
	req := BuildModesetRequest(100, 200, 300, 400, 500, geom.Rect{X: 0, Y: 0, W: 640, H: 480}, geom.Rect{X: 10, Y: 20, W: 640, H: 480}, props)

	values := map[uint32]uint64{}
	for _, e := range req.Entries {
		if e.ObjID == 300 {
			values[e.PropID] = e.Value
		}
	}
	if values[props.PlaneSrcW] != uint64(640)<<16 {
		t.Fatalf("SrcW = %d, want %d", values[props.PlaneSrcW], uint64(640)<<16)
	}
	if values[props.PlaneCrtcX] != 10 || values[props.PlaneCrtcY] != 20 {
		t.Fatalf("CrtcX/Y = %d/%d, want 10/20", values[props.PlaneCrtcX], values[props.PlaneCrtcY])
	}
	if values[props.PlaneFBID] != 400 {
		t.Fatalf("FBID = %d, want 400", values[props.PlaneFBID])
	}
}
