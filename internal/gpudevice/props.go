package gpudevice

import "fmt"

const objTypeCrtc = 0xcccccccc // DRM_MODE_OBJECT_CRTC

// ResolvePropIDs looks up the fixed set of connector/CRTC/plane property
// names the reset and atomic-modeset paths need, by walking one
// representative object of each type. KMS property IDs are per-driver but
// stable across objects of the same type, so any connected connector, any
// CRTC, and any plane suffice as the probe object (spec 3: "property name
// -> property handle lookup tables for connectors/CRTCs/planes").
func ResolvePropIDs(d *DrmDevice, connectorID, crtcID, planeID uint32) (PropIDs, uint32, error) {
	var props PropIDs
	var dpmsPropID uint32

	connProps, _, err := objectProperties(d.File, connectorID, objTypeConnector)
	if err != nil {
		return props, 0, fmt.Errorf("gpudevice: connector %d properties: %w", connectorID, err)
	}
	for _, propID := range connProps {
		name, err := propertyName(d.File, propID)
		if err != nil {
			continue
		}
		switch name {
		case "CRTC_ID":
			props.ConnectorCRTCID = propID
		case "DPMS":
			dpmsPropID = propID
		}
	}

	crtcProps, _, err := objectProperties(d.File, crtcID, objTypeCrtc)
	if err != nil {
		return props, 0, fmt.Errorf("gpudevice: crtc %d properties: %w", crtcID, err)
	}
	for _, propID := range crtcProps {
		name, err := propertyName(d.File, propID)
		if err != nil {
			continue
		}
		switch name {
		case "ACTIVE":
			props.CRTCActive = propID
		case "MODE_ID":
			props.CRTCModeID = propID
		}
	}

	planeProps, _, err := objectProperties(d.File, planeID, objTypePlane)
	if err != nil {
		return props, 0, fmt.Errorf("gpudevice: plane %d properties: %w", planeID, err)
	}
	for _, propID := range planeProps {
		name, err := propertyName(d.File, propID)
		if err != nil {
			continue
		}
		switch name {
		case "CRTC_ID":
			props.PlaneCRTCID = propID
		case "FB_ID":
			props.PlaneFBID = propID
		case "SRC_X":
			props.PlaneSrcX = propID
		case "SRC_Y":
			props.PlaneSrcY = propID
		case "SRC_W":
			props.PlaneSrcW = propID
		case "SRC_H":
			props.PlaneSrcH = propID
		case "CRTC_X":
			props.PlaneCrtcX = propID
		case "CRTC_Y":
			props.PlaneCrtcY = propID
		case "CRTC_W":
			props.PlaneCrtcW = propID
		case "CRTC_H":
			props.PlaneCrtcH = propID
		}
	}

	return props, dpmsPropID, nil
}
