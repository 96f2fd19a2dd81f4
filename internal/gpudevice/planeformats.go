package gpudevice

import "fmt"

// PlaneFormats is the fourth operation spec 4.A names for the GPU device
// registry component: resolve every DRM_FORMAT_MOD-capable format a given
// plane can scan out, by reading its IN_FORMATS blob property.
//
// Planes that predate the IN_FORMATS property (no property by that name)
// return an empty slice rather than an error; callers should treat that as
// "only DRM_FORMAT_MOD_LINEAR is implied" per the KMS uAPI convention.
func PlaneFormats(d *DrmDevice, planeID uint32) ([]DrmFormat, error) {
	propIDs, values, err := objectProperties(d.File, planeID, objTypePlane)
	if err != nil {
		return nil, fmt.Errorf("gpudevice: plane %d properties: %w", planeID, err)
	}

	for i, propID := range propIDs {
		name, err := propertyName(d.File, propID)
		if err != nil {
			continue
		}
		if name != "IN_FORMATS" {
			continue
		}
		blobID := uint32(values[i])
		if blobID == 0 {
			return nil, nil
		}
		data, err := propBlob(d.File, blobID)
		if err != nil {
			return nil, fmt.Errorf("gpudevice: plane %d IN_FORMATS blob: %w", planeID, err)
		}
		return ParseFormatsBlob(data)
	}
	return nil, nil
}

// Formats enumerates every plane on the device and returns the union of
// formats/modifiers each plane reports, deduplicated by fourcc.
func Formats(d *DrmDevice) ([]DrmFormat, error) {
	planeIDs, err := planeResources(d.File)
	if err != nil {
		return nil, fmt.Errorf("gpudevice: plane resources: %w", err)
	}

	byFourcc := make(map[uint32]*DrmFormat)
	var order []uint32
	for _, pid := range planeIDs {
		formats, err := PlaneFormats(d, pid)
		if err != nil {
			return nil, err
		}
		for _, f := range formats {
			existing, ok := byFourcc[f.Fourcc]
			if !ok {
				cp := f
				byFourcc[f.Fourcc] = &cp
				order = append(order, f.Fourcc)
				continue
			}
			existing.Modifiers = mergeModifiers(existing.Modifiers, f.Modifiers)
		}
	}

	out := make([]DrmFormat, 0, len(order))
	for _, fourcc := range order {
		out = append(out, *byFourcc[fourcc])
	}
	return out, nil
}

func mergeModifiers(a, b []uint64) []uint64 {
	seen := make(map[uint64]bool, len(a))
	for _, m := range a {
		seen[m] = true
	}
	for _, m := range b {
		if !seen[m] {
			seen[m] = true
			a = append(a, m)
		}
	}
	return a
}
