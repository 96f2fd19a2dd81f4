// Package geom provides the rectangle and region arithmetic shared by the
// surface model (damage, window geometry) and the DRM backend (plane source
// and destination rectangles).
package geom

// Rect is an axis-aligned integer rectangle in surface-local or
// buffer-local coordinates, depending on context. X and Y are the
// top-left corner; W and H are non-negative extents.
type Rect struct {
	X, Y, W, H int32
}

// Empty reports whether the rectangle covers no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Right returns the exclusive right edge, X+W.
func (r Rect) Right() int32 { return r.X + r.W }

// Bottom returns the exclusive bottom edge, Y+H.
func (r Rect) Bottom() int32 { return r.Y + r.H }

// Intersect returns the overlapping area of r and o. The result is empty
// (W==0, H==0) when the rectangles do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max32(r.X, o.X), max32(r.Y, o.Y)
	x1, y1 := min32(r.Right(), o.Right()), min32(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Contains reports whether o lies entirely within r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

// Region is an accumulated, unordered list of damage rectangles. It does
// not merge overlapping rectangles: callers that need the union area
// should iterate and clamp, matching the import pipeline's per-rectangle
// upload loop (spec 4.B.2 step 5).
type Region struct {
	Rects []Rect
}

// Add appends a rectangle to the region, dropping it if empty.
func (r *Region) Add(rect Rect) {
	if rect.Empty() {
		return
	}
	r.Rects = append(r.Rects, rect)
}

// Clear empties the region without releasing its backing array, so the
// same Region can be reused across commits without reallocating.
func (r *Region) Clear() {
	r.Rects = r.Rects[:0]
}

// IsEmpty reports whether the region has no rectangles. Per spec 4.C an
// empty committed damage list means the whole surface is dirty.
func (r Region) IsEmpty() bool {
	return len(r.Rects) == 0
}

// ClampedTo returns a copy of the region with every rectangle intersected
// against bounds, dropping rectangles that fall entirely outside it.
func (r Region) ClampedTo(bounds Rect) Region {
	out := Region{Rects: make([]Rect, 0, len(r.Rects))}
	for _, rect := range r.Rects {
		clamped := rect.Intersect(bounds)
		out.Add(clamped)
	}
	return out
}
