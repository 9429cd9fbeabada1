// SPDX-License-Identifier: MIT

package quadtree

import "math"

// ShapeKind tags which of the two supported shapes an entity carries.
type ShapeKind uint8

const (
	ShapeRect ShapeKind = iota
	ShapeCircle
)

// Rectangle is a caller-facing shape given by center and full width/height.
// The tree stores only the derived extent; it never keeps the Rectangle
// value itself.
type Rectangle struct {
	X, Y, Width, Height float32
}

// Circle is a caller-facing shape given by center and radius. The tree
// stores only (cx, cy, r, r^2); it never keeps the Circle value itself.
type Circle struct {
	X, Y, Radius float32
}

// extent is the internal axis-aligned bounding box representation,
// (min_x, min_y, max_x, max_y).
type extent struct {
	minX, minY, maxX, maxY float32
}

// halfExtent is a node's region expressed as center + half-width/height.
type halfExtent struct {
	x, y, w, h float32
}

func (h halfExtent) toExtent() extent {
	return extent{
		minX: h.x - h.w,
		minY: h.y - h.h,
		maxX: h.x + h.w,
		maxY: h.y + h.h,
	}
}

func extentFromHalf(h halfExtent) extent { return h.toExtent() }

func halfFromExtent(e extent) halfExtent {
	hw := (e.maxX - e.minX) * 0.5
	hh := (e.maxY - e.minY) * 0.5
	return halfExtent{x: e.minX + hw, y: e.minY + hh, w: hw, h: hh}
}

// circleData is the stored derived form of a Circle: center, radius, and
// radius^2 (precomputed to avoid repeated multiplication in hot paths).
type circleData struct {
	x, y, r, rSq float32
}

func newCircleData(x, y, r float32) circleData {
	return circleData{x: x, y: y, r: r, rSq: r * r}
}

func validateRectDims(width, height float32) error {
	if !isFinite(width) || !isFinite(height) || width < 0 || height < 0 {
		return &InvalidRectangleDims{Width: width, Height: height}
	}
	return nil
}

func validateCircleRadius(radius float32) error {
	if !isFinite(radius) || radius < 0 {
		return &InvalidCircleRadius{Radius: radius}
	}
	return nil
}

func validateRectExtentBounds(minX, minY, maxX, maxY float32) error {
	if !isFinite(minX) || !isFinite(minY) || !isFinite(maxX) || !isFinite(maxY) ||
		minX > maxX || minY > maxY {
		return &InvalidRectExtent{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
	}
	return nil
}

func isFinite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

// extentFromRect derives the axis-aligned extent of a Rectangle.
func extentFromRect(r Rectangle) (extent, error) {
	if err := validateRectDims(r.Width, r.Height); err != nil {
		return extent{}, err
	}
	hw := r.Width * 0.5
	hh := r.Height * 0.5
	return extent{minX: r.X - hw, minY: r.Y - hh, maxX: r.X + hw, maxY: r.Y + hh}, nil
}

// extentFromCircle derives the axis-aligned extent of a Circle, along with
// its circleData.
func extentFromCircle(c Circle) (extent, circleData, error) {
	if err := validateCircleRadius(c.Radius); err != nil {
		return extent{}, circleData{}, err
	}
	e := extent{minX: c.X - c.Radius, minY: c.Y - c.Radius, maxX: c.X + c.Radius, maxY: c.Y + c.Radius}
	return e, newCircleData(c.X, c.Y, c.Radius), nil
}

func extentFromMinMax(minX, minY, maxX, maxY float32) (extent, error) {
	if err := validateRectExtentBounds(minX, minY, maxX, maxY); err != nil {
		return extent{}, err
	}
	return extent{minX: minX, minY: minY, maxX: maxX, maxY: maxY}, nil
}

// looseHalfExtent scales half about its own center by looseness.
func looseHalfExtent(h halfExtent, looseness float32) halfExtent {
	if looseness <= 1 {
		return h
	}
	return halfExtent{x: h.x, y: h.y, w: h.w * looseness, h: h.h * looseness}
}

func looseExtentFromHalf(h halfExtent, looseness float32) extent {
	return looseHalfExtent(h, looseness).toExtent()
}

// extentFitsInLooseHalf reports whether e lies within the loose extent of h.
func extentFitsInLooseHalf(h halfExtent, e extent, looseness float32) bool {
	loose := looseHalfExtent(h, looseness)
	return e.minX >= loose.x-loose.w && e.maxX <= loose.x+loose.w &&
		e.minY >= loose.y-loose.h && e.maxY <= loose.y+loose.h
}

// rectOverlap reports whether two extents overlap, inclusive on the max side.
func rectOverlap(a, b extent) bool {
	return a.maxX >= b.minX && b.maxX >= a.minX && a.maxY >= b.minY && b.maxY >= a.minY
}

// rectContains reports whether outer fully contains inner.
func rectContains(outer, inner extent) bool {
	return inner.minX >= outer.minX && inner.maxX <= outer.maxX &&
		inner.minY >= outer.minY && inner.maxY <= outer.maxY
}

func pointToExtentDistanceSq(x, y float32, e extent) float32 {
	dx := float32(0)
	switch {
	case x < e.minX:
		dx = e.minX - x
	case x > e.maxX:
		dx = x - e.maxX
	}
	dy := float32(0)
	switch {
	case y < e.minY:
		dy = e.minY - y
	case y > e.maxY:
		dy = y - e.maxY
	}
	return dx*dx + dy*dy
}

func circleCircleRaw(x1, y1, r1, x2, y2, r2 float32) bool {
	dx := x1 - x2
	dy := y1 - y2
	r := r1 + r2
	return dx*dx+dy*dy < r*r
}

func circleRectRaw(cx, cy, radius, radiusSq, rectX, rectY, halfW, halfH float32) bool {
	dx := abs32(cx - rectX)
	dy := abs32(cy - rectY)
	if dx >= halfW+radius || dy >= halfH+radius {
		return false
	}
	if dx < halfW || dy < halfH {
		return true
	}
	cdx := dx - halfW
	cdy := dy - halfH
	return cdx*cdx+cdy*cdy < radiusSq
}

func circleExtentRaw(cx, cy, radius, radiusSq float32, e extent) bool {
	rectX := (e.minX + e.maxX) * 0.5
	rectY := (e.minY + e.maxY) * 0.5
	halfW := (e.maxX - e.minX) * 0.5
	halfH := (e.maxY - e.minY) * 0.5
	return circleRectRaw(cx, cy, radius, radiusSq, rectX, rectY, halfW, halfH)
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

// childTargetsForExtent computes which of a node's four quadrants (given
// its half extent h) the extent e reaches. If looseness > 1 and exactly one
// child's loose half-extent fully contains e, that single child is
// returned. Otherwise the 0..4 quadrants reached by a center split are
// returned. childHalf must compute the half-extent of child index i.
func childTargetsForExtent(h halfExtent, e extent, looseness float32, childHalf func(int) halfExtent, targets *[4]int) int {
	if looseness > 1 {
		single := -1
		for i := 0; i < 4; i++ {
			ch := childHalf(i)
			if extentFitsInLooseHalf(ch, e, looseness) {
				if single >= 0 {
					single = -1
					break
				}
				single = i
			}
		}
		if single >= 0 {
			targets[0] = single
			return 1
		}
	}

	n := 0
	if e.minX <= h.x {
		if e.minY <= h.y {
			targets[n] = 0
			n++
		}
		if e.maxY >= h.y {
			targets[n] = 1
			n++
		}
	}
	if e.maxX >= h.x {
		if e.minY <= h.y {
			targets[n] = 2
			n++
		}
		if e.maxY >= h.y {
			targets[n] = 3
			n++
		}
	}
	return n
}
