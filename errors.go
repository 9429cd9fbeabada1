// SPDX-License-Identifier: MIT

package quadtree

import "fmt"

// QuadtreeError is implemented by every error type this package returns
// from shape validation or bounds checks. It lets callers use errors.As
// to recover the offending values without a type switch on concrete types.
type QuadtreeError interface {
	error
	isQuadtreeError()
}

// InvalidRectangleDims reports a rectangle whose width or height is
// non-finite or negative.
type InvalidRectangleDims struct {
	Width, Height float32
}

func (e *InvalidRectangleDims) Error() string {
	return fmt.Sprintf("quadtree: rectangle width/height must be finite and non-negative (width: %v, height: %v)", e.Width, e.Height)
}

func (*InvalidRectangleDims) isQuadtreeError() {}

// InvalidCircleRadius reports a circle whose radius is non-finite or negative.
type InvalidCircleRadius struct {
	Radius float32
}

func (e *InvalidCircleRadius) Error() string {
	return fmt.Sprintf("quadtree: circle radius must be finite and non-negative (radius: %v)", e.Radius)
}

func (*InvalidCircleRadius) isQuadtreeError() {}

// InvalidRectExtent reports an extent that is non-finite or has min > max
// on some axis.
type InvalidRectExtent struct {
	MinX, MinY, MaxX, MaxY float32
}

func (e *InvalidRectExtent) Error() string {
	return fmt.Sprintf("quadtree: rectangle extents must be finite with min <= max (min_x: %v, min_y: %v, max_x: %v, max_y: %v)",
		e.MinX, e.MinY, e.MaxX, e.MaxY)
}

func (*InvalidRectExtent) isQuadtreeError() {}

// RectExtentOutOfBounds reports an otherwise-valid extent that falls
// outside the root rectangle of the tree.
type RectExtentOutOfBounds struct {
	MinX, MinY, MaxX, MaxY                         float32
	BoundsMinX, BoundsMinY, BoundsMaxX, BoundsMaxY float32
}

func (e *RectExtentOutOfBounds) Error() string {
	return fmt.Sprintf(
		"quadtree: rectangle extents must be within quadtree bounds (min_x: %v, min_y: %v, max_x: %v, max_y: %v, bounds_min_x: %v, bounds_min_y: %v, bounds_max_x: %v, bounds_max_y: %v)",
		e.MinX, e.MinY, e.MaxX, e.MaxY, e.BoundsMinX, e.BoundsMinY, e.BoundsMaxX, e.BoundsMaxY)
}

func (*RectExtentOutOfBounds) isQuadtreeError() {}
