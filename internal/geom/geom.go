// Package geom rasterizes the primitive volumes used by shapes and
// conditions. Every rasterizer calls visit once per voxel with coordinates
// relative to the primitive's anchor; returning false from visit stops the
// sweep early.
package geom

import "math"

// Visitor receives one voxel. outer is true for voxels on the surface.
type Visitor func(x, y, z int, outer bool) bool

// Cuboid visits [0,w)×[0,h)×[0,d). Voxels on any face are outer. A
// non-positive dimension produces nothing. It reports whether the sweep ran
// to completion.
func Cuboid(w, h, d int, visit Visitor) bool {
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			for z := 0; z < d; z++ {
				outer := x == 0 || y == 0 || z == 0 || x == w-1 || y == h-1 || z == d-1
				if !visit(x, y, z, outer) {
					return false
				}
			}
		}
	}
	return true
}

func lengthSq(x, y, z float64) float64 { return x*x + y*y + z*z }

// Ellipsoid visits a filled ellipsoid centred on the origin. The sweep walks
// one octant in normalized coordinates and mirrors every accepted voxel into
// the other seven, visiting voxels on a zero axis only once. A voxel is outer
// when a single step away from the centre along any axis leaves the
// ellipsoid.
func Ellipsoid(rx, ry, rz float64, visit Visitor) bool {
	rx = math.Abs(rx) + 0.5
	ry = math.Abs(ry) + 0.5
	rz = math.Abs(rz) + 0.5

	invX, invY, invZ := 1/rx, 1/ry, 1/rz
	ceilX, ceilY, ceilZ := int(math.Ceil(rx)), int(math.Ceil(ry)), int(math.Ceil(rz))

	nextXn := 0.0
forX:
	for x := 0; x <= ceilX; x++ {
		xn := nextXn
		nextXn = float64(x+1) * invX
		nextYn := 0.0
	forY:
		for y := 0; y <= ceilY; y++ {
			yn := nextYn
			nextYn = float64(y+1) * invY
			nextZn := 0.0
			for z := 0; z <= ceilZ; z++ {
				zn := nextZn
				nextZn = float64(z+1) * invZ

				if lengthSq(xn, yn, zn) > 1 {
					if z == 0 {
						if y == 0 {
							break forX
						}
						break forY
					}
					break
				}

				outer := lengthSq(nextXn, yn, zn) > 1 ||
					lengthSq(xn, nextYn, zn) > 1 ||
					lengthSq(xn, yn, nextZn) > 1
				if !mirror(x, y, z, outer, visit) {
					return false
				}
			}
		}
	}
	return true
}

func signs(v int) []int {
	if v == 0 {
		return []int{0}
	}
	return []int{v, -v}
}

func mirror(x, y, z int, outer bool, visit Visitor) bool {
	for _, mx := range signs(x) {
		for _, my := range signs(y) {
			for _, mz := range signs(z) {
				if !visit(mx, my, mz, outer) {
					return false
				}
			}
		}
	}
	return true
}

// Line visits every voxel of the segment from the origin to (dx, dy, dz),
// both ends included, using a 3D Bresenham traversal. Every voxel is outer.
func Line(dx, dy, dz int, visit Visitor) bool {
	ax, ay, az := abs(dx), abs(dy), abs(dz)
	sx, sy, sz := sign(dx), sign(dy), sign(dz)
	x, y, z := 0, 0, 0

	if !visit(x, y, z, true) {
		return false
	}
	switch {
	case ax >= ay && ax >= az:
		e1, e2 := 2*ay-ax, 2*az-ax
		for i := 0; i < ax; i++ {
			if e1 >= 0 {
				y += sy
				e1 -= 2 * ax
			}
			if e2 >= 0 {
				z += sz
				e2 -= 2 * ax
			}
			e1 += 2 * ay
			e2 += 2 * az
			x += sx
			if !visit(x, y, z, true) {
				return false
			}
		}
	case ay >= ax && ay >= az:
		e1, e2 := 2*ax-ay, 2*az-ay
		for i := 0; i < ay; i++ {
			if e1 >= 0 {
				x += sx
				e1 -= 2 * ay
			}
			if e2 >= 0 {
				z += sz
				e2 -= 2 * ay
			}
			e1 += 2 * ax
			e2 += 2 * az
			y += sy
			if !visit(x, y, z, true) {
				return false
			}
		}
	default:
		e1, e2 := 2*ay-az, 2*ax-az
		for i := 0; i < az; i++ {
			if e1 >= 0 {
				y += sy
				e1 -= 2 * az
			}
			if e2 >= 0 {
				x += sx
				e2 -= 2 * az
			}
			e1 += 2 * ay
			e2 += 2 * ax
			z += sz
			if !visit(x, y, z, true) {
				return false
			}
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
