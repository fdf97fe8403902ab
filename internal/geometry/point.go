// Package geometry holds the airfoil outline and the affine transforms
// applied to it.
//
// An Airfoil is an ordered slice of Points. The order is the drawing order of
// the outline (Selig convention: trailing edge, upper surface to the leading
// edge, lower surface back to the trailing edge) and every transform in this
// package preserves it.
package geometry

import (
	"fmt"
	"math"
)

// Point is a coordinate triple. Airfoil outlines are planar, so Z stays 0
// unless a caller moves the outline out of plane explicitly.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Pt is a shorthand constructor for a planar Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Coord returns the three coordinates of p.
func (p Point) Coord() (x, y, z float64) {
	return p.X, p.Y, p.Z
}

// Distance returns the Euclidean distance from p to other.
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	dz := p.Z - other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Move translates p in place.
func (p *Point) Move(dx, dy, dz float64) {
	p.X += dx
	p.Y += dy
	p.Z += dz
}

// ApproxEqual reports whether p and other differ by at most tol on every axis.
func (p Point) ApproxEqual(other Point, tol float64) bool {
	return math.Abs(p.X-other.X) <= tol &&
		math.Abs(p.Y-other.Y) <= tol &&
		math.Abs(p.Z-other.Z) <= tol
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}
