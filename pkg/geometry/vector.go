package geometry

import "math"

// Vec3 is a point or displacement in right-handed 3D space.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns the component-wise sum v + w.
func (v Vec3) Add(w Vec3) Vec3 { return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }

// Sub returns the component-wise difference v - w.
func (v Vec3) Sub(w Vec3) Vec3 { return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }

// Scale returns v with every component multiplied by s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Length returns the Euclidean length of v.
func (v Vec3) Length() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// Dist returns the Euclidean distance between v and w.
func (v Vec3) Dist(w Vec3) float64 { return v.Sub(w).Length() }

// Radians converts an angle in degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// Degrees converts an angle in radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// WrapDeg normalizes an angle in degrees into the range [0, 360).
// Negative inputs wrap around: WrapDeg(-90) == 270.
func WrapDeg(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// RotateY rotates v by deg degrees around the y axis, turning the (x, z)
// pair and leaving y untouched. This is the spin rotation for cones whose
// long axis runs along y (vertical layouts).
func RotateY(v Vec3, deg float64) Vec3 {
	r := Radians(deg)
	c, s := math.Cos(r), math.Sin(r)
	return Vec3{
		X: v.X*c - v.Z*s,
		Y: v.Y,
		Z: v.X*s + v.Z*c,
	}
}

// RotateX rotates v by deg degrees around the x axis, turning the (y, z)
// pair and leaving x untouched. This is the spin rotation for cones whose
// long axis runs along x (horizontal layouts).
func RotateX(v Vec3, deg float64) Vec3 {
	r := Radians(deg)
	c, s := math.Cos(r), math.Sin(r)
	return Vec3{
		X: v.X,
		Y: v.Y*c - v.Z*s,
		Z: v.Y*s + v.Z*c,
	}
}
