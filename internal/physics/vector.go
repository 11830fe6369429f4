package physics

import "math"

// Vec3 is a 3D vector with fixed-precision arithmetic. Every operation
// rounds its result through float32 so that two runs over the same inputs
// produce bit-identical state regardless of intermediate compiler choices.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// fround collapses a float64 to float32 precision. All simulation state
// passes through this after every mutation; it is the determinism contract.
func fround(n float64) float64 {
	if math.IsNaN(n) {
		return 0
	}
	return float64(float32(n))
}

func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: fround(x), Y: fround(y), Z: fround(z)}
}

func (v Vec3) Plus(o Vec3) Vec3 {
	return Vec3{X: fround(v.X + o.X), Y: fround(v.Y + o.Y), Z: fround(v.Z + o.Z)}
}

func (v Vec3) Minus(o Vec3) Vec3 {
	return Vec3{X: fround(v.X - o.X), Y: fround(v.Y - o.Y), Z: fround(v.Z - o.Z)}
}

func (v Vec3) Times(s float64) Vec3 {
	return Vec3{X: fround(v.X * s), Y: fround(v.Y * s), Z: fround(v.Z * s)}
}

func (v Vec3) Dot(o Vec3) float64 {
	return fround(v.X*o.X + v.Y*o.Y + v.Z*o.Z)
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: fround(v.Y*o.Z - v.Z*o.Y),
		Y: fround(v.Z*o.X - v.X*o.Z),
		Z: fround(v.X*o.Y - v.Y*o.X),
	}
}

func (v Vec3) Magnitude() float64 {
	return fround(math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z))
}

func (v Vec3) MagnitudeSquared() float64 {
	return fround(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v Vec3) Normalize() Vec3 {
	m := v.Magnitude()
	if m == 0 {
		return Vec3{}
	}
	return v.Times(1.0 / m)
}

// Flat returns the projection onto the cloth plane (z dropped).
func (v Vec3) Flat() Vec3 {
	return Vec3{X: v.X, Y: v.Y}
}

// FlatMagnitude is the speed across the cloth, ignoring any vertical motion.
func (v Vec3) FlatMagnitude() float64 {
	return fround(math.Sqrt(v.X*v.X + v.Y*v.Y))
}

// RotateZ rotates the vector about the vertical axis by the given angle in radians.
func (v Vec3) RotateZ(rad float64) Vec3 {
	sin, cos := math.Sin(rad), math.Cos(rad)
	return Vec3{
		X: fround(v.X*cos - v.Y*sin),
		Y: fround(v.X*sin + v.Y*cos),
		Z: v.Z,
	}
}

func (v Vec3) Invert() Vec3 {
	return Vec3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

func (v Vec3) IsEqualTo(o Vec3) bool {
	return v.X == o.X && v.Y == o.Y && v.Z == o.Z
}

// up is the cloth normal.
var up = Vec3{Z: 1}

func clamp(n, lo, hi float64) float64 {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
