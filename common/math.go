package common

import "math"

const epsilon = 1e-6

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ApproxEqual reports whether a and b differ by less than a small epsilon.
func ApproxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

// NormalizeDegrees wraps an angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if ApproxEqual(deg, 360) {
		return 0
	}
	return deg
}

// Vec2 is a screen-space vector. Y grows upward.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

func (v Vec2) Scale(s float64) Vec2 { return Vec2{X: v.X * s, Y: v.Y * s} }

// LenSq returns the squared length; prefer it over Len in per-frame checks.
func (v Vec2) LenSq() float64 { return v.X*v.X + v.Y*v.Y }

func (v Vec2) Len() float64 { return math.Sqrt(v.LenSq()) }

// Normalized returns the unit vector, or the zero vector for a zero input.
func (v Vec2) Normalized() Vec2 {
	l := v.Len()
	if l < epsilon {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// Vec3 is a world-space vector. Y is up, Z is forward at yaw 0.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s} }

func (v Vec3) LenSq() float64 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }

func (v Vec3) Len() float64 { return math.Sqrt(v.LenSq()) }

func (v Vec3) Normalized() Vec3 {
	l := v.Len()
	if l < epsilon {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Dist returns the euclidean distance between two points.
func (v Vec3) Dist(o Vec3) float64 { return v.Sub(o).Len() }

// YawForward returns the unit forward axis of an agent rotated by yaw degrees
// around the up axis.
func YawForward(yaw float64) Vec3 {
	r := yaw * math.Pi / 180
	return Vec3{X: math.Sin(r), Z: math.Cos(r)}
}

// YawRight returns the unit right axis for the given yaw.
func YawRight(yaw float64) Vec3 {
	r := yaw * math.Pi / 180
	return Vec3{X: math.Cos(r), Z: -math.Sin(r)}
}

// OrbitDirection returns the unit direction from a pivot toward a point that
// sits behind it, for the given yaw and pitch in degrees. Positive pitch looks
// down, which raises the point above the pivot.
func OrbitDirection(yaw, pitch float64) Vec3 {
	y := yaw * math.Pi / 180
	p := pitch * math.Pi / 180
	return Vec3{
		X: -math.Cos(p) * math.Sin(y),
		Y: math.Sin(p),
		Z: -math.Cos(p) * math.Cos(y),
	}
}
