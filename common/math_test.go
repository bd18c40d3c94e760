package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDegrees(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{-90, 270},
		{725, 5},
		{-360.0000000001, 0},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, NormalizeDegrees(c.in), 1e-9, "in=%v", c.in)
	}
}

func TestYawAxes(t *testing.T) {
	cases := []struct {
		yaw            float64
		forward, right Vec3
	}{
		{0, Vec3{Z: 1}, Vec3{X: 1}},
		{90, Vec3{X: 1}, Vec3{Z: -1}},
		{180, Vec3{Z: -1}, Vec3{X: -1}},
	}
	for _, c := range cases {
		f, r := YawForward(c.yaw), YawRight(c.yaw)
		assert.InDelta(t, c.forward.X, f.X, 1e-9)
		assert.InDelta(t, c.forward.Z, f.Z, 1e-9)
		assert.InDelta(t, c.right.X, r.X, 1e-9)
		assert.InDelta(t, c.right.Z, r.Z, 1e-9)
	}
}

func TestOrbitDirection(t *testing.T) {
	d := OrbitDirection(0, 90)
	assert.InDelta(t, 1, d.Y, 1e-9)
	assert.InDelta(t, 1, d.Len(), 1e-9)

	d = OrbitDirection(0, 0)
	assert.InDelta(t, -1, d.Z, 1e-9)
}

func TestVectors(t *testing.T) {
	assert.Equal(t, Vec2{}, Vec2{}.Normalized())
	assert.InDelta(t, 5, Vec2{X: 3, Y: 4}.Len(), 1e-9)
	assert.InDelta(t, 5, Vec3{X: 3, Z: 4}.Dist(Vec3{}), 1e-9)
	assert.Equal(t, 11.0, Vec3{X: 1, Y: 2, Z: 3}.Dot(Vec3{X: 3, Y: 1, Z: 2}))
	assert.Equal(t, 2.0, Clamp(5, -2, 2))
	assert.Equal(t, 2.5, Lerp(2, 3, 0.5))
}
