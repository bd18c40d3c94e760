package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/touchbrawler/common"
	"github.com/milk9111/touchbrawler/obj"
)

// projector maps a ground-plane point to screen pixels.
type projector func(p common.Vec3) (float32, float32)

// collisionDrawer outlines chipmunk shapes onto the debug view. scale is
// pixels per world unit, used for radii.
type collisionDrawer struct {
	screen  *ebiten.Image
	project projector
	scale   float32
}

func (d *collisionDrawer) point(v cp.Vector) (float32, float32) {
	return d.project(common.Vec3{X: v.X, Z: v.Y})
}

func (d *collisionDrawer) line(a, b cp.Vector, c cp.FColor) {
	x0, y0 := d.point(a)
	x1, y1 := d.point(b)
	vector.StrokeLine(d.screen, x0, y0, x1, y1, 1, fcolorToRGBA(c), true)
}

func (d *collisionDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	x, y := d.point(pos)
	vector.StrokeCircle(d.screen, x, y, float32(radius)*d.scale, 1, fcolorToRGBA(fill), true)
}

func (d *collisionDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.line(a, b, fill)
}

func (d *collisionDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.line(a, b, fill)
}

func (d *collisionDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	for i := 0; i < count; i++ {
		d.line(verts[i], verts[(i+1)%count], fill)
	}
}

func (d *collisionDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	x, y := d.point(pos)
	vector.FillCircle(d.screen, x, y, float32(size)/2, fcolorToRGBA(fill), true)
}

func (d *collisionDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *collisionDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1.0, B: 0.2, A: 1.0}
}

func (d *collisionDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return obj.DebugShapeColor(shape)
}

func (d *collisionDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 0.7, G: 0.7, B: 0.7, A: 1.0}
}

func (d *collisionDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1.0, G: 0.1, B: 0.1, A: 1.0}
}

func (d *collisionDrawer) Data() interface{} {
	return nil
}

func fcolorToRGBA(c cp.FColor) color.RGBA {
	clamp := func(v float32) uint8 {
		return uint8(common.Clamp(float64(v), 0, 1) * 255)
	}
	return color.RGBA{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: clamp(c.A)}
}
