package obj

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"

	"github.com/milk9111/touchbrawler/common"
)

type recordingDrawer struct {
	polygons int
	circles  []cp.FColor
}

func (d *recordingDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	d.circles = append(d.circles, fill)
}
func (d *recordingDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {}
func (d *recordingDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
}
func (d *recordingDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.polygons++
}
func (d *recordingDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {}
func (d *recordingDrawer) Flags() uint                                                      { return cp.DRAW_SHAPES }
func (d *recordingDrawer) OutlineColor() cp.FColor                                          { return cp.FColor{} }
func (d *recordingDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return DebugShapeColor(shape)
}
func (d *recordingDrawer) ConstraintColor() cp.FColor     { return cp.FColor{} }
func (d *recordingDrawer) CollisionPointColor() cp.FColor { return cp.FColor{} }
func (d *recordingDrawer) Data() interface{}              { return nil }

func TestCollisionWorldDebugDraw(t *testing.T) {
	cw := newTestCollisionWorld()
	cw.AddHitbox("Enemy", common.Vec3{X: 10}, 0.5, nil)
	weapon := cw.AddWeapon("Sword", common.Vec3{X: -10}, 0.5)
	weapon.SetEnabled(false)

	d := &recordingDrawer{}
	cw.DebugDraw(d)

	assert.Equal(t, 2, d.polygons)
	assert.ElementsMatch(t, []cp.FColor{
		{R: 0.9, G: 0.4, B: 0.9, A: 1.0},
		{R: 0.5, G: 0.5, B: 0.5, A: 0.5},
	}, d.circles)

	assert.NotPanics(t, func() {
		var nilWorld *CollisionWorld
		nilWorld.DebugDraw(d)
		cw.DebugDraw(nil)
	})
}

func TestDebugShapeColorWeapon(t *testing.T) {
	cw := NewCollisionWorld(nil)
	weapon := cw.AddWeapon("Sword", common.Vec3{}, 0.5)
	assert.Equal(t, cp.FColor{R: 1.0, G: 0.85, B: 0.2, A: 1.0}, DebugShapeColor(weapon.shape))
	assert.Equal(t, cp.FColor{R: 1, G: 1, B: 1, A: 1}, DebugShapeColor(nil))
}
