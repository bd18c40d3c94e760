package obj

import (
	"github.com/jakecoffman/cp"
)

// DebugDraw walks every chipmunk shape of the world into d. Drawers map
// chipmunk X/Y to world X/Z.
func (cw *CollisionWorld) DebugDraw(d cp.Drawer) {
	if cw == nil || cw.space == nil || d == nil {
		return
	}
	cp.DrawSpace(cw.space, d)
}

// DebugShapeColor tells obstacles, hitboxes and weapons apart. Disabled
// sensors are dimmed.
func DebugShapeColor(shape *cp.Shape) cp.FColor {
	if shape == nil {
		return cp.FColor{R: 1, G: 1, B: 1, A: 1}
	}
	switch v := shape.UserData.(type) {
	case *Obstacle:
		return cp.FColor{R: 0.4, G: 0.7, B: 1.0, A: 1.0}
	case *Collider:
		if !v.enabled {
			return cp.FColor{R: 0.5, G: 0.5, B: 0.5, A: 0.5}
		}
		if v.kind == colliderWeapon {
			return cp.FColor{R: 1.0, G: 0.85, B: 0.2, A: 1.0}
		}
		return cp.FColor{R: 0.9, G: 0.4, B: 0.9, A: 1.0}
	}
	return cp.FColor{R: 1, G: 1, B: 1, A: 1}
}
