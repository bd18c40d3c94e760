package obj

import (
	"math"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/touchbrawler/common"
	"github.com/milk9111/touchbrawler/component"
)

const (
	collisionTypeObstacle cp.CollisionType = iota + 1
	collisionTypeHitbox
	collisionTypeWeapon
)

// Sensor categories live above the obstacle layer bits so obstacle queries
// never see them.
const (
	categoryHitbox uint = 1 << 30
	categoryWeapon uint = 1 << 31
)

const (
	skinWidth          = 0.01
	maxSlideIterations = 3
)

// Obstacle is an axis aligned block on the ground plane with a vertical
// extent.
type Obstacle struct {
	MinX, MinZ float64
	MaxX, MaxZ float64
	MinY, MaxY float64
	Layer      component.LayerMask
}

func (o Obstacle) overlapsY(lo, hi float64) bool {
	return lo <= o.MaxY && hi >= o.MinY
}

type colliderKind int

const (
	colliderHitbox colliderKind = iota
	colliderWeapon
)

// Collider is a hitbox or weapon sensor owned by an agent.
type Collider struct {
	world   *CollisionWorld
	kind    colliderKind
	tag     string
	body    *cp.Body
	shape   *cp.Shape
	filter  cp.ShapeFilter
	enabled bool
	onBegin func(otherTag string)
}

// Tag returns the tag reported to the other side of a contact.
func (c *Collider) Tag() string { return c.tag }

// Position returns the collider center on the ground plane.
func (c *Collider) Position() common.Vec3 {
	p := c.body.Position()
	return common.Vec3{X: p.X, Z: p.Y}
}

// SetPosition moves the collider. Only X and Z are used.
func (c *Collider) SetPosition(p common.Vec3) {
	if c == nil || c.body == nil {
		return
	}
	c.body.SetPosition(cp.Vector{X: p.X, Y: p.Z})
	c.body.SetVelocity(0, 0)
}

// Enabled reports whether the collider currently generates contacts.
func (c *Collider) Enabled() bool { return c.enabled }

// SetEnabled turns contact generation on or off. A collider that is turned
// back on while overlapping reports a fresh contact-begin.
func (c *Collider) SetEnabled(enabled bool) {
	if c == nil || c.shape == nil || c.enabled == enabled {
		return
	}
	c.enabled = enabled
	if enabled {
		c.shape.SetFilter(c.filter)
	} else {
		c.shape.SetFilter(cp.SHAPE_FILTER_NONE)
	}
}

// Remove takes the collider out of the world.
func (c *Collider) Remove() {
	if c == nil || c.world == nil {
		return
	}
	c.world.space.RemoveShape(c.shape)
	c.world.space.RemoveBody(c.body)
	c.world = nil
}

// CollisionWorld is the arena collision model. Obstacles are static chipmunk
// boxes on the XZ plane (chipmunk Y is world Z) with a vertical extent kept
// alongside. Hitboxes and weapons are sensors that report contact-begin.
type CollisionWorld struct {
	space     *cp.Space
	obstacles []*Obstacle
	log       *zap.Logger

	// CharacterRadius and CharacterHeight size the swept character in Move.
	CharacterRadius float64
	CharacterHeight float64
	// MoveMask selects the obstacle layers that block Move.
	MoveMask component.LayerMask
}

// NewCollisionWorld creates an empty world.
func NewCollisionWorld(log *zap.Logger) *CollisionWorld {
	if log == nil {
		log = zap.NewNop()
	}
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{})
	cw := &CollisionWorld{
		space:           space,
		log:             log.Named("collision"),
		CharacterRadius: 0.4,
		CharacterHeight: 1.8,
		MoveMask:        component.AllLayers,
	}
	cw.setupHandlers()
	return cw
}

func (cw *CollisionWorld) setupHandlers() {
	handler := cw.space.NewCollisionHandler(collisionTypeHitbox, collisionTypeWeapon)
	handler.UserData = cw
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		shapeA, shapeB := arb.Shapes()
		a, okA := shapeA.UserData.(*Collider)
		b, okB := shapeB.UserData.(*Collider)
		if !okA || !okB {
			return true
		}
		hitbox, weapon := a, b
		if a.kind == colliderWeapon {
			hitbox, weapon = b, a
		}
		if hitbox.onBegin != nil {
			hitbox.onBegin(weapon.tag)
		}
		return true
	}
}

// Obstacles returns the static obstacles added so far.
func (cw *CollisionWorld) Obstacles() []Obstacle {
	out := make([]Obstacle, 0, len(cw.obstacles))
	for _, o := range cw.obstacles {
		out = append(out, *o)
	}
	return out
}

// AddObstacle adds a static block.
func (cw *CollisionWorld) AddObstacle(o Obstacle) {
	if cw == nil || cw.space == nil {
		return
	}
	if o.MinX > o.MaxX {
		o.MinX, o.MaxX = o.MaxX, o.MinX
	}
	if o.MinZ > o.MaxZ {
		o.MinZ, o.MaxZ = o.MaxZ, o.MinZ
	}
	if o.Layer == 0 {
		o.Layer = component.LayerDefault
	}

	bb := cp.BB{L: o.MinX, B: o.MinZ, R: o.MaxX, T: o.MaxZ}
	shape := cp.NewBox2(cw.space.StaticBody, bb, 0)
	shape.SetCollisionType(collisionTypeObstacle)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(o.Layer), cp.ALL_CATEGORIES))
	op := &o
	shape.UserData = op
	cw.obstacles = append(cw.obstacles, op)
	cw.space.AddShape(shape)
}

// AddHitbox adds an agent hitbox. onBegin receives the tag of every weapon
// that starts touching it.
func (cw *CollisionWorld) AddHitbox(tag string, pos common.Vec3, radius float64, onBegin func(otherTag string)) *Collider {
	c := cw.addSensor(colliderHitbox, tag, pos, radius,
		cp.NewShapeFilter(cp.NO_GROUP, categoryHitbox, categoryWeapon), collisionTypeHitbox)
	c.onBegin = onBegin
	return c
}

// AddWeapon adds a weapon sensor carrying tag.
func (cw *CollisionWorld) AddWeapon(tag string, pos common.Vec3, radius float64) *Collider {
	return cw.addSensor(colliderWeapon, tag, pos, radius,
		cp.NewShapeFilter(cp.NO_GROUP, categoryWeapon, categoryHitbox), collisionTypeWeapon)
}

func (cw *CollisionWorld) addSensor(kind colliderKind, tag string, pos common.Vec3, radius float64, filter cp.ShapeFilter, ct cp.CollisionType) *Collider {
	// chipmunk only reports contacts that involve a dynamic body
	body := cp.NewBody(1, math.Inf(1))
	body.SetPosition(cp.Vector{X: pos.X, Y: pos.Z})
	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetSensor(true)
	shape.SetCollisionType(ct)
	shape.SetFilter(filter)

	c := &Collider{world: cw, kind: kind, tag: tag, body: body, shape: shape, filter: filter, enabled: true}
	shape.UserData = c
	cw.space.AddBody(body)
	cw.space.AddShape(shape)
	return c
}

// Step advances the physics space, delivering contact-begin callbacks.
func (cw *CollisionWorld) Step(dt float64) {
	if cw == nil || cw.space == nil {
		return
	}
	cw.space.Step(dt)
}

// Raycast implements component.Raycaster. The ray is projected onto the
// ground plane for the chipmunk query and the hit height is checked against
// the obstacle's vertical extent, so rays can pass over low blocks.
func (cw *CollisionWorld) Raycast(origin, dir common.Vec3, maxDist float64, mask component.LayerMask) (common.Vec3, bool) {
	if cw == nil || maxDist <= 0 {
		return common.Vec3{}, false
	}
	dir = dir.Normalized()
	if dir == (common.Vec3{}) {
		return common.Vec3{}, false
	}
	end := origin.Add(dir.Scale(maxDist))
	a := cp.Vector{X: origin.X, Y: origin.Z}
	b := cp.Vector{X: end.X, Y: end.Z}

	bb := cp.BB{
		L: math.Min(a.X, b.X), B: math.Min(a.Y, b.Y),
		R: math.Max(a.X, b.X), T: math.Max(a.Y, b.Y),
	}
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(mask))

	best := math.Inf(1)
	cw.space.BBQuery(bb, filter, func(shape *cp.Shape, _ interface{}) {
		o, ok := shape.UserData.(*Obstacle)
		if !ok || shape.Sensor() {
			return
		}
		if t, hit := rayEntry(shape, o, origin, end, a, b); hit && t < best {
			best = t
		}
	}, nil)

	if math.IsInf(best, 1) {
		return common.Vec3{}, false
	}
	return common.Vec3{
		X: common.Lerp(origin.X, end.X, best),
		Y: common.Lerp(origin.Y, end.Y, best),
		Z: common.Lerp(origin.Z, end.Z, best),
	}, true
}

// rayEntry returns the ray parameter where the 3D segment origin-end enters
// the obstacle, through a side face or the top/bottom face.
func rayEntry(shape *cp.Shape, o *Obstacle, origin, end common.Vec3, a, b cp.Vector) (float64, bool) {
	best := math.Inf(1)

	var info cp.SegmentQueryInfo
	if shape.SegmentQuery(a, b, 0, &info) {
		y := common.Lerp(origin.Y, end.Y, info.Alpha)
		if y >= o.MinY && y <= o.MaxY {
			best = info.Alpha
		}
	}

	dy := end.Y - origin.Y
	if !common.ApproxEqual(dy, 0) {
		for _, plane := range []float64{o.MaxY, o.MinY} {
			t := (plane - origin.Y) / dy
			if t < 0 || t > 1 || t >= best {
				continue
			}
			p := a.Lerp(b, t)
			if shape.PointQuery(p).Distance <= 0 {
				best = t
			}
		}
	}
	return best, !math.IsInf(best, 1)
}

// Move implements component.CharacterMover. The character is swept as a
// circle of CharacterRadius and slides along the obstacles it hits.
func (cw *CollisionWorld) Move(from, delta common.Vec3) common.Vec3 {
	if cw == nil {
		return from.Add(delta)
	}
	pos := from
	delta.Y = 0
	for i := 0; i < maxSlideIterations && delta.LenSq() > skinWidth*skinWidth; i++ {
		t, normal, hit := cw.sweep(pos, delta)
		if !hit {
			return pos.Add(delta)
		}
		d := delta.Len()
		travel := math.Max(0, t*d-skinWidth)
		pos = pos.Add(delta.Scale(travel / d))

		remaining := delta.Scale(1 - t)
		delta = remaining.Sub(normal.Scale(remaining.Dot(normal)))
	}
	return pos
}

func (cw *CollisionWorld) sweep(pos, delta common.Vec3) (float64, common.Vec3, bool) {
	a := cp.Vector{X: pos.X, Y: pos.Z}
	b := cp.Vector{X: pos.X + delta.X, Y: pos.Z + delta.Z}
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(cw.MoveMask))

	best := math.Inf(1)
	var normal common.Vec3
	cw.space.SegmentQuery(a, b, cw.CharacterRadius, filter, func(shape *cp.Shape, point, n cp.Vector, alpha float64, _ interface{}) {
		o, ok := shape.UserData.(*Obstacle)
		if !ok || shape.Sensor() {
			return
		}
		if !o.overlapsY(pos.Y, pos.Y+cw.CharacterHeight) {
			return
		}
		nv := common.Vec3{X: n.X, Z: n.Y}
		// already touching and moving away
		if nv.Dot(delta) >= 0 {
			return
		}
		if alpha < best {
			best = alpha
			normal = nv
		}
	}, nil)
	if math.IsInf(best, 1) {
		return 0, common.Vec3{}, false
	}
	return best, normal, true
}

// BuildGrid rasterizes the obstacles on mask into a navigation grid covering
// the given bounds.
func (cw *CollisionWorld) BuildGrid(minX, minZ, maxX, maxZ, cellSize float64, mask component.LayerMask) *component.Grid {
	grid := component.NewGrid(minX, minZ, maxX, maxZ, cellSize)
	for _, o := range cw.obstacles {
		if o.Layer&mask == 0 {
			continue
		}
		grid.BlockRect(o.MinX, o.MinZ, o.MaxX, o.MaxZ)
	}
	cw.log.Debug("nav grid built", zap.Int("width", grid.Width), zap.Int("height", grid.Height))
	return grid
}
