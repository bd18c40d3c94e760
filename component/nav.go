package component

import (
	"math"

	"github.com/milk9111/touchbrawler/common"
)

const defaultNavMaxNodes = 4000

// NavAgent is the pathfinding collaborator. It owns the agent's position and
// converges toward the last destination at the last speed.
type NavAgent interface {
	SetDestination(p common.Vec3)
	SetSpeed(speed float64)
	Position() common.Vec3
}

// Grid is an occupancy grid over the ground (XZ) plane.
type Grid struct {
	OriginX  float64
	OriginZ  float64
	CellSize float64
	Width    int
	Height   int

	blocked []bool
}

// NewGrid covers the rectangle [minX,maxX] x [minZ,maxZ] with square cells.
func NewGrid(minX, minZ, maxX, maxZ, cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	w := int(math.Ceil((maxX - minX) / cellSize))
	h := int(math.Ceil((maxZ - minZ) / cellSize))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &Grid{
		OriginX:  minX,
		OriginZ:  minZ,
		CellSize: cellSize,
		Width:    w,
		Height:   h,
		blocked:  make([]bool, w*h),
	}
}

// Cell returns the cell containing p and whether it lies on the grid.
func (g *Grid) Cell(p common.Vec3) (int, int, bool) {
	x := int(math.Floor((p.X - g.OriginX) / g.CellSize))
	z := int(math.Floor((p.Z - g.OriginZ) / g.CellSize))
	return x, z, x >= 0 && z >= 0 && x < g.Width && z < g.Height
}

// Center returns the world position of a cell center at height y.
func (g *Grid) Center(x, z int, y float64) common.Vec3 {
	return common.Vec3{
		X: g.OriginX + (float64(x)+0.5)*g.CellSize,
		Y: y,
		Z: g.OriginZ + (float64(z)+0.5)*g.CellSize,
	}
}

// BlockRect marks every cell overlapping the XZ rectangle as blocked.
func (g *Grid) BlockRect(minX, minZ, maxX, maxZ float64) {
	x0, z0, _ := g.Cell(common.Vec3{X: minX, Z: minZ})
	x1, z1, _ := g.Cell(common.Vec3{X: maxX, Z: maxZ})
	for z := max(z0, 0); z <= min(z1, g.Height-1); z++ {
		for x := max(x0, 0); x <= min(x1, g.Width-1); x++ {
			g.blocked[z*g.Width+x] = true
		}
	}
}

// Blocked reports whether a cell is impassable. Off-grid cells are blocked.
func (g *Grid) Blocked(x, z int) bool {
	if x < 0 || z < 0 || x >= g.Width || z >= g.Height {
		return true
	}
	return g.blocked[z*g.Width+x]
}

// GridNav is a NavAgent that plans with A* on a Grid and walks the path in
// Update. A nil grid walks straight toward the destination.
type GridNav struct {
	grid     *Grid
	pos      common.Vec3
	speed    float64
	dest     common.Vec3
	hasDest  bool
	path     []common.Vec3
	MaxNodes int
}

// NewGridNav places an agent at start on grid.
func NewGridNav(grid *Grid, start common.Vec3) *GridNav {
	return &GridNav{grid: grid, pos: start, MaxNodes: defaultNavMaxNodes}
}

func (n *GridNav) Position() common.Vec3 { return n.pos }

func (n *GridNav) SetSpeed(speed float64) {
	if speed < 0 {
		speed = 0
	}
	n.speed = speed
}

// Speed returns the current travel speed.
func (n *GridNav) Speed() float64 { return n.speed }

// Destination returns the last requested destination.
func (n *GridNav) Destination() (common.Vec3, bool) { return n.dest, n.hasDest }

// Path returns the remaining waypoints.
func (n *GridNav) Path() []common.Vec3 { return n.path }

// SetDestination replans unless the destination falls in the same cell as
// the current one and a path is still being followed.
func (n *GridNav) SetDestination(p common.Vec3) {
	p.Y = n.pos.Y
	if n.hasDest && len(n.path) > 0 && n.sameCell(n.dest, p) {
		n.dest = p
		n.path[len(n.path)-1] = p
		return
	}
	n.dest = p
	n.hasDest = true
	n.path = n.plan(p)
}

func (n *GridNav) sameCell(a, b common.Vec3) bool {
	if n.grid == nil {
		return a == b
	}
	ax, az, _ := n.grid.Cell(a)
	bx, bz, _ := n.grid.Cell(b)
	return ax == bx && az == bz
}

func (n *GridNav) plan(dest common.Vec3) []common.Vec3 {
	if n.grid == nil {
		return []common.Vec3{dest}
	}
	sx, sz, okStart := n.grid.Cell(n.pos)
	gx, gz, okGoal := n.grid.Cell(dest)
	if !okStart || !okGoal {
		return nil
	}
	cells := AStar(sx, sz, gx, gz, n.grid.Width, n.grid.Height, n.grid.Blocked, n.MaxNodes)
	if len(cells) == 0 {
		return nil
	}
	path := make([]common.Vec3, 0, len(cells))
	for _, c := range cells[1:] {
		path = append(path, n.grid.Center(c.X, c.Y, n.pos.Y))
	}
	if len(path) == 0 {
		return []common.Vec3{dest}
	}
	path[len(path)-1] = dest
	return path
}

// Update advances the agent along its path by speed*dt.
func (n *GridNav) Update(dt float64) {
	remaining := n.speed * dt
	for remaining > 0 && len(n.path) > 0 {
		target := n.path[0]
		to := target.Sub(n.pos)
		d := to.Len()
		if d <= remaining {
			n.pos = target
			remaining -= d
			n.path = n.path[1:]
			continue
		}
		n.pos = n.pos.Add(to.Scale(remaining / d))
		remaining = 0
	}
}
