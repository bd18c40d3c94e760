package component

import "github.com/milk9111/touchbrawler/common"

// LayerMask selects obstacle layers for queries. Bit i enables layer i.
type LayerMask uint

const (
	LayerDefault LayerMask = 1 << iota
	LayerWall
	LayerProp
	LayerCharacter
)

// AllLayers matches every layer.
const AllLayers LayerMask = ^LayerMask(0)

// Raycaster is the collision-query collaborator.
type Raycaster interface {
	// Raycast reports the first point within maxDist along dir from origin that
	// hits an obstacle on one of the masked layers.
	Raycast(origin, dir common.Vec3, maxDist float64, mask LayerMask) (common.Vec3, bool)
}

// CharacterMover is the character-sweep collaborator. It returns the
// position reached when moving from by delta, stopping short of obstacles.
type CharacterMover interface {
	Move(from, delta common.Vec3) common.Vec3
}

// FreeMover applies every delta unobstructed.
type FreeMover struct{}

func (FreeMover) Move(from, delta common.Vec3) common.Vec3 {
	return from.Add(delta)
}
