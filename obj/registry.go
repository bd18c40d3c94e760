package obj

import (
	"errors"

	"github.com/milk9111/touchbrawler/common"
)

var (
	ErrPlayerExists    = errors.New("obj: a player is already registered")
	ErrNilCollaborator = errors.New("obj: required collaborator is nil")
)

// PlayerLocator gives enemies read-only access to the player position.
type PlayerLocator interface {
	PlayerPosition() (common.Vec3, bool)
}

// PlayerRegistry holds the single discoverable player. The first registered
// player wins; later registrations are rejected rather than replacing it.
type PlayerRegistry struct {
	player *Player
}

func NewPlayerRegistry() *PlayerRegistry {
	return &PlayerRegistry{}
}

// Register stores p if no other player is registered.
func (r *PlayerRegistry) Register(p *Player) error {
	if p == nil {
		return ErrNilCollaborator
	}
	if r.player != nil && r.player != p {
		return ErrPlayerExists
	}
	r.player = p
	return nil
}

// Unregister clears the registry if p is the registered player.
func (r *PlayerRegistry) Unregister(p *Player) {
	if r.player == p {
		r.player = nil
	}
}

// Player returns the registered player.
func (r *PlayerRegistry) Player() (*Player, bool) {
	return r.player, r.player != nil
}

func (r *PlayerRegistry) PlayerPosition() (common.Vec3, bool) {
	if r == nil || r.player == nil {
		return common.Vec3{}, false
	}
	return r.player.Position(), true
}
