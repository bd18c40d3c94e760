package obj

import "go.uber.org/zap"

// DefaultWeaponTag is the tag carried by the player's weapon collider.
const DefaultWeaponTag = "Sword"

// Killable is anything a DamageBridge can kill.
type Killable interface {
	Kill()
	IsDead() bool
}

// DamageBridge kills its target when a collider tagged as a weapon starts
// touching the target's hitbox.
type DamageBridge struct {
	target    Killable
	weaponTag string
	log       *zap.Logger
}

// NewDamageBridge binds a bridge to target. An empty weaponTag uses
// DefaultWeaponTag.
func NewDamageBridge(target Killable, weaponTag string, log *zap.Logger) *DamageBridge {
	if weaponTag == "" {
		weaponTag = DefaultWeaponTag
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &DamageBridge{target: target, weaponTag: weaponTag, log: log.Named("damage")}
}

// OnContactBegin handles a contact-begin with a collider tagged otherTag.
// It reports whether the contact killed the target.
func (b *DamageBridge) OnContactBegin(otherTag string) bool {
	if b.target == nil || otherTag != b.weaponTag || b.target.IsDead() {
		return false
	}
	b.target.Kill()
	b.log.Debug("weapon hit", zap.String("tag", otherTag))
	return true
}
