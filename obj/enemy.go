package obj

import (
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/milk9111/touchbrawler/common"
	"github.com/milk9111/touchbrawler/component"
)

const (
	runAnimSpeed    = 1.0
	walkAnimSpeed   = 0.5
	attackAnimSpeed = 1.5
)

// EnemyState is the enemy behavior state.
type EnemyState int

const (
	EnemyPatrol EnemyState = iota
	EnemyChase
	EnemyAttack
	EnemyDead
)

func (s EnemyState) String() string {
	switch s {
	case EnemyChase:
		return "chase"
	case EnemyAttack:
		return "attack"
	case EnemyDead:
		return "dead"
	default:
		return "patrol"
	}
}

// EnemyConfig tunes an enemy.
type EnemyConfig struct {
	AggroRange     float64
	PatrolInterval time.Duration
	TickInterval   time.Duration
	WalkSpeed      float64
	RunSpeed       float64
	MeleeRange     float64
	// ContinuousAttack re-fires the attack trigger on every frame in melee
	// range instead of only when the attack starts.
	ContinuousAttack bool
	Waypoints        []common.Vec3
}

// DefaultEnemyConfig returns the stock tuning.
func DefaultEnemyConfig() EnemyConfig {
	return EnemyConfig{
		AggroRange:     10,
		PatrolInterval: 10 * time.Second,
		TickInterval:   500 * time.Millisecond,
		WalkSpeed:      0.15,
		RunSpeed:       3,
		MeleeRange:     1.5,
	}
}

// IntNer picks the initial patrol waypoint.
type IntNer interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// EnemyDeps are the collaborators of an Enemy. Nav is required.
type EnemyDeps struct {
	Animator component.Animator
	Nav      component.NavAgent
	Player   PlayerLocator
	Logger   *zap.Logger
	Rand     IntNer
}

// Enemy patrols waypoints, chases the player inside its aggro range and
// attacks in melee range. The expensive decision runs on Tick; Update only
// picks the animation speed and the attack trigger.
type Enemy struct {
	id     string
	cfg    EnemyConfig
	anim   component.Animator
	nav    component.NavAgent
	player PlayerLocator
	log    *zap.Logger

	life  component.Life
	state EnemyState
	goal  EnemyState

	index    int
	distance float64

	warnedNoPlayer bool
	deathFired     bool
}

// NewEnemy creates an enemy at a random waypoint index.
func NewEnemy(id string, cfg EnemyConfig, deps EnemyDeps) (*Enemy, error) {
	if deps.Nav == nil {
		return nil, ErrNilCollaborator
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("enemy").With(zap.String("agent", id))

	e := &Enemy{
		id:     id,
		cfg:    cfg,
		anim:   deps.Animator,
		nav:    deps.Nav,
		player: deps.Player,
		log:    log,
		state:  EnemyPatrol,
		goal:   EnemyPatrol,
	}
	if e.anim == nil {
		log.Warn("no animator attached, animation parameters are dropped")
		e.anim = component.NopAnimator{}
	}

	if n := len(cfg.Waypoints); n > 0 {
		r := deps.Rand
		if r == nil {
			r = globalRand{}
		}
		e.index = r.IntN(n)
	} else {
		log.Warn("enemy has no waypoints, patrol disabled")
	}

	e.life.OnDeath = func(*component.Life) {
		e.state = EnemyDead
		e.nav.SetSpeed(0)
		e.log.Info("enemy died")
	}
	return e, nil
}

func (e *Enemy) ID() string            { return e.id }
func (e *Enemy) Config() EnemyConfig   { return e.cfg }
func (e *Enemy) State() EnemyState     { return e.state }
func (e *Enemy) Index() int            { return e.index }
func (e *Enemy) Distance() float64     { return e.distance }
func (e *Enemy) IsDead() bool          { return e.life.Dead() }
func (e *Enemy) Position() common.Vec3 { return e.nav.Position() }
func (e *Enemy) Goal() EnemyState      { return e.goal }

// Run reports whether the last decision tick chose to chase the player.
func (e *Enemy) Run() bool { return e.goal == EnemyChase }

// Tick refreshes the distance to the player and issues one destination
// command: the player inside aggro range, otherwise the current waypoint.
func (e *Enemy) Tick() {
	if e.life.Dead() {
		return
	}

	playerPos, ok := e.playerPosition()
	if ok {
		e.distance = e.nav.Position().Dist(playerPos)
		if e.distance < e.cfg.AggroRange {
			e.nav.SetDestination(playerPos)
			e.setGoal(EnemyChase)
			return
		}
	}

	if len(e.cfg.Waypoints) > 0 {
		e.nav.SetDestination(e.cfg.Waypoints[e.index])
	}
	e.setGoal(EnemyPatrol)
}

// AdvancePatrol moves to the next waypoint, wrapping at the end.
func (e *Enemy) AdvancePatrol() {
	n := len(e.cfg.Waypoints)
	if n == 0 {
		return
	}
	e.index = (e.index + 1) % n
}

// Update runs the per-frame step. Without a player the enemy keeps
// walking whatever route the last tick chose and never enters melee.
func (e *Enemy) Update() {
	playerPos, ok := e.playerPosition()
	if !ok {
		if !e.warnedNoPlayer {
			e.log.Warn("no player registered, melee disabled")
			e.warnedNoPlayer = true
		}
		e.locomote()
		return
	}
	e.warnedNoPlayer = false
	e.distance = e.nav.Position().Dist(playerPos)

	if e.distance >= e.cfg.MeleeRange {
		e.locomote()
		return
	}

	if e.life.Dead() {
		if !e.deathFired || e.cfg.ContinuousAttack {
			e.anim.SetTrigger(component.TriggerDead)
			e.deathFired = true
		}
		return
	}

	e.anim.SetFloat(component.ParamSpeed, attackAnimSpeed)
	if e.state != EnemyAttack || e.cfg.ContinuousAttack {
		e.anim.SetTrigger(component.TriggerStartAttack)
	}
	e.setState(EnemyAttack)
}

func (e *Enemy) locomote() {
	if e.life.Dead() {
		return
	}
	e.setState(e.goal)
	if e.goal == EnemyChase {
		e.nav.SetSpeed(e.cfg.RunSpeed)
		e.anim.SetFloat(component.ParamSpeed, runAnimSpeed)
	} else {
		e.nav.SetSpeed(e.cfg.WalkSpeed)
		e.anim.SetFloat(component.ParamSpeed, walkAnimSpeed)
	}
}

// ApplyConfig swaps tuning values on a live enemy. The waypoint index is
// wrapped into the new list.
func (e *Enemy) ApplyConfig(cfg EnemyConfig) {
	e.cfg = cfg
	if n := len(cfg.Waypoints); n > 0 {
		e.index %= n
	} else {
		e.index = 0
	}
}

// Kill marks the enemy dead. Later calls are no-ops.
func (e *Enemy) Kill() {
	e.life.Kill()
}

func (e *Enemy) playerPosition() (common.Vec3, bool) {
	if e.player == nil {
		return common.Vec3{}, false
	}
	return e.player.PlayerPosition()
}

func (e *Enemy) setGoal(s EnemyState) {
	if e.goal != s {
		e.log.Debug("goal", zap.Stringer("from", e.goal), zap.Stringer("to", s), zap.Float64("distance", e.distance))
	}
	e.goal = s
}

func (e *Enemy) setState(s EnemyState) {
	if e.state == s || e.state == EnemyDead {
		return
	}
	e.log.Debug("state", zap.Stringer("from", e.state), zap.Stringer("to", s))
	e.state = s
}
