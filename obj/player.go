package obj

import (
	"go.uber.org/zap"

	"github.com/milk9111/touchbrawler/common"
	"github.com/milk9111/touchbrawler/component"
)

const defaultTurnRate = 120.0

// PlayerState is the player's locomotion/combat state.
type PlayerState int

const (
	PlayerIdle PlayerState = iota
	PlayerMoving
	PlayerAttacking
)

func (s PlayerState) String() string {
	switch s {
	case PlayerMoving:
		return "moving"
	case PlayerAttacking:
		return "attacking"
	default:
		return "idle"
	}
}

// PlayerConfig tunes the player controller.
type PlayerConfig struct {
	Mode              ControlMode
	ScreenWidth       float64
	ScreenHeight      float64
	CameraSensitivity float64
	MoveSpeed         float64
	// MoveDeadZoneDivisor sets the dead zone radius to ScreenHeight divided
	// by this value. Zero disables the dead zone.
	MoveDeadZoneDivisor   float64
	SwipeThreshold        float64
	SwipeOnlyAfterRelease bool
	// TurnRate is the swipe-down turn speed in degrees per second.
	TurnRate float64
	Camera   CameraConfig
}

func (c PlayerConfig) gesture() GestureConfig {
	return GestureConfig{
		ScreenWidth:           c.ScreenWidth,
		Sensitivity:           c.CameraSensitivity,
		SwipeThreshold:        c.SwipeThreshold,
		SwipeOnlyAfterRelease: c.SwipeOnlyAfterRelease,
	}
}

// deadZone is squared so it can be compared against squared input length.
func (c PlayerConfig) deadZone() float64 {
	if c.MoveDeadZoneDivisor <= 0 {
		return 0
	}
	r := c.ScreenHeight / c.MoveDeadZoneDivisor
	return r * r
}

// SwipeBinder maps a swipe to a named player action.
type SwipeBinder interface {
	ActionFor(dir SwipeDirection) (string, error)
}

// Player action names a SwipeBinder may return.
const (
	ActionNone   = ""
	ActionAttack = "attack"
)

// PlayerDeps are the collaborators of a Player. Only Registry is required
// to make the player discoverable; missing collaborators disable the
// subsystem that needs them.
type PlayerDeps struct {
	Animator  component.Animator
	Mover     component.CharacterMover
	Raycaster component.Raycaster
	Registry  *PlayerRegistry
	Swipes    SwipeBinder
	Logger    *zap.Logger
}

// Player turns touch gestures into locomotion, camera orientation and
// animation parameters.
type Player struct {
	id       string
	cfg      PlayerConfig
	deadZone float64

	anim     component.Animator
	mover    component.CharacterMover
	registry *PlayerRegistry
	swipes   SwipeBinder
	log      *zap.Logger

	gestures *GestureTracker
	camera   *CameraRig

	position    common.Vec3
	yaw         float64
	graphicsYaw float64
	state       PlayerState

	turning    bool
	rotateTill float64
	// turnLeft is the sweep still owed to the turn; turnYaw is the yaw the
	// last turn step left behind, so look input in between is counted.
	turnLeft float64
	turnYaw  float64
}

// NewPlayer creates a player and registers it. If another player is already
// registered it returns ErrPlayerExists and the registered player is kept.
func NewPlayer(id string, spawn common.Vec3, yaw float64, cfg PlayerConfig, deps PlayerDeps) (*Player, error) {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("player").With(zap.String("agent", id))

	if cfg.TurnRate <= 0 {
		cfg.TurnRate = defaultTurnRate
	}

	p := &Player{
		id:       id,
		cfg:      cfg,
		deadZone: cfg.deadZone(),
		anim:     deps.Animator,
		mover:    deps.Mover,
		registry: deps.Registry,
		swipes:   deps.Swipes,
		log:      log,
		gestures: NewGestureTracker(cfg.gesture(), log),
		camera:   NewCameraRig(cfg.Mode, cfg.Camera, deps.Raycaster),
		position: spawn,
		yaw:      common.NormalizeDegrees(yaw),
	}

	if p.anim == nil {
		log.Warn("no animator attached, animation parameters are dropped")
		p.anim = component.NopAnimator{}
	}
	if p.mover == nil {
		log.Warn("no character mover attached, locomotion disabled")
	}
	if deps.Raycaster == nil && cfg.Mode == ThirdPerson {
		log.Warn("no raycaster attached, camera collision disabled")
	}

	if p.registry != nil {
		if err := p.registry.Register(p); err != nil {
			return nil, err
		}
	}

	p.camera.Place(p.position, p.yaw)
	log.Info("player spawned", zap.Stringer("mode", cfg.Mode))
	return p, nil
}

func (p *Player) ID() string                { return p.id }
func (p *Player) Position() common.Vec3     { return p.position }
func (p *Player) Yaw() float64              { return p.yaw }
func (p *Player) GraphicsYaw() float64      { return p.graphicsYaw }
func (p *Player) State() PlayerState        { return p.state }
func (p *Player) IsMoving() bool            { return p.state == PlayerMoving }
func (p *Player) IsAttacking() bool         { return p.state == PlayerAttacking }
func (p *Player) Mode() ControlMode         { return p.cfg.Mode }
func (p *Player) Camera() *CameraRig        { return p.camera }
func (p *Player) Gestures() *GestureTracker { return p.gestures }

// Turning reports whether a swipe-down turn is in progress and its target.
func (p *Player) Turning() (bool, float64) { return p.turning, p.rotateTill }

// ApplyConfig swaps tuning values on a live player. The control mode is
// fixed at construction and is not changed.
func (p *Player) ApplyConfig(cfg PlayerConfig) {
	if cfg.Mode != p.cfg.Mode {
		p.log.Warn("control mode cannot change after spawn", zap.Stringer("requested", cfg.Mode))
		cfg.Mode = p.cfg.Mode
	}
	if cfg.TurnRate <= 0 {
		cfg.TurnRate = defaultTurnRate
	}
	p.cfg = cfg
	p.deadZone = cfg.deadZone()
	p.gestures.cfg = cfg.gesture()
	p.gestures.halfScreenWidth = cfg.ScreenWidth / 2
	p.camera.cfg = cfg.Camera
}

// SetSwipeBinder replaces the swipe action bindings. nil disables them.
func (p *Player) SetSwipeBinder(b SwipeBinder) {
	p.swipes = b
}

// Update runs the per-frame controller step.
func (p *Player) Update(contacts []component.TouchContact, dt float64) {
	frame := p.gestures.Update(contacts, dt)

	if frame.MoveReleased && p.state == PlayerMoving {
		p.setState(PlayerIdle)
	}
	if frame.Swipe != SwipeNone {
		p.onSwipe(frame.Swipe)
	}
	if frame.LookBound {
		p.lookAround(frame.LookDelta)
	}
	if frame.MoveBound {
		p.move(frame.MoveOffset, dt)
	}

	speed := 0.0
	if p.state == PlayerMoving {
		speed = 1
	}
	p.anim.SetFloat(component.ParamSpeed, speed)

	p.turn(dt)
}

// FixedUpdate places the third person camera. It runs once per physics step.
func (p *Player) FixedUpdate() {
	if p.cfg.Mode != ThirdPerson {
		return
	}
	p.camera.Place(p.position, p.yaw)
}

// Attack fires the attack animation. How long the swing lasts is up to the
// animator, which reports back through EndAttack. The player holds still and
// stays Attacking until then.
func (p *Player) Attack() {
	p.setState(PlayerAttacking)
	p.anim.SetTrigger(component.TriggerStartAttack)
	p.anim.SetTrigger(component.TriggerStopAttack)
}

// EndAttack returns an attacking player to idle.
func (p *Player) EndAttack() {
	if p.state == PlayerAttacking {
		p.setState(PlayerIdle)
	}
}

// ResetInput drops both finger bindings.
func (p *Player) ResetInput() {
	p.gestures.Reset()
	if p.state == PlayerMoving {
		p.setState(PlayerIdle)
	}
}

// Destroy removes the player from the registry.
func (p *Player) Destroy() {
	if p.registry != nil {
		p.registry.Unregister(p)
	}
	p.log.Info("player destroyed")
}

func (p *Player) setState(s PlayerState) {
	if p.state == s {
		return
	}
	p.log.Debug("state", zap.Stringer("from", p.state), zap.Stringer("to", s))
	p.state = s
}

func (p *Player) onSwipe(dir SwipeDirection) {
	if dir == SwipeDown {
		p.startTurn()
	}

	if p.swipes == nil {
		return
	}
	action, err := p.swipes.ActionFor(dir)
	if err != nil {
		p.log.Warn("swipe binding failed", zap.Stringer("direction", dir), zap.Error(err))
		return
	}
	switch action {
	case ActionNone:
	case ActionAttack:
		p.Attack()
	default:
		p.log.Warn("unknown swipe action", zap.String("action", action))
	}
}

func (p *Player) startTurn() {
	p.rotateTill = toggleYawTarget(p.yaw)
	p.turnLeft = common.NormalizeDegrees(p.rotateTill - p.yaw)
	p.turnYaw = p.yaw
	p.turning = true
	p.log.Debug("turn started", zap.Float64("from", p.yaw), zap.Float64("to", p.rotateTill))
}

// toggleYawTarget faces the agent around: 180 when facing 0, otherwise 0.
func toggleYawTarget(yaw float64) float64 {
	if common.ApproxEqual(common.NormalizeDegrees(yaw), 0) {
		return 180
	}
	return 0
}

func (p *Player) lookAround(delta common.Vec2) {
	p.camera.AddPitch(delta.Y)

	// keep the body still on screen while the camera orbits a standing player
	if p.cfg.Mode == ThirdPerson && p.state != PlayerMoving {
		p.graphicsYaw = common.NormalizeDegrees(p.graphicsYaw - delta.X)
	}
	p.yaw = common.NormalizeDegrees(p.yaw + delta.X)
}

func (p *Player) move(offset common.Vec2, dt float64) {
	if p.state == PlayerAttacking {
		return
	}
	if p.turning || offset.LenSq() <= p.deadZone {
		if p.state == PlayerMoving {
			p.setState(PlayerIdle)
		}
		return
	}

	if p.state != PlayerMoving {
		p.graphicsYaw = 0
		p.setState(PlayerMoving)
	}

	if p.mover == nil {
		return
	}
	dir := offset.Normalized().Scale(p.cfg.MoveSpeed * dt)
	delta := common.YawRight(p.yaw).Scale(dir.X).Add(common.YawForward(p.yaw).Scale(dir.Y))
	p.position = p.mover.Move(p.position, delta)
}

func (p *Player) turn(dt float64) {
	if !p.turning {
		return
	}
	drift := common.NormalizeDegrees(p.yaw-p.turnYaw+180) - 180
	p.turnLeft -= drift
	if p.turnLeft < 0 && !common.ApproxEqual(p.turnLeft, 0) {
		// looked past the target, the turn is over where the camera left it
		p.turning = false
		p.log.Debug("turn overrun", zap.Float64("yaw", p.yaw))
		return
	}

	step := p.cfg.TurnRate * dt
	if p.turnLeft <= step || common.ApproxEqual(p.turnLeft, 0) {
		p.yaw = common.NormalizeDegrees(p.rotateTill)
		p.turning = false
		p.log.Debug("turn finished", zap.Float64("yaw", p.yaw))
		return
	}
	p.yaw = common.NormalizeDegrees(p.yaw + step)
	p.turnLeft -= step
	p.turnYaw = p.yaw
}
