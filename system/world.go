package system

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/milk9111/touchbrawler/common"
	"github.com/milk9111/touchbrawler/component"
	"github.com/milk9111/touchbrawler/obj"
	"github.com/milk9111/touchbrawler/prefabs"
)

// navBlockers are the obstacle layers enemies path around.
const navBlockers = component.LayerDefault | component.LayerWall | component.LayerProp

// PlayerAgent is the spawned player with the pieces the world drives for it.
type PlayerAgent struct {
	*obj.Player
	Animator *component.ParamAnimator
	Weapon   *obj.Collider

	weaponSpec prefabs.WeaponSpec
	swing      *Task
}

// Swinging reports whether the weapon is currently active.
func (a *PlayerAgent) Swinging() bool { return !a.swing.Cancelled() }

func (a *PlayerAgent) endSwing() {
	a.swing.Cancel()
	a.swing = nil
	a.Weapon.SetEnabled(false)
	a.EndAttack()
}

// EnemyAgent is a spawned enemy with its collaborators and periodic tasks.
type EnemyAgent struct {
	*obj.Enemy
	Animator *component.ParamAnimator
	Nav      *component.GridNav
	Hitbox   *obj.Collider
	Damage   *obj.DamageBridge

	spawn prefabs.EnemySpawnSpec
	tasks []*Task
}

// Tasks returns the periodic tasks registered for the enemy.
func (a *EnemyAgent) Tasks() []*Task { return a.tasks }

func (a *EnemyAgent) cancelTasks() {
	for _, t := range a.tasks {
		t.Cancel()
	}
	a.tasks = nil
}

// WorldConfig describes what a World spawns.
type WorldConfig struct {
	Arena  prefabs.ArenaSpec
	Player prefabs.PlayerSpec
	Enemy  prefabs.EnemySpec
	// Swipes binds swipe gestures to player actions. nil disables them.
	Swipes obj.SwipeBinder
	Rand   obj.IntNer
	Logger *zap.Logger
}

// World owns the arena: collision, navigation grid, scheduler, the player
// registry and every spawned agent.
type World struct {
	Registry  *obj.PlayerRegistry
	Collision *obj.CollisionWorld
	Scheduler *Scheduler
	Grid      *component.Grid
	Player    *PlayerAgent
	Enemies   []*EnemyAgent

	cfg WorldConfig
	log *zap.Logger
}

// LoadWorld reads the prefab specs and swipe script and builds a world for
// the named arena file.
func LoadWorld(arena string, log *zap.Logger) (*World, error) {
	arenaSpec, err := prefabs.LoadArenaSpec(arena)
	if err != nil {
		return nil, err
	}
	playerSpec, err := prefabs.LoadPlayerSpec()
	if err != nil {
		return nil, err
	}
	enemySpec, err := prefabs.LoadEnemySpec()
	if err != nil {
		return nil, err
	}
	swipes, err := loadSwipeScript(playerSpec.SwipeScript)
	if err != nil {
		return nil, err
	}
	return NewWorld(WorldConfig{
		Arena:  arenaSpec,
		Player: playerSpec,
		Enemy:  enemySpec,
		Swipes: swipes,
		Logger: log,
	})
}

func loadSwipeScript(name string) (obj.SwipeBinder, error) {
	if name == "" {
		return nil, nil
	}
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("system: load swipe script %s: %w", name, err)
	}
	script, err := obj.NewSwipeScript(name, src)
	if err != nil {
		return nil, err
	}
	return script, nil
}

// NewWorld builds the arena and spawns the player and every enemy.
func NewWorld(cfg WorldConfig) (*World, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	cfg.Arena = cfg.Arena.WithDefaults()
	cfg.Player = cfg.Player.WithDefaults()
	cfg.Enemy = cfg.Enemy.WithDefaults()
	w := &World{
		Registry:  obj.NewPlayerRegistry(),
		Collision: obj.NewCollisionWorld(log),
		Scheduler: NewScheduler(),
		cfg:       cfg,
		log:       log.Named("world"),
	}

	w.Collision.CharacterRadius = cfg.Player.Radius
	w.Collision.CharacterHeight = cfg.Player.Height
	w.Collision.MoveMask = navBlockers
	for _, o := range cfg.Arena.Obstacles {
		ob, err := o.Obstacle()
		if err != nil {
			return nil, err
		}
		w.Collision.AddObstacle(ob)
	}
	a := cfg.Arena
	w.Grid = w.Collision.BuildGrid(a.Min.X, a.Min.Z, a.Max.X, a.Max.Z, cfg.Enemy.NavCellSize, navBlockers)

	if _, err := w.SpawnPlayer(a.PlayerSpawn.Vec3(), a.PlayerYaw); err != nil {
		return nil, err
	}
	for _, spawn := range a.Enemies {
		if _, err := w.SpawnEnemy(spawn); err != nil {
			return nil, err
		}
	}
	w.log.Info("arena loaded",
		zap.String("arena", a.Name),
		zap.Int("obstacles", len(a.Obstacles)),
		zap.Int("enemies", len(w.Enemies)))
	return w, nil
}

// SpawnPlayer creates the player. It fails with obj.ErrPlayerExists if a
// player is already spawned.
func (w *World) SpawnPlayer(pos common.Vec3, yaw float64) (*PlayerAgent, error) {
	pcfg, err := w.cfg.Player.PlayerConfig(w.cfg.Arena.ScreenWidth, w.cfg.Arena.ScreenHeight)
	if err != nil {
		return nil, err
	}
	anim := component.NewParamAnimator()
	p, err := obj.NewPlayer(uuid.NewString(), pos, yaw, pcfg, obj.PlayerDeps{
		Animator:  anim,
		Mover:     w.Collision,
		Raycaster: w.Collision,
		Registry:  w.Registry,
		Swipes:    w.cfg.Swipes,
		Logger:    w.log,
	})
	if err != nil {
		return nil, err
	}

	agent := &PlayerAgent{Player: p, Animator: anim, weaponSpec: w.cfg.Player.Weapon}
	agent.Weapon = w.Collision.AddWeapon(agent.weaponSpec.Tag, pos, agent.weaponSpec.Radius)
	agent.Weapon.SetEnabled(false)
	anim.Handlers = append(anim.Handlers, func(_ *component.ParamAnimator, trigger string) {
		if trigger != component.TriggerStartAttack {
			return
		}
		agent.swing.Cancel()
		agent.Weapon.SetEnabled(true)
		agent.swing = w.Scheduler.After(seconds(agent.weaponSpec.SwingTime), agent.endSwing)
	})
	w.Player = agent
	return agent, nil
}

// SpawnEnemy creates an enemy at spawn and registers its tick and patrol
// tasks.
func (w *World) SpawnEnemy(spawn prefabs.EnemySpawnSpec) (*EnemyAgent, error) {
	ecfg := w.cfg.Enemy.EnemyConfig(spawn)
	anim := component.NewParamAnimator()
	nav := component.NewGridNav(w.Grid, spawn.Position.Vec3())
	id := uuid.NewString()

	e, err := obj.NewEnemy(id, ecfg, obj.EnemyDeps{
		Animator: anim,
		Nav:      nav,
		Player:   w.Registry,
		Logger:   w.log,
		Rand:     w.cfg.Rand,
	})
	if err != nil {
		return nil, err
	}

	agent := &EnemyAgent{Enemy: e, Animator: anim, Nav: nav, spawn: spawn}
	agent.Damage = obj.NewDamageBridge(e, w.cfg.Enemy.WeaponTag, w.log.With(zap.String("agent", id)))
	agent.Hitbox = w.Collision.AddHitbox(id, nav.Position(), w.cfg.Enemy.HitboxRadius, func(otherTag string) {
		agent.Damage.OnContactBegin(otherTag)
	})
	w.schedule(agent)
	w.Enemies = append(w.Enemies, agent)
	return agent, nil
}

func (w *World) schedule(a *EnemyAgent) {
	cfg := a.Config()
	a.tasks = append(a.tasks, w.Scheduler.Every(0, cfg.TickInterval, a.Tick))
	if len(cfg.Waypoints) > 0 {
		a.tasks = append(a.tasks, w.Scheduler.Every(0, cfg.PatrolInterval, a.AdvancePatrol))
	}
}

// Arena returns the arena spec the world was built from.
func (w *World) Arena() prefabs.ArenaSpec { return w.cfg.Arena }

// Enemy finds a spawned enemy by id.
func (w *World) Enemy(id string) (*EnemyAgent, bool) {
	for _, e := range w.Enemies {
		if e.ID() == id {
			return e, true
		}
	}
	return nil, false
}

// Despawn removes an agent by id, cancelling its periodic tasks and taking
// its colliders out of the collision world.
func (w *World) Despawn(id string) bool {
	if w.Player != nil && w.Player.ID() == id {
		w.Player.swing.Cancel()
		w.Player.Weapon.Remove()
		w.Player.Destroy()
		w.Player = nil
		return true
	}
	i := slices.IndexFunc(w.Enemies, func(e *EnemyAgent) bool { return e.ID() == id })
	if i < 0 {
		return false
	}
	e := w.Enemies[i]
	e.cancelTasks()
	e.Hitbox.Remove()
	w.Enemies = slices.Delete(w.Enemies, i, i+1)
	w.log.Info("enemy despawned", zap.String("agent", id))
	return true
}

// Close despawns every agent.
func (w *World) Close() {
	for len(w.Enemies) > 0 {
		w.Despawn(w.Enemies[0].ID())
	}
	if w.Player != nil {
		w.Despawn(w.Player.ID())
	}
}

// Update runs one frame: due periodic tasks first, then the player, then
// every enemy. dt is in seconds.
func (w *World) Update(dt float64, contacts []component.TouchContact) {
	w.Scheduler.Advance(seconds(dt))

	if p := w.Player; p != nil {
		p.Update(contacts, dt)
		p.Weapon.SetPosition(p.Position().Add(common.YawForward(p.Yaw()).Scale(p.weaponSpec.Reach)))
	}

	for _, e := range w.Enemies {
		e.Update()
		e.Nav.Update(dt)
		e.Hitbox.SetPosition(e.Nav.Position())
	}
}

// DrainTriggers hands every animation trigger fired since the last call to
// fn, player first. fn may be nil when nothing renders the triggers.
func (w *World) DrainTriggers(fn func(agent, trigger string)) {
	drain := func(id string, anim *component.ParamAnimator) {
		for _, trigger := range anim.ConsumeTriggers() {
			if fn != nil {
				fn(id, trigger)
			}
		}
	}
	if p := w.Player; p != nil {
		drain(p.ID(), p.Animator)
	}
	for _, e := range w.Enemies {
		drain(e.ID(), e.Animator)
	}
}

// FixedUpdate runs one physics step: camera placement, then the collision
// step that delivers weapon contacts.
func (w *World) FixedUpdate(dt float64) {
	if w.Player != nil {
		w.Player.FixedUpdate()
	}
	w.Collision.Step(dt)
}

// Reload re-applies a changed prefab file to the live agents. Arena changes
// need a restart and are reported as such.
func (w *World) Reload(path string) error {
	kind, err := prefabs.KindOf(path)
	if err != nil {
		return err
	}

	switch kind {
	case prefabs.KindPlayer:
		spec, err := prefabs.LoadPlayerSpec()
		if err != nil {
			return err
		}
		w.cfg.Player = spec
		if w.Player == nil {
			return nil
		}
		pcfg, err := spec.PlayerConfig(w.cfg.Arena.ScreenWidth, w.cfg.Arena.ScreenHeight)
		if err != nil {
			return err
		}
		w.Player.ApplyConfig(pcfg)
		w.Player.weaponSpec = spec.Weapon
	case prefabs.KindEnemy:
		spec, err := prefabs.LoadEnemySpec()
		if err != nil {
			return err
		}
		w.cfg.Enemy = spec
		for _, e := range w.Enemies {
			old := e.Config()
			e.ApplyConfig(spec.EnemyConfig(e.spawn))
			if old.TickInterval != e.Config().TickInterval || old.PatrolInterval != e.Config().PatrolInterval {
				e.cancelTasks()
				w.schedule(e)
			}
		}
	case prefabs.KindScript:
		swipes, err := loadSwipeScript(w.cfg.Player.SwipeScript)
		if err != nil {
			return err
		}
		w.cfg.Swipes = swipes
		if w.Player != nil {
			w.Player.SetSwipeBinder(swipes)
		}
	case prefabs.KindArena:
		return ErrRestartRequired
	}
	w.log.Info("prefab reloaded", zap.String("path", path))
	return nil
}

var ErrRestartRequired = errors.New("system: arena changes apply on restart")

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
