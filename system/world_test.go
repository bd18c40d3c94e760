package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/touchbrawler/common"
	"github.com/milk9111/touchbrawler/component"
	"github.com/milk9111/touchbrawler/obj"
	"github.com/milk9111/touchbrawler/prefabs"
)

const testDT = 1.0 / 60

type fixedRand int

func (r fixedRand) IntN(n int) int { return int(r) % n }

func testWorldConfig(enemies ...prefabs.EnemySpawnSpec) WorldConfig {
	return WorldConfig{
		Arena: prefabs.ArenaSpec{
			Name:        "test",
			Min:         prefabs.Vec3Spec{X: -20, Z: -20},
			Max:         prefabs.Vec3Spec{X: 20, Z: 20},
			PlayerSpawn: prefabs.Vec3Spec{Z: -15},
			Obstacles: []prefabs.ObstacleSpec{
				{Name: "block", Min: prefabs.Vec3Spec{X: -1, Z: -1}, Max: prefabs.Vec3Spec{X: 1, Y: 2, Z: 1}, Layer: "prop"},
			},
			Enemies: enemies,
		},
		Enemy: prefabs.EnemySpec{TickInterval: 0.25},
		Rand:  fixedRand(0),
	}
}

var patrolSpawn = prefabs.EnemySpawnSpec{
	Position:  prefabs.Vec3Spec{X: 10, Z: 10},
	Waypoints: []prefabs.Vec3Spec{{X: 10, Z: 10}, {X: -10, Z: 10}},
}

func TestNewWorld(t *testing.T) {
	w, err := NewWorld(testWorldConfig(patrolSpawn, prefabs.EnemySpawnSpec{Position: prefabs.Vec3Spec{X: -10, Z: -10}}))
	require.NoError(t, err)
	defer w.Close()

	require.NotNil(t, w.Player)
	registered, ok := w.Registry.Player()
	require.True(t, ok)
	assert.Same(t, w.Player.Player, registered)
	assert.Equal(t, common.Vec3{Z: -15}, w.Player.Position())
	assert.False(t, w.Player.Weapon.Enabled())

	require.Len(t, w.Enemies, 2)
	assert.Len(t, w.Enemies[0].Tasks(), 2, "tick and patrol")
	assert.Len(t, w.Enemies[1].Tasks(), 1, "no waypoints, tick only")
	assert.Equal(t, 3, w.Scheduler.Len())
	assert.Len(t, w.Collision.Obstacles(), 1)

	x, z, _ := w.Grid.Cell(common.Vec3{})
	assert.True(t, w.Grid.Blocked(x, z))

	found, ok := w.Enemy(w.Enemies[1].ID())
	require.True(t, ok)
	assert.Same(t, w.Enemies[1], found)
}

func TestNewWorldBadObstacleLayer(t *testing.T) {
	cfg := testWorldConfig()
	cfg.Arena.Obstacles[0].Layer = "lava"
	_, err := NewWorld(cfg)
	assert.ErrorContains(t, err, "lava")
}

func TestWorldSpawnSecondPlayer(t *testing.T) {
	w, err := NewWorld(testWorldConfig())
	require.NoError(t, err)
	defer w.Close()

	_, err = w.SpawnPlayer(common.Vec3{X: 3}, 0)
	assert.ErrorIs(t, err, obj.ErrPlayerExists)
	registered, _ := w.Registry.Player()
	assert.Same(t, w.Player.Player, registered)
}

func TestWorldPatrolSchedule(t *testing.T) {
	w, err := NewWorld(testWorldConfig(patrolSpawn))
	require.NoError(t, err)
	defer w.Close()

	e := w.Enemies[0]
	require.Equal(t, 0, e.Index())

	w.Update(testDT, nil)
	// tick runs before the patrol advance at t=0
	dest, ok := e.Nav.Destination()
	require.True(t, ok)
	assert.Equal(t, common.Vec3{X: 10, Z: 10}, dest)
	assert.Equal(t, 1, e.Index())
	assert.Equal(t, obj.EnemyPatrol, e.State())
	assert.Equal(t, 0.15, e.Nav.Speed())

	for i := 0; i < 15; i++ {
		w.Update(testDT, nil)
	}
	dest, _ = e.Nav.Destination()
	assert.Equal(t, common.Vec3{X: -10, Z: 10}, dest)
}

func TestWorldEnemyChasesPlayer(t *testing.T) {
	spawn := prefabs.EnemySpawnSpec{Position: prefabs.Vec3Spec{X: 5, Z: -15}}
	w, err := NewWorld(testWorldConfig(spawn))
	require.NoError(t, err)
	defer w.Close()

	e := w.Enemies[0]
	w.Update(testDT, nil)
	assert.Equal(t, obj.EnemyChase, e.State())
	assert.Equal(t, 3.0, e.Nav.Speed())

	for i := 0; i < 120; i++ {
		w.Update(testDT, nil)
	}
	assert.Equal(t, obj.EnemyAttack, e.State())
	assert.Less(t, e.Distance(), 1.5)
	assert.Equal(t, 1, e.Animator.TriggerCount(component.TriggerStartAttack))
}

func TestWorldSwordKillsEnemy(t *testing.T) {
	// one unit in front of the player, inside the weapon reach
	spawn := prefabs.EnemySpawnSpec{Position: prefabs.Vec3Spec{Z: -14}}

	cases := []struct {
		name   string
		attack bool
		dead   bool
	}{
		{"swing", true, true},
		{"no_swing", false, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w, err := NewWorld(testWorldConfig(spawn))
			require.NoError(t, err)
			defer w.Close()

			e := w.Enemies[0]
			if c.attack {
				w.Player.Attack()
				require.True(t, w.Player.Swinging())
				require.True(t, w.Player.Weapon.Enabled())
			}
			for i := 0; i < 3; i++ {
				w.Update(testDT, nil)
				w.FixedUpdate(testDT)
			}
			assert.Equal(t, c.dead, e.IsDead())
			if c.dead {
				assert.Equal(t, obj.EnemyDead, e.State())
				assert.Zero(t, e.Nav.Speed())
			}
		})
	}
}

func TestWorldSwingEnds(t *testing.T) {
	w, err := NewWorld(testWorldConfig())
	require.NoError(t, err)
	defer w.Close()

	p := w.Player
	p.Attack()
	require.True(t, p.IsAttacking())

	frames := 0
	for p.Swinging() && frames < 100 {
		w.Update(testDT, nil)
		frames++
	}
	assert.False(t, p.Swinging())
	assert.False(t, p.Weapon.Enabled())
	assert.Equal(t, obj.PlayerIdle, p.State())
	// 0.4s swing at 60 fps
	assert.InDelta(t, 24, frames, 1)
}

func TestWorldSecondAttackRestartsSwing(t *testing.T) {
	w, err := NewWorld(testWorldConfig())
	require.NoError(t, err)
	defer w.Close()

	p := w.Player
	p.Attack()
	for i := 0; i < 12; i++ {
		w.Update(testDT, nil)
	}
	require.True(t, p.Swinging())

	p.Attack()
	assert.Equal(t, 1, w.Scheduler.Len(), "old swing cancelled")

	frames := 0
	for p.Swinging() && frames < 100 {
		w.Update(testDT, nil)
		frames++
	}
	assert.InDelta(t, 24, frames, 1)
	assert.Equal(t, obj.PlayerIdle, p.State())
}

func TestWorldDespawnPlayerCancelsSwing(t *testing.T) {
	w, err := NewWorld(testWorldConfig())
	require.NoError(t, err)

	w.Player.Attack()
	require.Equal(t, 1, w.Scheduler.Len())

	require.True(t, w.Despawn(w.Player.ID()))
	assert.Zero(t, w.Scheduler.Len())
	assert.NotPanics(t, func() { w.Update(testDT, nil) })
}

func TestWorldDrainTriggers(t *testing.T) {
	w, err := NewWorld(testWorldConfig())
	require.NoError(t, err)
	defer w.Close()

	w.Player.Attack()
	w.Update(testDT, nil)

	var got []string
	w.DrainTriggers(func(agent, trigger string) {
		assert.Equal(t, w.Player.ID(), agent)
		got = append(got, trigger)
	})
	assert.Equal(t, []string{component.TriggerStartAttack, component.TriggerStopAttack}, got)

	got = nil
	w.DrainTriggers(func(_, trigger string) { got = append(got, trigger) })
	assert.Empty(t, got)
	assert.NotPanics(t, func() { w.DrainTriggers(nil) })
}

func TestWorldDespawn(t *testing.T) {
	w, err := NewWorld(testWorldConfig(patrolSpawn, patrolSpawn))
	require.NoError(t, err)

	first := w.Enemies[0]
	tasks := first.Tasks()
	require.Len(t, tasks, 2)

	assert.True(t, w.Despawn(first.ID()))
	assert.False(t, w.Despawn(first.ID()))
	for _, task := range tasks {
		assert.True(t, task.Cancelled())
	}
	assert.Equal(t, 2, w.Scheduler.Len())
	_, ok := w.Enemy(first.ID())
	assert.False(t, ok)

	index := first.Index()
	w.Update(time.Second.Seconds(), nil)
	assert.Equal(t, index, first.Index(), "despawned enemy no longer patrols")

	w.Close()
	assert.Nil(t, w.Player)
	assert.Empty(t, w.Enemies)
	assert.Zero(t, w.Scheduler.Len())
	_, ok = w.Registry.Player()
	assert.False(t, ok)
}

func TestWorldTouchDrivesPlayer(t *testing.T) {
	w, err := NewWorld(testWorldConfig())
	require.NoError(t, err)
	defer w.Close()

	differ := obj.NewTouchDiffer()
	start := w.Player.Position()
	w.Update(testDT, differ.Diff(map[int]common.Vec2{1: {X: 200, Y: 100}}))
	for i := 0; i < 30; i++ {
		w.Update(testDT, differ.Diff(map[int]common.Vec2{1: {X: 200, Y: 300}}))
	}
	assert.True(t, w.Player.IsMoving())
	assert.Greater(t, w.Player.Position().Z, start.Z+1)

	w.Update(testDT, differ.Diff(nil))
	assert.False(t, w.Player.IsMoving())
}

func TestWorldReload(t *testing.T) {
	w, err := NewWorld(testWorldConfig(patrolSpawn))
	require.NoError(t, err)
	defer w.Close()

	assert.ErrorIs(t, w.Reload("prefabs/arena.yaml"), ErrRestartRequired)
	assert.ErrorIs(t, w.Reload("prefabs/readme.txt"), prefabs.ErrUnknownSpec)

	e := w.Enemies[0]
	oldTasks := e.Tasks()
	require.NoError(t, w.Reload("prefabs/enemy.yaml"))
	assert.Equal(t, 500*time.Millisecond, e.Config().TickInterval)
	for _, task := range oldTasks {
		assert.True(t, task.Cancelled(), "interval change reschedules")
	}
	assert.Len(t, e.Tasks(), 2)

	require.NoError(t, w.Reload("prefabs/player.yaml"))
	assert.Equal(t, obj.ThirdPerson, w.Player.Mode())

	require.NoError(t, w.Reload("prefabs/scripts/swipe.tengo"))
}

func TestLoadWorldFromPrefabs(t *testing.T) {
	w, err := LoadWorld("", nil)
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, "courtyard", w.Arena().Name)
	require.NotNil(t, w.Player)
	assert.Len(t, w.Enemies, 2)
	assert.Len(t, w.Collision.Obstacles(), 6)
}
