package obj

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/touchbrawler/common"
	"github.com/milk9111/touchbrawler/component"
)

type fakeNav struct {
	pos          common.Vec3
	speed        float64
	destinations []common.Vec3
}

func (n *fakeNav) SetDestination(p common.Vec3) { n.destinations = append(n.destinations, p) }
func (n *fakeNav) SetSpeed(speed float64)       { n.speed = speed }
func (n *fakeNav) Position() common.Vec3        { return n.pos }

func (n *fakeNav) last() common.Vec3 {
	if len(n.destinations) == 0 {
		return common.Vec3{}
	}
	return n.destinations[len(n.destinations)-1]
}

type fakeLocator struct {
	pos common.Vec3
	ok  bool
}

func (l *fakeLocator) PlayerPosition() (common.Vec3, bool) { return l.pos, l.ok }

type fixedRand int

func (r fixedRand) IntN(n int) int { return int(r) % n }

var testWaypoints = []common.Vec3{{X: 0, Z: 20}, {X: 20, Z: 20}, {X: 20, Z: 0}}

func newTestEnemy(t *testing.T, cfg EnemyConfig, player PlayerLocator) (*Enemy, *fakeNav, *component.ParamAnimator) {
	t.Helper()
	nav := &fakeNav{}
	anim := component.NewParamAnimator()
	e, err := NewEnemy("e1", cfg, EnemyDeps{Animator: anim, Nav: nav, Player: player, Rand: fixedRand(1)})
	require.NoError(t, err)
	return e, nav, anim
}

func testEnemyConfig() EnemyConfig {
	cfg := DefaultEnemyConfig()
	cfg.Waypoints = testWaypoints
	return cfg
}

func TestNewEnemyRequiresNav(t *testing.T) {
	_, err := NewEnemy("e1", testEnemyConfig(), EnemyDeps{})
	assert.ErrorIs(t, err, ErrNilCollaborator)
}

func TestEnemyTickAggro(t *testing.T) {
	cases := []struct {
		name     string
		distance float64
		goal     EnemyState
	}{
		{"inside", 9, EnemyChase},
		{"at_range", 10, EnemyPatrol},
		{"outside", 11, EnemyPatrol},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			player := &fakeLocator{pos: common.Vec3{X: c.distance}, ok: true}
			e, nav, _ := newTestEnemy(t, testEnemyConfig(), player)

			e.Tick()
			require.Len(t, nav.destinations, 1)
			assert.Equal(t, c.goal, e.Goal())
			assert.Equal(t, c.goal == EnemyChase, e.Run())
			assert.InDelta(t, c.distance, e.Distance(), 1e-9)
			if c.goal == EnemyChase {
				assert.Equal(t, player.pos, nav.last())
			} else {
				assert.Equal(t, testWaypoints[1], nav.last())
			}
		})
	}
}

func TestEnemyTickWithoutPlayerPatrols(t *testing.T) {
	e, nav, _ := newTestEnemy(t, testEnemyConfig(), nil)
	e.Tick()
	assert.Equal(t, testWaypoints[1], nav.last())
	assert.Equal(t, EnemyPatrol, e.Goal())
}

func TestEnemyAdvancePatrolWraps(t *testing.T) {
	e, _, _ := newTestEnemy(t, testEnemyConfig(), nil)
	require.Equal(t, 1, e.Index())

	var got []int
	for i := 0; i < 4; i++ {
		e.AdvancePatrol()
		got = append(got, e.Index())
	}
	assert.Equal(t, []int{2, 0, 1, 2}, got)
}

func TestEnemyWithoutWaypoints(t *testing.T) {
	e, nav, _ := newTestEnemy(t, DefaultEnemyConfig(), nil)
	e.AdvancePatrol()
	e.Tick()
	assert.Equal(t, 0, e.Index())
	assert.Empty(t, nav.destinations)
}

func TestEnemyUpdateSpeeds(t *testing.T) {
	cases := []struct {
		name      string
		distance  float64
		state     EnemyState
		navSpeed  float64
		animSpeed float64
	}{
		{"patrol_walks", 12, EnemyPatrol, 0.15, walkAnimSpeed},
		{"chase_runs", 5, EnemyChase, 3, runAnimSpeed},
		{"melee_attacks", 1, EnemyAttack, 0, attackAnimSpeed},
		{"melee_edge_chases", 1.5, EnemyChase, 3, runAnimSpeed},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			player := &fakeLocator{pos: common.Vec3{Z: c.distance}, ok: true}
			e, nav, anim := newTestEnemy(t, testEnemyConfig(), player)

			e.Tick()
			e.Update()
			assert.Equal(t, c.state, e.State())
			assert.Equal(t, c.navSpeed, nav.speed)
			speed, ok := anim.Float(component.ParamSpeed)
			require.True(t, ok)
			assert.Equal(t, c.animSpeed, speed)
		})
	}
}

func TestEnemyAttackTrigger(t *testing.T) {
	cases := []struct {
		name       string
		continuous bool
		want       int
	}{
		{"edge_triggered", false, 1},
		{"continuous", true, 3},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := testEnemyConfig()
			cfg.ContinuousAttack = c.continuous
			player := &fakeLocator{pos: common.Vec3{X: 1}, ok: true}
			e, _, anim := newTestEnemy(t, cfg, player)

			e.Tick()
			for i := 0; i < 3; i++ {
				e.Update()
			}
			assert.Equal(t, c.want, anim.TriggerCount(component.TriggerStartAttack))

			// leaving melee range and coming back starts a new attack
			player.pos = common.Vec3{X: 5}
			e.Update()
			assert.Equal(t, EnemyChase, e.State())
			player.pos = common.Vec3{X: 1}
			e.Update()
			assert.Equal(t, c.want+1, anim.TriggerCount(component.TriggerStartAttack))
		})
	}
}

func TestEnemyDeath(t *testing.T) {
	player := &fakeLocator{pos: common.Vec3{X: 1}, ok: true}
	e, nav, anim := newTestEnemy(t, testEnemyConfig(), player)

	e.Tick()
	e.Update()
	require.Equal(t, EnemyAttack, e.State())
	require.False(t, e.IsDead())

	e.Kill()
	assert.True(t, e.IsDead())
	assert.Equal(t, EnemyDead, e.State())
	assert.Zero(t, nav.speed)

	e.Kill()
	assert.True(t, e.IsDead())

	for i := 0; i < 3; i++ {
		e.Update()
	}
	assert.Equal(t, 1, anim.TriggerCount(component.TriggerDead))
	assert.Equal(t, 1, anim.TriggerCount(component.TriggerStartAttack))

	// a dead enemy neither plans nor moves
	dests := len(nav.destinations)
	e.Tick()
	player.pos = common.Vec3{X: 5}
	e.Update()
	assert.Len(t, nav.destinations, dests)
	assert.Zero(t, nav.speed)
	assert.Equal(t, EnemyDead, e.State())
	assert.True(t, e.IsDead())
}

func TestEnemyDeathContinuous(t *testing.T) {
	cfg := testEnemyConfig()
	cfg.ContinuousAttack = true
	player := &fakeLocator{pos: common.Vec3{X: 1}, ok: true}
	e, _, anim := newTestEnemy(t, cfg, player)

	e.Kill()
	for i := 0; i < 3; i++ {
		e.Update()
	}
	assert.Equal(t, 3, anim.TriggerCount(component.TriggerDead))
}

func TestEnemyMissingPlayer(t *testing.T) {
	player := &fakeLocator{}
	e, nav, anim := newTestEnemy(t, testEnemyConfig(), player)

	assert.NotPanics(t, func() {
		e.Tick()
		e.Update()
		e.Update()
	})
	assert.Equal(t, EnemyPatrol, e.State())
	assert.Equal(t, testWaypoints[1], nav.last())
	assert.Equal(t, 0.15, nav.speed)
	speed, ok := anim.Float(component.ParamSpeed)
	require.True(t, ok)
	assert.Equal(t, walkAnimSpeed, speed)

	player.pos, player.ok = common.Vec3{X: 3}, true
	e.Tick()
	e.Update()
	assert.Equal(t, EnemyChase, e.State())
}

func TestEnemyPlayerGoneMidChase(t *testing.T) {
	player := &fakeLocator{pos: common.Vec3{X: 5}, ok: true}
	e, nav, anim := newTestEnemy(t, testEnemyConfig(), player)

	e.Tick()
	e.Update()
	require.Equal(t, EnemyChase, e.State())
	require.Equal(t, 3.0, nav.speed)

	player.ok = false
	e.Tick()
	e.Update()

	assert.False(t, e.Run())
	assert.Equal(t, EnemyPatrol, e.Goal())
	assert.Equal(t, EnemyPatrol, e.State())
	assert.Equal(t, testWaypoints[1], nav.last())
	assert.Equal(t, 0.15, nav.speed)
	speed, _ := anim.Float(component.ParamSpeed)
	assert.Equal(t, walkAnimSpeed, speed)
	assert.Zero(t, anim.TriggerCount(component.TriggerStartAttack))
}

func TestEnemyApplyConfigWrapsIndex(t *testing.T) {
	e, _, _ := newTestEnemy(t, testEnemyConfig(), nil)
	e.AdvancePatrol()
	require.Equal(t, 2, e.Index())

	cfg := testEnemyConfig()
	cfg.Waypoints = testWaypoints[:2]
	e.ApplyConfig(cfg)
	assert.Equal(t, 0, e.Index())

	cfg.Waypoints = nil
	e.ApplyConfig(cfg)
	assert.Equal(t, 0, e.Index())
}
