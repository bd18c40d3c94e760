// Command simulate runs an arena headless with a scripted touch player and
// logs the agent trace.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"math"
	"os"
	"os/signal"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/milk9111/touchbrawler/common"
	"github.com/milk9111/touchbrawler/obj"
	"github.com/milk9111/touchbrawler/prefabs"
	"github.com/milk9111/touchbrawler/system"
)

const (
	tps        = 60
	traceEvery = tps
)

func main() {
	arena := flag.String("arena", "", "arena spec in prefabs/ (default arena.yaml)")
	frames := flag.Int("frames", 60*tps, "frames to simulate")
	debug := flag.Bool("debug", false, "log at debug level")
	watch := flag.Bool("watch", false, "reload prefabs from disk while running")
	flag.Parse()

	logger, err := zap.NewProduction()
	if *debug {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	world, err := system.LoadWorld(*arena, logger)
	if err != nil {
		logger.Fatal("load world", zap.Error(err))
	}
	defer world.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	reloads := make(chan string, 16)

	if dirs := prefabs.DiskDirs(); *watch && len(dirs) > 0 {
		watcher, err := prefabs.NewWatcher(dirs...)
		if err != nil {
			logger.Fatal("watch prefabs", zap.Error(err))
		}
		defer func() { _ = watcher.Close() }()
		g.Go(func() error {
			return watcher.Forward(ctx, func(path string) {
				select {
				case reloads <- path:
				case <-ctx.Done():
				}
			}, func(err error) {
				logger.Warn("prefab watch error", zap.Error(err))
			})
		})
	}

	g.Go(func() error {
		defer cancel()
		return run(ctx, world, *frames, reloads, logger)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("simulate", zap.Error(err))
	}
}

func run(ctx context.Context, world *system.World, frames int, reloads <-chan string, logger *zap.Logger) error {
	dt := 1.0 / tps
	arena := world.Arena()
	bot := newBot(arena.ScreenWidth, arena.ScreenHeight)
	differ := obj.NewTouchDiffer()

	for frame := 0; frame < frames; frame++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case path := <-reloads:
			if err := world.Reload(path); err != nil {
				logger.Warn("reload failed", zap.String("path", path), zap.Error(err))
			}
		default:
		}

		contacts := differ.Diff(bot.next(world, dt))
		world.Update(dt, contacts)
		world.FixedUpdate(dt)
		world.DrainTriggers(func(agent, trigger string) {
			logger.Debug("trigger", zap.Int("frame", frame), zap.String("agent", agent), zap.String("trigger", trigger))
		})

		if frame%traceEvery == 0 {
			trace(logger, frame, world)
		}
		if alive(world) == 0 {
			logger.Info("all enemies down", zap.Int("frame", frame))
			trace(logger, frame, world)
			return nil
		}
	}
	logger.Info("simulation finished", zap.Int("frames", frames), zap.Int("alive", alive(world)))
	return nil
}

func alive(world *system.World) int {
	n := 0
	for _, e := range world.Enemies {
		if !e.IsDead() {
			n++
		}
	}
	return n
}

func trace(logger *zap.Logger, frame int, world *system.World) {
	fields := []zap.Field{zap.Int("frame", frame)}
	if p := world.Player; p != nil {
		pos := p.Position()
		fields = append(fields,
			zap.Stringer("player_state", p.State()),
			zap.Float64("player_x", pos.X),
			zap.Float64("player_z", pos.Z),
			zap.Float64("player_yaw", p.Yaw()))
	}
	for _, e := range world.Enemies {
		fields = append(fields, zap.Object("enemy", enemyTrace{e}))
	}
	logger.Info("trace", fields...)
}

// Touch ids used by the bot.
const (
	lookFinger = iota + 1
	swipeFinger
)

// bot drives the player with synthetic touches: it drags a look finger to
// face the nearest live enemy and swipes up once the enemy is in reach.
type bot struct {
	screenW, screenH float64
	sensitivity      float64

	look      common.Vec2
	lookDown  bool
	swipe     int
	swipeBase common.Vec2
	cooldown  float64
}

func newBot(screenW, screenH float64) *bot {
	return &bot{screenW: screenW, screenH: screenH}
}

func (b *bot) next(world *system.World, dt float64) map[int]common.Vec2 {
	samples := make(map[int]common.Vec2)
	p := world.Player
	if p == nil {
		return samples
	}
	b.cooldown -= dt
	b.sensitivity = max(p.Gestures().Config().Sensitivity, 1)

	if b.swipe > 0 {
		b.swipeStep(samples)
		return samples
	}

	target, dist, ok := nearestEnemy(world, p.Position())
	if !ok {
		b.lookDown = false
		return samples
	}

	to := target.Sub(p.Position())
	want := common.NormalizeDegrees(math.Atan2(to.X, to.Z) * 180 / math.Pi)
	diff := common.NormalizeDegrees(want-p.Yaw()+180) - 180

	if math.Abs(diff) > 5 {
		b.drag(samples, diff, dt)
		return samples
	}
	b.lookDown = false

	if dist < 2.2 && b.cooldown <= 0 && !p.IsAttacking() {
		b.swipe = 1
		b.swipeBase = common.Vec2{X: b.screenW / 4, Y: b.screenH / 4}
		b.swipeStep(samples)
	}
	return samples
}

// drag moves the look finger far enough to turn diff degrees, capped per
// frame. The finger lifts and re-lands when it reaches the screen edge.
func (b *bot) drag(samples map[int]common.Vec2, diff, dt float64) {
	const maxStep = 60.0
	home := common.Vec2{X: b.screenW * 3 / 4, Y: b.screenH / 2}
	if !b.lookDown {
		b.look = home
		b.lookDown = true
		samples[lookFinger] = b.look
		return
	}
	step := common.Clamp(diff/(b.sensitivity*dt), -maxStep, maxStep)
	next := b.look.Add(common.Vec2{X: step})
	if next.X <= b.screenW/2+1 || next.X >= b.screenW-1 {
		b.lookDown = false
		return
	}
	b.look = next
	samples[lookFinger] = b.look
}

// swipeStep plays a three frame upward swipe on the left half.
func (b *bot) swipeStep(samples map[int]common.Vec2) {
	switch b.swipe {
	case 1:
		samples[swipeFinger] = b.swipeBase
		b.swipe++
	case 2:
		samples[swipeFinger] = b.swipeBase.Add(common.Vec2{Y: 40})
		b.swipe++
	default:
		b.swipe = 0
		b.cooldown = 0.75
	}
}

func nearestEnemy(world *system.World, from common.Vec3) (common.Vec3, float64, bool) {
	best := math.Inf(1)
	var pos common.Vec3
	for _, e := range world.Enemies {
		if e.IsDead() {
			continue
		}
		if d := e.Position().Dist(from); d < best {
			best, pos = d, e.Position()
		}
	}
	return pos, best, !math.IsInf(best, 1)
}
