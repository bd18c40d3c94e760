package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"

	"github.com/milk9111/touchbrawler/common"
	"github.com/milk9111/touchbrawler/obj"
	"github.com/milk9111/touchbrawler/system"
)

// pixelsPerUnit scales the top-down debug view.
const pixelsPerUnit = 12

type Game struct {
	frames int
	debug  bool

	world  *system.World
	input  *TouchInput
	log    *zap.Logger
	screen common.Vec2

	reloads <-chan string
}

func NewGame(world *system.World, screenW, screenH float64, emulate, debug bool, reloads <-chan string, log *zap.Logger) *Game {
	input := NewTouchInput(screenW, screenH)
	input.EmulateMouse = emulate
	input.EmulateKeys = emulate
	return &Game{
		debug:   debug,
		world:   world,
		input:   input,
		log:     log,
		screen:  common.Vec2{X: screenW, Y: screenH},
		reloads: reloads,
	}
}

func (g *Game) Update() error {
	g.frames++
	dt := 1 / float64(ebiten.TPS())

	g.drainReloads()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.input.Reset()
		if g.world.Player != nil {
			g.world.Player.ResetInput()
		}
	}

	g.input.Update()
	g.world.Update(dt, g.input.Contacts())
	g.world.FixedUpdate(dt)
	g.world.DrainTriggers(nil)
	return nil
}

func (g *Game) drainReloads() {
	for {
		select {
		case path, ok := <-g.reloads:
			if !ok {
				g.reloads = nil
				return
			}
			if err := g.world.Reload(path); err != nil {
				g.log.Warn("reload failed", zap.String("path", path), zap.Error(err))
			}
		default:
			return
		}
	}
}

// toScreen maps a ground-plane position to the top-down view. +Z is up on
// screen.
func (g *Game) toScreen(p common.Vec3) (float32, float32) {
	x := g.screen.X/2 + p.X*pixelsPerUnit
	y := g.screen.Y/2 - p.Z*pixelsPerUnit
	return float32(x), float32(y)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Darkslategray)

	for _, o := range g.world.Collision.Obstacles() {
		x0, y0 := g.toScreen(common.Vec3{X: o.MinX, Z: o.MaxZ})
		x1, y1 := g.toScreen(common.Vec3{X: o.MaxX, Z: o.MinZ})
		vector.FillRect(screen, x0, y0, x1-x0, y1-y0, colornames.Dimgray, false)
	}

	for _, e := range g.world.Enemies {
		g.drawEnemy(screen, e)
	}
	if p := g.world.Player; p != nil {
		g.drawPlayer(screen, p)
	}

	if g.debug {
		g.world.Collision.DebugDraw(&collisionDrawer{screen: screen, project: g.toScreen, scale: pixelsPerUnit})
	}

	msg := fmt.Sprintf("Frames: %d    FPS: %.2f", g.frames, ebiten.ActualFPS())
	if g.debug {
		msg += g.debugText()
	}
	ebitenutil.DebugPrint(screen, msg)
}

func (g *Game) drawPlayer(screen *ebiten.Image, p *system.PlayerAgent) {
	x, y := g.toScreen(p.Position())
	vector.FillCircle(screen, x, y, 0.4*pixelsPerUnit, colornames.Lightskyblue, true)

	fx, fy := g.toScreen(p.Position().Add(common.YawForward(p.Yaw())))
	vector.StrokeLine(screen, x, y, fx, fy, 2, colornames.White, true)

	if p.Mode() == obj.ThirdPerson {
		cx, cy := g.toScreen(p.Camera().Position())
		clr := colornames.Lightgrey
		if p.Camera().PulledIn() {
			clr = colornames.Orange
		}
		vector.StrokeLine(screen, x, y, cx, cy, 1, clr, true)
	}

	if p.Swinging() {
		wx, wy := g.toScreen(p.Weapon.Position())
		vector.FillCircle(screen, wx, wy, 0.5*pixelsPerUnit, color.RGBA{R: 255, G: 220, B: 0, A: 128}, true)
	}
}

func (g *Game) drawEnemy(screen *ebiten.Image, e *system.EnemyAgent) {
	x, y := g.toScreen(e.Position())
	var clr color.Color
	switch e.State() {
	case obj.EnemyChase:
		clr = colornames.Orange
	case obj.EnemyAttack:
		clr = colornames.Red
	case obj.EnemyDead:
		clr = colornames.Gray
	default:
		clr = colornames.Yellowgreen
	}
	vector.FillCircle(screen, x, y, 0.5*pixelsPerUnit, clr, true)

	if !g.debug {
		return
	}
	path := e.Nav.Path()
	px, py := x, y
	for _, wp := range path {
		nx, ny := g.toScreen(wp)
		vector.StrokeLine(screen, px, py, nx, ny, 1, colornames.Khaki, true)
		px, py = nx, ny
	}
}

func (g *Game) debugText() string {
	s := ""
	if p := g.world.Player; p != nil {
		turning, till := p.Turning()
		s += fmt.Sprintf("\nplayer %s yaw=%.1f pitch=%.1f move=%d look=%d turning=%v->%.0f",
			p.State(), p.Yaw(), p.Camera().Pitch(), p.Gestures().MoveFinger(), p.Gestures().LookFinger(), turning, till)
	}
	for i, e := range g.world.Enemies {
		s += fmt.Sprintf("\nenemy %d %s dist=%.2f waypoint=%d", i, e.State(), e.Distance(), e.Index())
	}
	return s
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return g.screen.X, g.screen.Y
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
