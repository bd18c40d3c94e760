package main

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/touchbrawler/common"
	"github.com/milk9111/touchbrawler/component"
	"github.com/milk9111/touchbrawler/obj"
)

// Contact ids for emulated fingers. Real touch ids from ebiten are small
// non-negative integers.
const (
	mouseContactID    = 1 << 20
	keyboardContactID = mouseContactID + 1
)

// TouchInput polls ebiten touches once per frame and implements
// component.TouchSource. Positions are flipped so the origin is the
// bottom-left corner of the screen.
type TouchInput struct {
	// EmulateMouse makes the left mouse button act as one finger.
	EmulateMouse bool
	// EmulateKeys makes WASD drive a virtual finger on the left half of the
	// screen, so a desktop can move and look at the same time.
	EmulateKeys bool

	screenW, screenH float64
	differ           *obj.TouchDiffer
	samples          map[int]common.Vec2
	touchIDs         []ebiten.TouchID
	contacts         []component.TouchContact
	keyFingerDown    bool
}

// NewTouchInput creates an input adapter for a logical screen size.
func NewTouchInput(screenW, screenH float64) *TouchInput {
	return &TouchInput{
		screenW: screenW,
		screenH: screenH,
		differ:  obj.NewTouchDiffer(),
		samples: make(map[int]common.Vec2),
	}
}

// Update samples the current frame. Call it once per ebiten Update.
func (in *TouchInput) Update() {
	clear(in.samples)

	in.touchIDs = ebiten.AppendTouchIDs(in.touchIDs[:0])
	for _, id := range in.touchIDs {
		x, y := ebiten.TouchPosition(id)
		in.samples[int(id)] = in.toScreen(x, y)
	}

	if in.EmulateMouse && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		in.samples[mouseContactID] = in.toScreen(x, y)
	}

	if in.EmulateKeys {
		if p, ok := in.keyboardFinger(); ok {
			in.samples[keyboardContactID] = p
		}
	}

	in.contacts = in.differ.Diff(in.samples)
}

// Contacts returns the contacts sampled by the last Update.
func (in *TouchInput) Contacts() []component.TouchContact {
	return in.contacts
}

// Reset drops the tracked contacts. Fingers still down show up as Began on
// the next Update.
func (in *TouchInput) Reset() {
	in.differ.Reset()
	in.contacts = nil
	in.keyFingerDown = false
}

func (in *TouchInput) toScreen(x, y int) common.Vec2 {
	return common.Vec2{X: float64(x), Y: in.screenH - float64(y)}
}

// keyboardFinger places a virtual finger around an anchor on the left half
// of the screen, offset in the pressed direction.
func (in *TouchInput) keyboardFinger() (common.Vec2, bool) {
	var dir common.Vec2
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		dir.Y++
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		dir.Y--
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		dir.X--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		dir.X++
	}
	if dir == (common.Vec2{}) {
		in.keyFingerDown = false
		return common.Vec2{}, false
	}
	anchor := common.Vec2{X: in.screenW / 4, Y: in.screenH / 4}
	// the finger lands on the anchor first so the offset is measured from it
	if !in.keyFingerDown {
		in.keyFingerDown = true
		return anchor, true
	}
	return anchor.Add(dir.Normalized().Scale(in.screenH / 4)), true
}
