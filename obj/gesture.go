package obj

import (
	"math"

	"go.uber.org/zap"

	"github.com/milk9111/touchbrawler/common"
	"github.com/milk9111/touchbrawler/component"
)

// unboundFinger marks a slot that is not tracking any contact.
const unboundFinger = -1

// SwipeDirection is a discrete swipe classification.
type SwipeDirection int

const (
	SwipeNone SwipeDirection = iota
	SwipeUp
	SwipeDown
	SwipeLeft
	SwipeRight
)

func (d SwipeDirection) String() string {
	switch d {
	case SwipeUp:
		return "up"
	case SwipeDown:
		return "down"
	case SwipeLeft:
		return "left"
	case SwipeRight:
		return "right"
	default:
		return "none"
	}
}

// GestureConfig tunes the gesture tracker.
type GestureConfig struct {
	ScreenWidth float64
	// Sensitivity scales look deltas (degrees per pixel per second).
	Sensitivity    float64
	SwipeThreshold float64
	// SwipeOnlyAfterRelease classifies once when the contact lifts instead of
	// on every moved sample.
	SwipeOnlyAfterRelease bool
}

// GestureFrame is the tracker output for one frame.
type GestureFrame struct {
	LookBound  bool
	LookDelta  common.Vec2
	MoveBound  bool
	MoveOffset common.Vec2
	// MoveReleased is set on the frame the move contact lifted.
	MoveReleased bool
	Swipe        SwipeDirection
}

// GestureTracker splits contacts into a move finger (left half of the screen)
// and a look finger (right half) and classifies swipes.
type GestureTracker struct {
	cfg             GestureConfig
	halfScreenWidth float64
	log             *zap.Logger

	moveFinger int
	lookFinger int
	moveStart  common.Vec2
	moveOffset common.Vec2
	lookDelta  common.Vec2

	swipeFinger int
	fingerDown  common.Vec2
	fingerUp    common.Vec2
}

// NewGestureTracker creates a tracker with both slots unbound.
func NewGestureTracker(cfg GestureConfig, log *zap.Logger) *GestureTracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &GestureTracker{
		cfg:             cfg,
		halfScreenWidth: cfg.ScreenWidth / 2,
		log:             log,
		moveFinger:      unboundFinger,
		lookFinger:      unboundFinger,
		swipeFinger:     unboundFinger,
	}
}

func (g *GestureTracker) Config() GestureConfig { return g.cfg }

// MoveFinger returns the contact bound to the move slot, or -1.
func (g *GestureTracker) MoveFinger() int { return g.moveFinger }

// LookFinger returns the contact bound to the look slot, or -1.
func (g *GestureTracker) LookFinger() int { return g.lookFinger }

// Reset unbinds both slots and drops the swipe session.
func (g *GestureTracker) Reset() {
	g.moveFinger = unboundFinger
	g.lookFinger = unboundFinger
	g.swipeFinger = unboundFinger
	g.moveOffset = common.Vec2{}
	g.lookDelta = common.Vec2{}
}

// Update consumes one frame of contacts. dt is the frame time in seconds.
func (g *GestureTracker) Update(contacts []component.TouchContact, dt float64) GestureFrame {
	var frame GestureFrame

	// look input only lives for the frame it was sampled in
	g.lookDelta = common.Vec2{}

	for _, t := range contacts {
		var swipe SwipeDirection
		switch t.Phase {
		case component.TouchBegan:
			g.begin(t)
		case component.TouchMoved:
			swipe = g.moved(t, dt)
		case component.TouchStationary:
			g.stationary(t)
		case component.TouchEnded, component.TouchCanceled:
			var released bool
			released, swipe = g.end(t)
			frame.MoveReleased = frame.MoveReleased || released
		}
		if frame.Swipe == SwipeNone {
			frame.Swipe = swipe
		}
	}

	frame.LookBound = g.lookFinger != unboundFinger
	frame.MoveBound = g.moveFinger != unboundFinger
	frame.LookDelta = g.lookDelta
	frame.MoveOffset = g.moveOffset
	return frame
}

func (g *GestureTracker) begin(t component.TouchContact) {
	if t.ID == g.moveFinger || t.ID == g.lookFinger {
		return
	}

	switch {
	case t.Position.X < g.halfScreenWidth && g.moveFinger == unboundFinger:
		g.moveFinger = t.ID
		g.moveStart = t.Position
		g.moveOffset = common.Vec2{}
		g.log.Debug("move finger bound", zap.Int("contact", t.ID))
	case t.Position.X > g.halfScreenWidth && g.lookFinger == unboundFinger:
		g.lookFinger = t.ID
		g.log.Debug("look finger bound", zap.Int("contact", t.ID))
		return
	}

	g.swipeFinger = t.ID
	g.fingerDown = t.Position
	g.fingerUp = t.Position
}

func (g *GestureTracker) moved(t component.TouchContact, dt float64) SwipeDirection {
	switch t.ID {
	case g.lookFinger:
		g.lookDelta = t.DeltaPosition.Scale(g.cfg.Sensitivity * dt)
	case g.moveFinger:
		g.moveOffset = t.Position.Sub(g.moveStart)
	}

	if t.ID != g.swipeFinger {
		return SwipeNone
	}
	g.fingerDown = t.Position
	if g.cfg.SwipeOnlyAfterRelease {
		return SwipeNone
	}
	return g.classify()
}

func (g *GestureTracker) stationary(t component.TouchContact) {
	switch t.ID {
	case g.lookFinger:
		g.lookDelta = common.Vec2{}
	case g.moveFinger:
		g.moveOffset = t.Position.Sub(g.moveStart)
	}
}

func (g *GestureTracker) end(t component.TouchContact) (bool, SwipeDirection) {
	released := false
	switch t.ID {
	case g.moveFinger:
		g.moveFinger = unboundFinger
		g.moveOffset = common.Vec2{}
		released = true
		g.log.Debug("move finger released", zap.Int("contact", t.ID))
	case g.lookFinger:
		g.lookFinger = unboundFinger
		g.log.Debug("look finger released", zap.Int("contact", t.ID))
	}

	if t.ID != g.swipeFinger {
		return released, SwipeNone
	}
	g.swipeFinger = unboundFinger
	g.fingerDown = t.Position
	if !g.cfg.SwipeOnlyAfterRelease {
		return released, SwipeNone
	}
	return released, g.classify()
}

// classify compares the session samples. Ties between the axes never swipe.
func (g *GestureTracker) classify() SwipeDirection {
	dir := classifySwipe(g.fingerDown, g.fingerUp, g.cfg.SwipeThreshold)
	if dir != SwipeNone {
		g.fingerUp = g.fingerDown
		g.log.Debug("swipe", zap.Stringer("direction", dir))
	}
	return dir
}

func classifySwipe(down, up common.Vec2, threshold float64) SwipeDirection {
	dv := math.Abs(down.Y - up.Y)
	dh := math.Abs(down.X - up.X)

	switch {
	case dv > threshold && dv > dh:
		if down.Y > up.Y {
			return SwipeUp
		}
		return SwipeDown
	case dh > threshold && dh > dv:
		if down.X > up.X {
			return SwipeRight
		}
		return SwipeLeft
	}
	return SwipeNone
}
