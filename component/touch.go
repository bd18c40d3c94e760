package component

import "github.com/milk9111/touchbrawler/common"

// TouchPhase is the lifecycle stage of a contact within a frame.
type TouchPhase int

const (
	TouchBegan TouchPhase = iota
	TouchMoved
	TouchStationary
	TouchEnded
	TouchCanceled
)

func (p TouchPhase) String() string {
	switch p {
	case TouchBegan:
		return "began"
	case TouchMoved:
		return "moved"
	case TouchStationary:
		return "stationary"
	case TouchEnded:
		return "ended"
	case TouchCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// TouchContact is one active contact in a per-frame snapshot. Positions are
// in screen pixels with the origin at the bottom-left corner.
type TouchContact struct {
	ID            int
	Phase         TouchPhase
	Position      common.Vec2
	DeltaPosition common.Vec2
}

// TouchSource is the input collaborator. Contacts is called once per frame.
type TouchSource interface {
	Contacts() []TouchContact
}
