package obj

import (
	"github.com/milk9111/touchbrawler/common"
	"github.com/milk9111/touchbrawler/component"
)

const (
	minCameraPitch = -90.0
	maxCameraPitch = 90.0
)

// ControlMode selects how look input drives the camera.
type ControlMode int

const (
	FirstPerson ControlMode = iota
	ThirdPerson
)

func (m ControlMode) String() string {
	if m == ThirdPerson {
		return "third_person"
	}
	return "first_person"
}

// CameraConfig describes the camera rig attached to the player.
type CameraConfig struct {
	// PivotHeight is the height of the head (first person) or camera pole
	// (third person) above the agent origin.
	PivotHeight float64
	// Distance is the nominal distance from the pole to the third person camera.
	Distance     float64
	InitialPitch float64
	ObstacleMask component.LayerMask
}

// CameraRig holds the pitch and the resolved camera position.
type CameraRig struct {
	mode      ControlMode
	cfg       CameraConfig
	raycaster component.Raycaster

	pitch    float64
	position common.Vec3
	pulledIn bool
}

// NewCameraRig creates a rig. A nil raycaster always places the camera at
// its nominal distance.
func NewCameraRig(mode ControlMode, cfg CameraConfig, raycaster component.Raycaster) *CameraRig {
	return &CameraRig{
		mode:      mode,
		cfg:       cfg,
		raycaster: raycaster,
		pitch:     common.Clamp(cfg.InitialPitch, minCameraPitch, maxCameraPitch),
	}
}

// Pitch returns the clamped camera pitch in degrees.
func (c *CameraRig) Pitch() float64 { return c.pitch }

// Position returns the camera position resolved by the last Place call.
func (c *CameraRig) Position() common.Vec3 { return c.position }

// PulledIn reports whether the last placement was shortened by an obstacle.
func (c *CameraRig) PulledIn() bool { return c.pulledIn }

// AddPitch applies a vertical look delta. Looking up lowers the pitch.
func (c *CameraRig) AddPitch(lookY float64) {
	c.pitch = common.Clamp(c.pitch-lookY, minCameraPitch, maxCameraPitch)
}

// Pivot returns the head or camera pole position for an agent origin.
func (c *CameraRig) Pivot(origin common.Vec3) common.Vec3 {
	return origin.Add(common.Vec3{Y: c.cfg.PivotHeight})
}

// Place resolves the camera position for the agent pose. In third person the
// camera is pulled in to the first obstacle between the pole and its
// nominal offset; this is re-evaluated on every call.
func (c *CameraRig) Place(origin common.Vec3, yaw float64) common.Vec3 {
	pivot := c.Pivot(origin)
	if c.mode == FirstPerson {
		c.position = pivot
		c.pulledIn = false
		return c.position
	}

	dir := common.OrbitDirection(yaw, c.pitch)
	if c.raycaster != nil {
		if hit, ok := c.raycaster.Raycast(pivot, dir, c.cfg.Distance, c.cfg.ObstacleMask); ok {
			c.position = hit
			c.pulledIn = true
			return c.position
		}
	}
	c.position = pivot.Add(dir.Scale(c.cfg.Distance))
	c.pulledIn = false
	return c.position
}
