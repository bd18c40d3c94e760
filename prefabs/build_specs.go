package prefabs

import (
	"fmt"
	"strings"
	"time"

	"github.com/milk9111/touchbrawler/common"
	"github.com/milk9111/touchbrawler/component"
	"github.com/milk9111/touchbrawler/obj"
)

func (v Vec3Spec) Vec3() common.Vec3 {
	return common.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// ParseLayer maps a layer name to its mask bit.
func ParseLayer(name string) (component.LayerMask, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return component.LayerDefault, nil
	case "wall":
		return component.LayerWall, nil
	case "prop":
		return component.LayerProp, nil
	case "character":
		return component.LayerCharacter, nil
	case "all":
		return component.AllLayers, nil
	}
	return 0, fmt.Errorf("prefabs: unknown layer %q", name)
}

// ParseLayers ORs a list of layer names into one mask.
func ParseLayers(names []string) (component.LayerMask, error) {
	var mask component.LayerMask
	for _, n := range names {
		l, err := ParseLayer(n)
		if err != nil {
			return 0, err
		}
		mask |= l
	}
	return mask, nil
}

func ParseControlMode(name string) (obj.ControlMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "first_person", "firstperson", "fp":
		return obj.FirstPerson, nil
	case "", "third_person", "thirdperson", "tp":
		return obj.ThirdPerson, nil
	}
	return 0, fmt.Errorf("prefabs: unknown control mode %q", name)
}

// PlayerConfig builds the controller tuning for a screen size.
func (s PlayerSpec) PlayerConfig(screenW, screenH float64) (obj.PlayerConfig, error) {
	s = s.WithDefaults()
	mode, err := ParseControlMode(s.Mode)
	if err != nil {
		return obj.PlayerConfig{}, err
	}
	mask, err := ParseLayers(s.Camera.ObstacleMask)
	if err != nil {
		return obj.PlayerConfig{}, err
	}
	return obj.PlayerConfig{
		Mode:                  mode,
		ScreenWidth:           screenW,
		ScreenHeight:          screenH,
		CameraSensitivity:     s.CameraSensitivity,
		MoveSpeed:             s.MoveSpeed,
		MoveDeadZoneDivisor:   s.MoveDeadZone,
		SwipeThreshold:        s.SwipeThreshold,
		SwipeOnlyAfterRelease: *s.SwipeOnlyAfterRelease,
		TurnRate:              s.TurnRate,
		Camera: obj.CameraConfig{
			PivotHeight:  s.Camera.PivotHeight,
			Distance:     s.Camera.Distance,
			InitialPitch: s.Camera.InitialPitch,
			ObstacleMask: mask,
		},
	}, nil
}

// EnemyConfig builds the enemy tuning for one spawn.
func (s EnemySpec) EnemyConfig(spawn EnemySpawnSpec) obj.EnemyConfig {
	s = s.WithDefaults()
	waypoints := make([]common.Vec3, 0, len(spawn.Waypoints))
	for _, w := range spawn.Waypoints {
		waypoints = append(waypoints, w.Vec3())
	}
	return obj.EnemyConfig{
		AggroRange:       s.AggroRange,
		PatrolInterval:   seconds(s.PatrolTime),
		TickInterval:     seconds(s.TickInterval),
		WalkSpeed:        s.WalkSpeed,
		RunSpeed:         s.RunSpeed,
		MeleeRange:       s.MeleeRange,
		ContinuousAttack: s.ContinuousAttack,
		Waypoints:        waypoints,
	}
}

// Obstacle converts an obstacle spec to a collision block.
func (s ObstacleSpec) Obstacle() (obj.Obstacle, error) {
	layer, err := ParseLayer(s.Layer)
	if err != nil {
		return obj.Obstacle{}, fmt.Errorf("obstacle %s: %w", s.Name, err)
	}
	return obj.Obstacle{
		MinX: s.Min.X, MinZ: s.Min.Z,
		MaxX: s.Max.X, MaxZ: s.Max.Z,
		MinY: s.Min.Y, MaxY: s.Max.Y,
		Layer: layer,
	}, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
