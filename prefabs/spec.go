package prefabs

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/touchbrawler/obj"
)

// Spec file names.
const (
	PlayerSpecFile = "player.yaml"
	EnemySpecFile  = "enemy.yaml"
	ArenaSpecFile  = "arena.yaml"
)

var ErrUnknownSpec = errors.New("prefabs: unknown spec file")

// SpecKind identifies which spec a prefab file holds.
type SpecKind int

const (
	KindPlayer SpecKind = iota + 1
	KindEnemy
	KindArena
	KindScript
)

// KindOf classifies a prefab path, as reported by the Watcher.
func KindOf(path string) (SpecKind, error) {
	base := strings.ToLower(filepath.Base(filepath.ToSlash(path)))
	switch {
	case base == PlayerSpecFile:
		return KindPlayer, nil
	case base == EnemySpecFile:
		return KindEnemy, nil
	case base == ArenaSpecFile:
		return KindArena, nil
	case isScriptFile(base):
		return KindScript, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownSpec, path)
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type Vec3Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

type CameraSpec struct {
	PivotHeight  float64  `yaml:"pivot_height"`
	Distance     float64  `yaml:"distance"`
	InitialPitch float64  `yaml:"initial_pitch"`
	ObstacleMask []string `yaml:"obstacle_layers"`
}

type WeaponSpec struct {
	Tag    string  `yaml:"tag"`
	Radius float64 `yaml:"radius"`
	// Reach is how far in front of the player the weapon sits while swinging.
	Reach float64 `yaml:"reach"`
	// SwingTime is how long the weapon stays active after an attack, seconds.
	SwingTime float64 `yaml:"swing_time"`
}

type PlayerSpec struct {
	Name                  string     `yaml:"name"`
	Mode                  string     `yaml:"mode"`
	CameraSensitivity     float64    `yaml:"camera_sensitivity"`
	MoveSpeed             float64    `yaml:"move_speed"`
	MoveDeadZone          float64    `yaml:"move_dead_zone"`
	SwipeThreshold        float64    `yaml:"swipe_threshold"`
	SwipeOnlyAfterRelease *bool      `yaml:"swipe_only_after_release"`
	TurnRate              float64    `yaml:"turn_rate"`
	Radius                float64    `yaml:"radius"`
	Height                float64    `yaml:"height"`
	Camera                CameraSpec `yaml:"camera"`
	Weapon                WeaponSpec `yaml:"weapon"`
	SwipeScript           string     `yaml:"swipe_script"`
}

func (s PlayerSpec) WithDefaults() PlayerSpec {
	if s.Name == "" {
		s.Name = "player"
	}
	if s.Mode == "" {
		s.Mode = "third_person"
	}
	if s.CameraSensitivity == 0 {
		s.CameraSensitivity = 10
	}
	if s.MoveSpeed == 0 {
		s.MoveSpeed = 4
	}
	if s.SwipeThreshold == 0 {
		s.SwipeThreshold = 20
	}
	if s.SwipeOnlyAfterRelease == nil {
		v := true
		s.SwipeOnlyAfterRelease = &v
	}
	if s.TurnRate == 0 {
		s.TurnRate = 120
	}
	if s.Radius == 0 {
		s.Radius = 0.4
	}
	if s.Height == 0 {
		s.Height = 1.8
	}
	if s.Camera.PivotHeight == 0 {
		s.Camera.PivotHeight = 1.6
	}
	if s.Camera.Distance == 0 {
		s.Camera.Distance = 4
	}
	if len(s.Camera.ObstacleMask) == 0 {
		s.Camera.ObstacleMask = []string{"default", "wall", "prop"}
	}
	if s.Weapon.Tag == "" {
		s.Weapon.Tag = "Sword"
	}
	if s.Weapon.Radius == 0 {
		s.Weapon.Radius = 0.5
	}
	if s.Weapon.Reach == 0 {
		s.Weapon.Reach = 1
	}
	if s.Weapon.SwingTime == 0 {
		s.Weapon.SwingTime = 0.4
	}
	return s
}

func LoadPlayerSpec() (PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec](PlayerSpecFile)
	if err != nil {
		return PlayerSpec{}, err
	}
	return spec.WithDefaults(), nil
}

type EnemySpec struct {
	Name             string  `yaml:"name"`
	AggroRange       float64 `yaml:"aggro_range"`
	PatrolTime       float64 `yaml:"patrol_time"`
	TickInterval     float64 `yaml:"tick_interval"`
	WalkSpeed        float64 `yaml:"walk_speed"`
	RunSpeed         float64 `yaml:"run_speed"`
	MeleeRange       float64 `yaml:"melee_range"`
	ContinuousAttack bool    `yaml:"continuous_attack"`
	HitboxRadius     float64 `yaml:"hitbox_radius"`
	WeaponTag        string  `yaml:"weapon_tag"`
	NavCellSize      float64 `yaml:"nav_cell_size"`
}

func (s EnemySpec) WithDefaults() EnemySpec {
	d := obj.DefaultEnemyConfig()
	if s.Name == "" {
		s.Name = "enemy"
	}
	if s.AggroRange == 0 {
		s.AggroRange = d.AggroRange
	}
	if s.PatrolTime == 0 {
		s.PatrolTime = d.PatrolInterval.Seconds()
	}
	if s.TickInterval == 0 {
		s.TickInterval = d.TickInterval.Seconds()
	}
	if s.WalkSpeed == 0 {
		s.WalkSpeed = d.WalkSpeed
	}
	if s.RunSpeed == 0 {
		s.RunSpeed = d.RunSpeed
	}
	if s.MeleeRange == 0 {
		s.MeleeRange = d.MeleeRange
	}
	if s.HitboxRadius == 0 {
		s.HitboxRadius = 0.5
	}
	if s.WeaponTag == "" {
		s.WeaponTag = "Sword"
	}
	if s.NavCellSize == 0 {
		s.NavCellSize = 0.5
	}
	return s
}

func LoadEnemySpec() (EnemySpec, error) {
	spec, err := LoadSpec[EnemySpec](EnemySpecFile)
	if err != nil {
		return EnemySpec{}, err
	}
	return spec.WithDefaults(), nil
}

type ObstacleSpec struct {
	Name  string   `yaml:"name"`
	Min   Vec3Spec `yaml:"min"`
	Max   Vec3Spec `yaml:"max"`
	Layer string   `yaml:"layer"`
}

type EnemySpawnSpec struct {
	Position  Vec3Spec   `yaml:"position"`
	Waypoints []Vec3Spec `yaml:"waypoints"`
}

type ArenaSpec struct {
	Name         string           `yaml:"name"`
	ScreenWidth  float64          `yaml:"screen_width"`
	ScreenHeight float64          `yaml:"screen_height"`
	Min          Vec3Spec         `yaml:"min"`
	Max          Vec3Spec         `yaml:"max"`
	PlayerSpawn  Vec3Spec         `yaml:"player_spawn"`
	PlayerYaw    float64          `yaml:"player_yaw"`
	Obstacles    []ObstacleSpec   `yaml:"obstacles"`
	Enemies      []EnemySpawnSpec `yaml:"enemies"`
}

func (s ArenaSpec) WithDefaults() ArenaSpec {
	if s.Name == "" {
		s.Name = "arena"
	}
	if s.ScreenWidth == 0 {
		s.ScreenWidth = 960
	}
	if s.ScreenHeight == 0 {
		s.ScreenHeight = 540
	}
	if s.Min == (Vec3Spec{}) && s.Max == (Vec3Spec{}) {
		s.Min = Vec3Spec{X: -20, Z: -20}
		s.Max = Vec3Spec{X: 20, Z: 20}
	}
	return s
}

// LoadArenaSpec loads an arena by file name. An empty name loads arena.yaml.
func LoadArenaSpec(name string) (ArenaSpec, error) {
	if name == "" {
		name = ArenaSpecFile
	}
	spec, err := LoadSpec[ArenaSpec](name)
	if err != nil {
		return ArenaSpec{}, err
	}
	return spec.WithDefaults(), nil
}
