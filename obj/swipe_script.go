package obj

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

const swipeDispatchScript = `
__action = on_swipe(__dir)
`

// SwipeScript resolves swipe actions by calling on_swipe(dir) in a tengo
// script. dir is one of "up", "down", "left", "right"; the script returns an
// action name or "none".
type SwipeScript struct {
	name     string
	compiled *tengo.Compiled
}

// NewSwipeScript compiles src. name is only used in errors.
func NewSwipeScript(name string, src []byte) (*SwipeScript, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + swipeDispatchScript))
	_ = script.Add("__dir", "")
	_ = script.Add("__action", "")
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("obj: compile swipe script %s: %w", name, err)
	}
	return &SwipeScript{name: name, compiled: compiled}, nil
}

// ActionFor implements SwipeBinder.
func (s *SwipeScript) ActionFor(dir SwipeDirection) (string, error) {
	if dir == SwipeNone {
		return ActionNone, nil
	}
	if err := s.compiled.Set("__dir", dir.String()); err != nil {
		return ActionNone, err
	}
	if err := s.compiled.Run(); err != nil {
		return ActionNone, fmt.Errorf("obj: run swipe script %s: %w", s.name, err)
	}
	action := strings.TrimSpace(s.compiled.Get("__action").String())
	if action == "none" {
		return ActionNone, nil
	}
	return action, nil
}
