package component

// Animation parameter and trigger names understood by the agent rigs.
const (
	ParamSpeed         = "Speed"
	TriggerStartAttack = "StartAttack"
	TriggerStopAttack  = "StopAttack"
	TriggerDead        = "Dead"
)

// Animator is the animation collaborator. Calls are fire-and-forget and
// repeating an identical call is harmless.
type Animator interface {
	SetFloat(name string, value float64)
	SetTrigger(name string)
}

// NopAnimator discards every call. Agents fall back to it when no animator
// is attached.
type NopAnimator struct{}

func (NopAnimator) SetFloat(string, float64) {}
func (NopAnimator) SetTrigger(string)        {}

// TriggerHandler is notified whenever a trigger fires.
type TriggerHandler func(anim *ParamAnimator, trigger string)

// ParamAnimator is an in-memory Animator. It stores float parameters, counts
// fired triggers and keeps the pending ones until a renderer consumes them.
type ParamAnimator struct {
	Handlers []TriggerHandler

	floats  map[string]float64
	counts  map[string]int
	pending []string
}

// NewParamAnimator creates an empty ParamAnimator.
func NewParamAnimator() *ParamAnimator {
	return &ParamAnimator{
		floats: make(map[string]float64),
		counts: make(map[string]int),
	}
}

func (a *ParamAnimator) SetFloat(name string, value float64) {
	if a == nil {
		return
	}
	a.floats[name] = value
}

func (a *ParamAnimator) SetTrigger(name string) {
	if a == nil {
		return
	}
	a.counts[name]++
	a.pending = append(a.pending, name)
	for _, h := range a.Handlers {
		if h != nil {
			h(a, name)
		}
	}
}

// Float returns the last value written for a parameter.
func (a *ParamAnimator) Float(name string) (float64, bool) {
	if a == nil {
		return 0, false
	}
	v, ok := a.floats[name]
	return v, ok
}

// TriggerCount returns how many times a trigger has fired since creation.
func (a *ParamAnimator) TriggerCount(name string) int {
	if a == nil {
		return 0
	}
	return a.counts[name]
}

// ConsumeTriggers returns the triggers fired since the last call, in order.
func (a *ParamAnimator) ConsumeTriggers() []string {
	if a == nil || len(a.pending) == 0 {
		return nil
	}
	out := a.pending
	a.pending = nil
	return out
}
