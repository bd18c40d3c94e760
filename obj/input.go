package obj

import (
	"slices"

	"github.com/milk9111/touchbrawler/common"
	"github.com/milk9111/touchbrawler/component"
)

// TouchDiffer turns per-frame position samples into phased contacts by
// comparing them with the previous frame.
type TouchDiffer struct {
	prev map[int]common.Vec2
	ids  []int
}

func NewTouchDiffer() *TouchDiffer {
	return &TouchDiffer{prev: make(map[int]common.Vec2)}
}

// Diff reports every contact of the current frame plus one Ended contact per
// id that disappeared. Output is ordered by id.
func (d *TouchDiffer) Diff(samples map[int]common.Vec2) []component.TouchContact {
	d.ids = d.ids[:0]
	for id := range samples {
		d.ids = append(d.ids, id)
	}
	for id := range d.prev {
		if _, ok := samples[id]; !ok {
			d.ids = append(d.ids, id)
		}
	}
	slices.Sort(d.ids)

	out := make([]component.TouchContact, 0, len(d.ids))
	for _, id := range d.ids {
		cur, live := samples[id]
		last, seen := d.prev[id]
		switch {
		case live && !seen:
			out = append(out, component.TouchContact{ID: id, Phase: component.TouchBegan, Position: cur})
		case live && cur == last:
			out = append(out, component.TouchContact{ID: id, Phase: component.TouchStationary, Position: cur})
		case live:
			out = append(out, component.TouchContact{ID: id, Phase: component.TouchMoved, Position: cur, DeltaPosition: cur.Sub(last)})
		default:
			out = append(out, component.TouchContact{ID: id, Phase: component.TouchEnded, Position: last})
		}
	}

	clear(d.prev)
	for id, p := range samples {
		d.prev[id] = p
	}
	return out
}

// Reset forgets every tracked contact without reporting them as ended.
func (d *TouchDiffer) Reset() {
	clear(d.prev)
}
