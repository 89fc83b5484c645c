package canvas

import (
	"github.com/loopcanvas/loopcanvas/diagram"
)

// HistoryDepth bounds the undo stack; oldest snapshots fall off first.
const HistoryDepth = 50

// History is a bounded snapshot stack. Snapshots are pushed only on
// committed operations (pointer-up or a discrete edit), never per
// drag-move frame, so one entry corresponds to one user-perceived action.
type History struct {
	states  []*diagram.Diagram
	current int
	max     int
}

func NewHistory(max int) *History {
	if max <= 0 {
		max = HistoryDepth
	}
	return &History{
		states:  make([]*diagram.Diagram, 0, max),
		current: -1,
		max:     max,
	}
}

// Push records a committed snapshot, truncating any redo tail.
func (h *History) Push(d *diagram.Diagram) {
	if h.current < len(h.states)-1 {
		h.states = h.states[:h.current+1]
	}
	h.states = append(h.states, d.Clone())
	if len(h.states) > h.max {
		h.states = h.states[1:]
	} else {
		h.current++
	}
}

func (h *History) CanUndo() bool { return h.current > 0 }
func (h *History) CanRedo() bool { return h.current < len(h.states)-1 }

// Undo steps back one snapshot. Returns a clone so callers can't edit
// history in place; ok is false at the bottom of the stack.
func (h *History) Undo() (*diagram.Diagram, bool) {
	if !h.CanUndo() {
		return nil, false
	}
	h.current--
	return h.states[h.current].Clone(), true
}

func (h *History) Redo() (*diagram.Diagram, bool) {
	if !h.CanRedo() {
		return nil, false
	}
	h.current++
	return h.states[h.current].Clone(), true
}

func (h *History) Clear() {
	h.states = h.states[:0]
	h.current = -1
}
