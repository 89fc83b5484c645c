package canvas

import (
	"github.com/loopcanvas/loopcanvas/diagram"
	"github.com/loopcanvas/loopcanvas/edit"
)

// Key is one keyboard event as the host reports it. Name follows the
// browser convention: printable keys are the lowercase rune, specials are
// "Delete", "Backspace", "Escape", "Enter".
type Key struct {
	Name  string
	Ctrl  bool
	Meta  bool
	Shift bool
}

func (k Key) command() bool { return k.Ctrl || k.Meta }

// placementShortcuts maps bare letters to palette types.
var placementShortcuts = map[string]diagram.NodeType{
	"v": diagram.NodeVariable,
	"s": diagram.NodeStock,
	"f": diagram.NodeFlow,
	"c": diagram.NodeConverter,
	"o": diagram.NodeCloud,
	"r": diagram.NodeLoopR,
	"b": diagram.NodeLoopB,
}

// KeyDown is the global keyboard layer. It is inert while a label edit has
// focus; the text field owns the keystrokes then (except Enter/Escape,
// which finish the edit).
func (c *Canvas) KeyDown(k Key) {
	if _, editing := c.mode.(EditingLabel); editing {
		switch k.Name {
		case "Enter":
			c.CommitLabel()
		case "Escape":
			c.CancelLabel()
		}
		return
	}

	switch {
	case k.Name == "Delete" || k.Name == "Backspace":
		c.DeleteSelection()

	case k.Name == "Escape":
		c.Cancel()

	case k.command() && k.Name == "z" && k.Shift:
		c.Redo()
	case k.command() && k.Name == "z":
		c.Undo()
	case k.command() && k.Name == "y":
		c.Redo()

	case k.command() && k.Name == "c":
		c.Copy()
	case k.command() && k.Name == "v":
		c.Paste()
	case k.command() && k.Name == "d":
		c.Duplicate()

	default:
		if !k.command() && !k.Shift {
			if t, ok := placementShortcuts[k.Name]; ok {
				c.SetPlacement(t)
			}
		}
	}
}

// DeleteSelection removes the selected node (cascading its edges) or the
// selected edge.
func (c *Canvas) DeleteSelection() {
	switch {
	case c.selection.NodeID != "":
		if d, err := edit.DeleteNode(c.diagram, c.selection.NodeID); err == nil {
			c.commit(d)
		}
	case c.selection.EdgeID != "":
		if d, err := edit.DeleteEdge(c.diagram, c.selection.EdgeID); err == nil {
			c.commit(d)
		}
	default:
		return
	}
	c.ClearSelection()
}

// Cancel is the universal escape: clear selection, drop any pending
// placement, and abort whatever transient mode is active.
func (c *Canvas) Cancel() {
	c.mode = Idle{}
	c.ClearSelection()
}

// Copy captures the selected node for a later paste.
func (c *Canvas) Copy() {
	if c.selection.NodeID == "" {
		return
	}
	if n := c.diagram.Node(c.selection.NodeID); n != nil {
		captured := *n
		c.clipboard = &captured
	}
}

// Paste inserts the captured node with a fresh id and the fixed offset so
// it doesn't land exactly on the original.
func (c *Canvas) Paste() {
	if c.clipboard == nil {
		return
	}
	d, id, err := edit.PasteNode(c.diagram, *c.clipboard)
	if err != nil {
		return
	}
	c.commit(d)
	c.SelectNode(id)
}

// Duplicate is copy+paste of the selection in one step.
func (c *Canvas) Duplicate() {
	if c.selection.NodeID == "" {
		return
	}
	d, id, err := edit.DuplicateNode(c.diagram, c.selection.NodeID)
	if err != nil {
		return
	}
	c.commit(d)
	c.SelectNode(id)
}
