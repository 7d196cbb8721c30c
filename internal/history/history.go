// Package history implements snapshot-based undo/redo: two stacks of
// full-state snapshots, diffed against the live state to produce the minimal
// remote write set that moves the server back (or forward) in time.
package history

import "github.com/sadopc/timecard/internal/model"

// History holds the undo and redo stacks. The zero value is ready to use.
//
// History only manages snapshots; replaying a diff against the server is the
// caller's job, and a failed replay is not rolled back here.
type History struct {
	undo []*model.FullState
	redo []*model.FullState
}

// Record pushes a deep copy of the current state onto the undo stack and
// clears the redo stack. Call it immediately before every mutating action;
// any new action invalidates redo history.
func (h *History) Record(current *model.FullState) {
	h.undo = append(h.undo, current.Clone())
	h.redo = h.redo[:0]
}

// Undo pops the most recent snapshot, pushing the live state onto the redo
// stack. Returns nil when there is nothing to undo. The caller replays
// ComputeDiff(live, returned) against the server.
func (h *History) Undo(live *model.FullState) *model.FullState {
	if len(h.undo) == 0 {
		return nil
	}
	target := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, live.Clone())
	return target
}

// Redo is the mirror of Undo.
func (h *History) Redo(live *model.FullState) *model.FullState {
	if len(h.redo) == 0 {
		return nil
	}
	target := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, live.Clone())
	return target
}

// CanUndo reports whether an undo target exists.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo target exists.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }
