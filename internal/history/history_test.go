package history

import (
	"testing"

	"github.com/sadopc/timecard/internal/model"
)

func snapshot(total int64) *model.FullState {
	s := model.NewFullState()
	s.TimeEntries[model.Monday] = []model.TimeEntry{{ID: 1, Day: model.Monday, TotalTime: total}}
	return s
}

func TestUndoRedoRoundTrip(t *testing.T) {
	var h History

	v1 := snapshot(100)
	v2 := snapshot(200)

	h.Record(v1) // about to mutate v1 -> v2
	live := v2

	target := h.Undo(live)
	if target == nil || !target.Equal(v1) {
		t.Fatalf("undo should return the v1 snapshot")
	}
	live = target

	target = h.Redo(live)
	if target == nil || !target.Equal(v2) {
		t.Fatalf("redo should return the v2 snapshot")
	}
}

func TestUndoEmpty(t *testing.T) {
	var h History
	if h.Undo(snapshot(1)) != nil {
		t.Error("undo on empty stack should return nil")
	}
	if h.Redo(snapshot(1)) != nil {
		t.Error("redo on empty stack should return nil")
	}
	if h.CanUndo() || h.CanRedo() {
		t.Error("empty history reports availability")
	}
}

func TestRecordClearsRedo(t *testing.T) {
	var h History

	h.Record(snapshot(1))
	h.Undo(snapshot(2))
	if !h.CanRedo() {
		t.Fatal("undo should have populated redo")
	}

	h.Record(snapshot(3))
	if h.CanRedo() {
		t.Error("new action must clear the redo stack")
	}
	if !h.CanUndo() {
		t.Error("record should leave an undo target")
	}
}

func TestRecordStoresCopy(t *testing.T) {
	var h History

	live := snapshot(100)
	h.Record(live)
	live.TimeEntries[model.Monday][0].TotalTime = 999

	target := h.Undo(live)
	if target.TimeEntries[model.Monday][0].TotalTime != 100 {
		t.Error("recorded snapshot shares storage with live state")
	}
}

func TestUndoDepth(t *testing.T) {
	var h History

	for i := int64(1); i <= 3; i++ {
		h.Record(snapshot(i * 100))
	}
	live := snapshot(400)

	for want := int64(300); want >= 100; want -= 100 {
		target := h.Undo(live)
		if target == nil || target.TimeEntries[model.Monday][0].TotalTime != want {
			t.Fatalf("expected snapshot %d, got %+v", want, target)
		}
		live = target
	}
	if h.CanUndo() {
		t.Error("stack should be exhausted")
	}
}
