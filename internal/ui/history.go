package ui

import (
	"github.com/piwi3910/SquareFill/internal/engine"
	"github.com/piwi3910/SquareFill/internal/model"
)

const defaultMaxDepth = 50

// Snapshot captures a loaded instance and its run report at a point in time.
type Snapshot struct {
	Report engine.Report
	Label  string // Human-readable description (e.g. "Solve 4.97s")
}

// History manages back/forward stacks of viewed runs.
type History struct {
	undoStack []Snapshot
	redoStack []Snapshot
	maxDepth  int
}

// NewHistory creates a History with the default max depth of 50.
func NewHistory() *History {
	return &History{
		maxDepth: defaultMaxDepth,
	}
}

// Push saves a snapshot onto the undo stack and clears the redo stack.
// This should be called before the new run replaces the current one.
func (h *History) Push(s Snapshot) {
	h.undoStack = append(h.undoStack, s)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxDepth:]
	}
	h.redoStack = nil
}

// Undo pops the most recent snapshot from the undo stack and pushes
// the current state onto the redo stack. Returns the snapshot to restore
// and true, or an empty snapshot and false if nothing to undo.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.undoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, current)
	return last, true
}

// Redo pops the most recent snapshot from the redo stack and pushes
// the current state onto the undo stack.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.redoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, current)
	return last, true
}

func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// Clear removes all undo and redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

// copySolution returns a copy that shares no slices with sol.
func copySolution(sol model.Solution) model.Solution {
	cp := sol
	if sol.Instance.Points != nil {
		cp.Instance.Points = append([]model.Pos(nil), sol.Instance.Points...)
	}
	if sol.Squares != nil {
		cp.Squares = append([]model.Square(nil), sol.Squares...)
	}
	return cp
}

// MakeSnapshot creates a snapshot of a report with a label.
func MakeSnapshot(report engine.Report, label string) Snapshot {
	report.Solution = copySolution(report.Solution)
	return Snapshot{
		Report: report,
		Label:  label,
	}
}
