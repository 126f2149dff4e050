// Package history provides a bounded undo/redo log of full canvas snapshots.
package history

import (
	"gopaint/internal/raster"
)

// DefaultCapacity bounds the undo stack; the oldest snapshot is evicted first.
const DefaultCapacity = 50

// Log keeps linear history: pushing a new snapshot clears the redo stack, so
// there is no branching. Each entry is a full copy of the canvas buffer.
type Log struct {
	undo     []*raster.Buffer
	redo     []*raster.Buffer
	capacity int
}

// NewLog creates a log holding at most capacity snapshots. Non-positive
// capacities fall back to DefaultCapacity.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{capacity: capacity}
}

// Save pushes a copy of the buffer onto the undo stack, evicting the oldest
// entry beyond capacity, and clears the redo stack. Callers invoke it exactly
// once per logical user action, before mutating the buffer.
func (l *Log) Save(b *raster.Buffer) {
	l.undo = append(l.undo, b.Clone())
	if len(l.undo) > l.capacity {
		l.undo = l.undo[1:]
	}
	l.redo = l.redo[:0]
}

// Undo pushes current onto the redo stack and returns the most recent
// snapshot. The boolean is false when there is nothing to undo.
func (l *Log) Undo(current *raster.Buffer) (*raster.Buffer, bool) {
	if len(l.undo) == 0 {
		return nil, false
	}
	l.redo = append(l.redo, current.Clone())
	top := l.undo[len(l.undo)-1]
	l.undo = l.undo[:len(l.undo)-1]
	return top, true
}

// Redo is the symmetric inverse of Undo.
func (l *Log) Redo(current *raster.Buffer) (*raster.Buffer, bool) {
	if len(l.redo) == 0 {
		return nil, false
	}
	l.undo = append(l.undo, current.Clone())
	top := l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]
	return top, true
}

// CanUndo reports whether an undo snapshot is available.
func (l *Log) CanUndo() bool { return len(l.undo) > 0 }

// CanRedo reports whether a redo snapshot is available.
func (l *Log) CanRedo() bool { return len(l.redo) > 0 }

// Clear drops all history, e.g. after loading a new file.
func (l *Log) Clear() {
	l.undo = l.undo[:0]
	l.redo = l.redo[:0]
}
