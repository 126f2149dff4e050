package history

import (
	"image/color"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"gopaint/internal/raster"
)

func solid(v uint8) *raster.Buffer {
	return raster.NewFilled(2, 2, color.RGBA{R: v, A: 255})
}

func TestUndoRedoLinear(t *testing.T) {
	l := NewLog(10)
	a, b, c := solid(1), solid(2), solid(3)

	l.Save(a) // about to become b
	l.Save(b) // about to become c
	current := c

	got, ok := l.Undo(current)
	if !ok || !got.Equal(b) {
		t.Fatal("first undo must return the second snapshot")
	}
	current = got

	got, ok = l.Undo(current)
	if !ok || !got.Equal(a) {
		t.Fatal("second undo must return the first snapshot")
	}
	current = got

	if _, ok := l.Undo(current); ok {
		t.Fatal("undo past the oldest snapshot must report false")
	}

	got, ok = l.Redo(current)
	if !ok || !got.Equal(b) {
		t.Fatal("redo must walk forward again")
	}
}

func TestSaveClearsRedo(t *testing.T) {
	l := NewLog(10)
	l.Save(solid(1))
	current, _ := l.Undo(solid(2))

	if !l.CanRedo() {
		t.Fatal("undo must enable redo")
	}
	l.Save(current)
	if l.CanRedo() {
		t.Error("saving a new snapshot must clear the redo stack")
	}
}

func TestCapacityEvictsOldest(t *testing.T) {
	l := NewLog(3)
	for v := uint8(1); v <= 5; v++ {
		l.Save(solid(v))
	}

	current := solid(6)
	seen := []*raster.Buffer{}
	for {
		b, ok := l.Undo(current)
		if !ok {
			break
		}
		seen = append(seen, b)
		current = b
	}

	if len(seen) != 3 {
		t.Fatalf("depth = %d, want capacity 3", len(seen))
	}
	// Newest first; snapshots 1 and 2 were evicted.
	for i, want := range []uint8{5, 4, 3} {
		if !seen[i].Equal(solid(want)) {
			t.Errorf("undo %d returned the wrong snapshot", i)
		}
	}
}

func TestSnapshotsAreCopies(t *testing.T) {
	l := NewLog(10)
	b := solid(1)
	l.Save(b)
	b.Set(0, 0, color.RGBA{G: 255, A: 255})

	got, _ := l.Undo(b)
	if !got.Equal(solid(1)) {
		t.Error("mutating the live buffer must not corrupt saved snapshots")
	}
}

func TestUndoRedoProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	genStates := gen.SliceOfN(8, gen.UInt8()).Map(func(vs []uint8) []*raster.Buffer {
		out := make([]*raster.Buffer, len(vs))
		for i, v := range vs {
			out[i] = solid(v)
		}
		return out
	})

	properties.Property("undo then redo restores the exact buffer", prop.ForAll(
		func(states []*raster.Buffer) bool {
			l := NewLog(DefaultCapacity)
			for _, s := range states[:len(states)-1] {
				l.Save(s)
			}
			current := states[len(states)-1]

			prev, ok := l.Undo(current)
			if !ok {
				return true
			}
			again, ok := l.Redo(prev)
			return ok && again.Equal(current)
		},
		genStates,
	))

	properties.Property("full undo walk visits saved states newest first", prop.ForAll(
		func(states []*raster.Buffer) bool {
			l := NewLog(DefaultCapacity)
			for _, s := range states[:len(states)-1] {
				l.Save(s)
			}
			current := states[len(states)-1]
			for i := len(states) - 2; i >= 0; i-- {
				b, ok := l.Undo(current)
				if !ok || !b.Equal(states[i]) {
					return false
				}
				current = b
			}
			_, ok := l.Undo(current)
			return !ok
		},
		genStates,
	))

	properties.TestingRun(t)
}
