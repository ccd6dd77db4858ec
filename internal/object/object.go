// Package object defines the entities of the play field and how they move and draw.
//
// The play field is a percentage space: x and y both run over [0,100] with y
// growing downward. Motion is expressed per 60Hz frame and scaled by
// UpdateContext.Scale so a slow frame moves things proportionally further.
package object

import (
	"time"

	"github.com/tomz197/earthkeeper/internal/draw"
)

// Field bounds in logical units.
const (
	FieldWidth  = 100.0
	FieldHeight = 100.0
)

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Delta time.Duration // Clamped frame time
	Scale float64       // Delta relative to one 60Hz frame
	Wind  float64       // Shared horizontal drift this frame, units per frame
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas
	Now    time.Duration // Run clock, for animation phases
}

// Object is a drawable and updatable play-field entity.
type Object interface {
	// Update advances the object. Returns true if it should be removed.
	Update(ctx UpdateContext) (remove bool)

	// Draw renders the object onto ctx.Canvas.
	Draw(ctx DrawContext)
}

// Releasable is implemented by pooled objects that can be returned to a pool.
type Releasable interface {
	Release()
}

// ReleaseObject releases an object back to its pool if it implements Releasable.
func ReleaseObject(obj Object) {
	if r, ok := obj.(Releasable); ok {
		r.Release()
	}
}

// UpdateAll updates objects in place and drops the ones that asked for removal.
// The backing array is reused.
func UpdateAll[T Object](objs []T, ctx UpdateContext) []T {
	kept := objs[:0]
	for _, obj := range objs {
		if obj.Update(ctx) {
			ReleaseObject(obj)
			continue
		}
		kept = append(kept, obj)
	}
	clear(objs[len(kept):])
	return kept
}

// ShouldRenderBlink returns true if an object with remaining protection time
// should be drawn this frame. Always true once remainingTime <= 0.
func ShouldRenderBlink(remainingTime float64, frequency float64) bool {
	if remainingTime <= 0 {
		return true
	}
	phase := int(remainingTime * frequency)
	return phase%2 != 0
}
