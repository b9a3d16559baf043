package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// World is an ordered list of primitives searched linearly for the nearest hit.
// When two primitives are hit at the same t, the one added first wins.
type World struct {
	objects []Primitive
}

// NewWorld creates a world holding the given primitives in order
func NewWorld(objects ...Primitive) *World {
	return &World{objects: append([]Primitive(nil), objects...)}
}

// Add appends a primitive to the world
func (w *World) Add(p Primitive) {
	w.objects = append(w.objects, p)
}

// Len returns the number of primitives
func (w *World) Len() int {
	return len(w.objects)
}

// Objects returns the primitives in scan order. The slice must not be modified.
func (w *World) Objects() []Primitive {
	return w.objects
}

// Hit returns the closest intersection in (tMin, tMax) across all primitives
func (w *World) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closestHit *material.HitRecord
	closestSoFar := tMax

	for _, object := range w.objects {
		if hit, isHit := object.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}
