package geometry

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Kind identifies the primitive stored in a Primitive
type Kind uint8

const (
	KindSphere Kind = iota
	KindMovingSphere
)

// String returns the lowercase name of the kind
func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindMovingSphere:
		return "moving-sphere"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Primitive is a closed set of intersectable shapes, dispatched by Kind.
// It is a plain value so a World can be shared by concurrent renderers without copying.
type Primitive struct {
	Kind   Kind
	Sphere Sphere       // valid when Kind == KindSphere
	Moving MovingSphere // valid when Kind == KindMovingSphere
}

// NewSphere creates a static sphere primitive
func NewSphere(center core.Vec3, radius float64, mat material.Handle) Primitive {
	return Primitive{
		Kind:   KindSphere,
		Sphere: Sphere{Center: center, Radius: radius, Material: mat},
	}
}

// NewMovingSphere creates a sphere that moves from center0 at time0 to center1 at time1
func NewMovingSphere(center0, center1 core.Vec3, time0, time1, radius float64, mat material.Handle) Primitive {
	return Primitive{
		Kind: KindMovingSphere,
		Moving: MovingSphere{
			Center0:  center0,
			Center1:  center1,
			Time0:    time0,
			Time1:    time1,
			Radius:   radius,
			Material: mat,
		},
	}
}

// Hit tests the ray against the primitive within the open interval (tMin, tMax)
func (p Primitive) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	switch p.Kind {
	case KindSphere:
		return p.Sphere.Hit(ray, tMin, tMax)
	case KindMovingSphere:
		return p.Moving.Hit(ray, tMin, tMax)
	default:
		return nil, false
	}
}

// MaterialHandle returns the material of the primitive
func (p Primitive) MaterialHandle() material.Handle {
	if p.Kind == KindMovingSphere {
		return p.Moving.Material
	}
	return p.Sphere.Material
}
