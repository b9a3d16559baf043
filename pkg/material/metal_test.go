package material

import (
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestMetal_PerfectReflection(t *testing.T) {
	albedo := core.NewVec3(0.9, 0.9, 0.9)
	metal := NewMetal(albedo, 0.0)

	// Counts draws: a mirror must not consume any
	sampler := &sequenceSampler{values: []float64{0.5}}

	rayIn := core.NewRay(core.NewVec3(-1, 1, 0), core.NewVec3(1, -1, 0))
	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		FrontFace: true,
	}

	scatter, didScatter := metal.Scatter(rayIn, hit, sampler)
	if !didScatter {
		t.Fatal("Metal should scatter")
	}

	expected := core.NewVec3(1, 1, 0).Normalize()
	if !scatter.Scattered.Direction.Equals(expected) {
		t.Errorf("Perfect reflection failed: expected %v, got %v", expected, scatter.Scattered.Direction)
	}
	if !scatter.Attenuation.Equals(albedo) {
		t.Errorf("Attenuation should equal albedo: expected %v, got %v", albedo, scatter.Attenuation)
	}
	if sampler.next != 0 {
		t.Errorf("Mirror reflection should not draw random numbers, drew %d", sampler.next)
	}
}

func TestMetal_FuzzyReflection(t *testing.T) {
	metal := NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.5)
	sampler := core.NewSeededSampler(42)

	rayIn := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))
	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 0, 1),
		FrontFace: true,
	}

	directions := make([]core.Vec3, 10)
	for i := range directions {
		scatter, didScatter := metal.Scatter(rayIn, hit, sampler)
		if !didScatter {
			t.Fatalf("Metal should scatter on iteration %d", i)
		}
		directions[i] = scatter.Scattered.Direction

		// The perturbation stays within fuzz of the mirror direction
		offset := scatter.Scattered.Direction.Subtract(core.NewVec3(0, 0, 1)).Length()
		if offset >= 0.5 {
			t.Errorf("Perturbation %f exceeds fuzz radius", offset)
		}
	}

	allSame := true
	for i := 1; i < len(directions); i++ {
		if !directions[i].Equals(directions[0]) {
			allSame = false
			break
		}
	}
	if allSame {
		t.Error("Fuzzy metal should produce varying reflection directions")
	}
}

func TestMetal_ScatterAbsorption(t *testing.T) {
	metal := NewMetal(core.NewVec3(0.8, 0.8, 0.8), 1.0)

	// Grazing ray: the mirror direction is barely above the surface
	rayIn := core.NewRay(core.NewVec3(-1, 0.1, 0), core.NewVec3(1, -0.1, 0))
	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		FrontFace: true,
	}

	// Perturbation (0,-0.5,0) pushes the reflection below the surface
	sampler := &sequenceSampler{values: []float64{0.5, 0.25, 0.5}}
	if _, didScatter := metal.Scatter(rayIn, hit, sampler); didScatter {
		t.Error("Reflection pushed below the surface should be absorbed")
	}

	// Perturbation (0,0.5,0) keeps it above
	sampler = &sequenceSampler{values: []float64{0.5, 0.75, 0.5}}
	if _, didScatter := metal.Scatter(rayIn, hit, sampler); !didScatter {
		t.Error("Reflection above the surface should scatter")
	}
}

func TestReflect(t *testing.T) {
	tests := []struct {
		name     string
		v, n     core.Vec3
		expected core.Vec3
	}{
		{"straight down", core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0)},
		{"diagonal", core.NewVec3(1, -1, 0), core.NewVec3(0, 1, 0), core.NewVec3(1, 1, 0)},
		{"parallel to surface", core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), core.NewVec3(1, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reflect(tt.v, tt.n); !got.Equals(tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}
