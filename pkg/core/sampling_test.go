package core

import (
	"math"
	"testing"
)

// sequenceSampler replays a fixed list of values, cycling when exhausted
type sequenceSampler struct {
	values []float64
	next   int
}

func (s *sequenceSampler) Get1D() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func (s *sequenceSampler) Get2D() Vec2 {
	return NewVec2(s.Get1D(), s.Get1D())
}

func (s *sequenceSampler) Get3D() Vec3 {
	return NewVec3(s.Get1D(), s.Get1D(), s.Get1D())
}

func TestRandomInUnitDisk(t *testing.T) {
	sampler := NewSeededSampler(42)

	for i := 0; i < 1000; i++ {
		p := RandomInUnitDisk(sampler)
		if p.Z != 0 {
			t.Fatalf("Disk sample %d has non-zero Z: %v", i, p)
		}
		if lengthSq := p.LengthSquared(); lengthSq >= 1 || lengthSq == 0 {
			t.Fatalf("Disk sample %d outside open unit disk: %v", i, p)
		}
	}
}

func TestRandomInUnitDisk_RejectsOutsideCandidates(t *testing.T) {
	// First candidate maps to the corner (1,1), second to (0,0), third to (0.5,-0.5)
	sampler := &sequenceSampler{values: []float64{1, 1, 0.5, 0.5, 0.75, 0.25}}

	p := RandomInUnitDisk(sampler)
	expected := NewVec3(0.5, -0.5, 0)
	if !p.Equals(expected) {
		t.Errorf("Expected third candidate %v, got %v", expected, p)
	}
	if sampler.next != 6 {
		t.Errorf("Expected 6 draws, got %d", sampler.next)
	}
}

func TestRandomInUnitSphere(t *testing.T) {
	sampler := NewSeededSampler(7)

	var mean Vec3
	const n = 20000
	for i := 0; i < n; i++ {
		p := RandomInUnitSphere(sampler)
		if lengthSq := p.LengthSquared(); lengthSq >= 1 || lengthSq == 0 {
			t.Fatalf("Sphere sample %d outside open unit ball: %v", i, p)
		}
		mean = mean.Add(p)
	}

	// Uniform samples in a ball are centered at the origin
	mean = mean.Multiply(1.0 / n)
	if mean.Length() > 0.02 {
		t.Errorf("Sample mean %v too far from origin", mean)
	}
}

func TestRandomUnitVector(t *testing.T) {
	sampler := NewSeededSampler(123)

	upCount := 0
	const n = 10000
	for i := 0; i < n; i++ {
		v := RandomUnitVector(sampler)
		if math.Abs(v.Length()-1) > 1e-9 {
			t.Fatalf("Unit vector %d has length %f", i, v.Length())
		}
		if v.Y > 0 {
			upCount++
		}
	}

	// Roughly half of the directions should point into each hemisphere
	ratio := float64(upCount) / n
	if math.Abs(ratio-0.5) > 0.03 {
		t.Errorf("Expected about half of the directions above the XZ plane, got %f", ratio)
	}
}

func TestRandomSampler_Range(t *testing.T) {
	sampler := NewSeededSampler(1)
	for i := 0; i < 1000; i++ {
		v := sampler.Get1D()
		if v < 0 || v >= 1 {
			t.Fatalf("Get1D returned %f outside [0,1)", v)
		}
	}
}

func TestSeededSampler_Deterministic(t *testing.T) {
	a := NewSeededSampler(99)
	b := NewSeededSampler(99)
	for i := 0; i < 100; i++ {
		if a.Get1D() != b.Get1D() {
			t.Fatal("Samplers with the same seed diverged")
		}
	}
}
