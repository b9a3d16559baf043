package integrator

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// hitEpsilon keeps scattered rays from re-hitting the surface they left
const hitEpsilon = 0.001

// PathTracingIntegrator implements unidirectional path tracing with a fixed depth cutoff
type PathTracingIntegrator struct {
	MaxDepth int // Paths are terminated (black) after this many bounces
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(config scene.SamplingConfig) *PathTracingIntegrator {
	return &PathTracingIntegrator{MaxDepth: config.MaxDepth}
}

// RayColor computes the color for a single camera ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Vec3 {
	return pt.Color(ray, s, sampler, 0)
}

// Color returns the radiance along ray for a path that has already bounced depth times
func (pt *PathTracingIntegrator) Color(ray core.Ray, s *scene.Scene, sampler core.Sampler, depth int) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth >= pt.MaxDepth {
		return core.Vec3{}
	}

	hit, isHit := s.World.Hit(ray, hitEpsilon, math.Inf(1))
	if !isHit {
		return s.Background.Color(ray.Direction)
	}

	scatter, didScatter := s.Materials.Get(hit.Material).Scatter(ray, *hit, sampler)
	if !didScatter {
		return core.Vec3{}
	}

	return scatter.Attenuation.MultiplyVec(pt.Color(scatter.Scattered, s, sampler, depth+1))
}
