package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// scatterLambertian scatters around the normal with a Lambertian (cosine) distribution
func scatterLambertian(m Material, rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	scatterDirection := hit.Normal.Add(core.RandomUnitVector(sampler))

	// Catch degenerate scatter direction
	if scatterDirection.NearZero() {
		scatterDirection = hit.Normal
	}

	return ScatterResult{
		Scattered:   core.NewRayAtTime(hit.Point, scatterDirection, rayIn.Time),
		Attenuation: m.Albedo,
	}, true
}
