package scene

import (
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// DefaultSceneSeed seeds the procedural scenes when none is given
const DefaultSceneSeed = 42

// NewRandomSpheresScene creates the classic field of small random spheres around three large ones.
// The same seed always produces the same scene. When moving is set, the small diffuse
// spheres bounce upward while the shutter is open, producing motion blur.
func NewRandomSpheresScene(seed int64, moving bool, cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		Width:         600,
		AspectRatio:   3.0 / 2.0,
		VFov:          20.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}
	if moving {
		defaultCameraConfig.Time0 = 0.0
		defaultCameraConfig.Time1 = 1.0
	}

	s := NewScene(applyOverrides(defaultCameraConfig, cameraOverrides), DefaultSamplingConfig())
	random := rand.New(rand.NewSource(seed))

	ground := s.AddMaterial(material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	s.AddSphere(core.NewVec3(0, -1000, 0), 1000, ground)

	// One glass material shared by every small glass sphere and the large one
	glass := s.AddMaterial(material.NewDielectric(1.5))
	keepClear := core.NewVec3(4, 0.2, 0)

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMaterial := random.Float64()
			center := core.NewVec3(
				float64(a)+0.9*random.Float64(),
				0.2,
				float64(b)+0.9*random.Float64(),
			)
			if center.Subtract(keepClear).Length() <= 0.9 {
				continue
			}

			switch {
			case chooseMaterial < 0.8:
				albedo := core.NewVec3(
					random.Float64()*random.Float64(),
					random.Float64()*random.Float64(),
					random.Float64()*random.Float64(),
				)
				mat := s.AddMaterial(material.NewLambertian(albedo))
				if moving {
					center1 := center.Add(core.NewVec3(0, 0.5*random.Float64(), 0))
					s.AddMovingSphere(center, center1, 0.0, 1.0, 0.2, mat)
				} else {
					s.AddSphere(center, 0.2, mat)
				}
			case chooseMaterial < 0.95:
				albedo := core.NewVec3(
					0.5*(1+random.Float64()),
					0.5*(1+random.Float64()),
					0.5*(1+random.Float64()),
				)
				mat := s.AddMaterial(material.NewMetal(albedo, 0.5*random.Float64()))
				s.AddSphere(center, 0.2, mat)
			default:
				s.AddSphere(center, 0.2, glass)
			}
		}
	}

	s.AddSphere(core.NewVec3(0, 1, 0), 1.0, glass)
	s.AddSphere(core.NewVec3(-4, 1, 0), 1.0, s.AddMaterial(material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))))
	s.AddSphere(core.NewVec3(4, 1, 0), 1.0, s.AddMaterial(material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)))

	return s
}
