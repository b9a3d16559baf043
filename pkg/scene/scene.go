package scene

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Scene contains all the elements needed for rendering.
// A scene is read-only once rendering starts.
type Scene struct {
	Camera         *geometry.Camera
	CameraConfig   geometry.CameraConfig
	World          *geometry.World // Objects in the scene, searched linearly
	Materials      *material.Table // Materials referenced by handle from World
	Background     Background
	SamplingConfig SamplingConfig
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int // Image width
	Height          int // Image height
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// DefaultSamplingConfig returns the sampling settings used by the built-in scenes
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}
}

// Background is the vertical sky gradient seen by rays that escape the scene.
// It is the only light source.
type Background struct {
	Bottom core.Vec3 // Color looking straight down
	Top    core.Vec3 // Color looking straight up
}

// DefaultBackground returns the white to light blue sky
func DefaultBackground() Background {
	return Background{
		Bottom: core.NewVec3(1.0, 1.0, 1.0),
		Top:    core.NewVec3(0.5, 0.7, 1.0),
	}
}

// Color returns the sky color for a ray direction. The direction must be non-zero.
func (b Background) Color(direction core.Vec3) core.Vec3 {
	unitDirection := direction.Normalize()
	t := 0.5 * (unitDirection.Y + 1.0)
	return b.Bottom.Multiply(1.0 - t).Add(b.Top.Multiply(t))
}

// NewScene creates an empty scene with the default background.
// The image size in SamplingConfig is derived from the camera configuration.
func NewScene(cameraConfig geometry.CameraConfig, samplingConfig SamplingConfig) *Scene {
	samplingConfig.Width = cameraConfig.Width
	samplingConfig.Height = cameraConfig.ImageHeight()

	return &Scene{
		Camera:         geometry.NewCamera(cameraConfig),
		CameraConfig:   cameraConfig,
		World:          geometry.NewWorld(),
		Materials:      material.NewTable(),
		Background:     DefaultBackground(),
		SamplingConfig: samplingConfig,
	}
}

// AddMaterial registers a material and returns the handle primitives use to reference it
func (s *Scene) AddMaterial(m material.Material) material.Handle {
	return s.Materials.Add(m)
}

// AddSphere adds a static sphere. A negative radius makes a hollow shell with inward normals.
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat material.Handle) {
	s.World.Add(geometry.NewSphere(center, radius, mat))
}

// AddMovingSphere adds a sphere that moves linearly from center0 at time0 to center1 at time1
func (s *Scene) AddMovingSphere(center0, center1 core.Vec3, time0, time1, radius float64, mat material.Handle) {
	s.World.Add(geometry.NewMovingSphere(center0, center1, time0, time1, radius, mat))
}

// Validate checks that every material is well formed and every primitive
// references a registered material
func (s *Scene) Validate() error {
	for i := 0; i < s.Materials.Len(); i++ {
		if err := s.Materials.Get(material.Handle(i)).Validate(); err != nil {
			return fmt.Errorf("material %d: %w", i, err)
		}
	}
	for i, object := range s.World.Objects() {
		if int(object.MaterialHandle()) >= s.Materials.Len() {
			return fmt.Errorf("%v %d references unknown material %d", object.Kind, i, object.MaterialHandle())
		}
	}
	if s.SamplingConfig.SamplesPerPixel <= 0 {
		return fmt.Errorf("samples per pixel must be positive, got %d", s.SamplingConfig.SamplesPerPixel)
	}
	if s.SamplingConfig.MaxDepth <= 0 {
		return fmt.Errorf("max depth must be positive, got %d", s.SamplingConfig.MaxDepth)
	}
	return nil
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}

// applyOverrides merges the first camera override, if any, onto base
func applyOverrides(base geometry.CameraConfig, overrides []geometry.CameraConfig) geometry.CameraConfig {
	if len(overrides) == 0 {
		return base
	}
	return geometry.MergeCameraConfig(base, overrides[0])
}
