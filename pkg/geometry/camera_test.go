package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

// countingSampler returns a constant value and counts how many draws were made
type countingSampler struct {
	value float64
	draws int
}

func (s *countingSampler) Get1D() float64 {
	s.draws++
	return s.value
}

func (s *countingSampler) Get2D() core.Vec2 {
	return core.NewVec2(s.Get1D(), s.Get1D())
}

func (s *countingSampler) Get3D() core.Vec3 {
	return core.NewVec3(s.Get1D(), s.Get1D(), s.Get1D())
}

func pinholeConfig() CameraConfig {
	return CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 2.0,
		VFov:        90.0,
	}
}

func TestCamera_PinholeRays(t *testing.T) {
	camera := NewCamera(pinholeConfig())
	sampler := &countingSampler{value: 0.5}

	tests := []struct {
		name     string
		s, t     float64
		expected core.Vec3
	}{
		{"center", 0.5, 0.5, core.NewVec3(0, 0, -1)},
		{"lower left", 0, 0, core.NewVec3(-2, -1, -1)},
		{"upper right", 1, 1, core.NewVec3(2, 1, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := camera.GetRay(tt.s, tt.t, sampler)
			if !ray.Origin.Equals(core.NewVec3(0, 0, 0)) {
				t.Errorf("Pinhole ray should start at the camera center, got %v", ray.Origin)
			}
			if ray.Direction.Subtract(tt.expected).Length() > 1e-9 {
				t.Errorf("Expected direction %v, got %v", tt.expected, ray.Direction)
			}
		})
	}

	if sampler.draws != 0 {
		t.Errorf("Pinhole camera with a closed shutter should not draw samples, drew %d", sampler.draws)
	}
}

func TestCamera_ForwardDirection(t *testing.T) {
	config := pinholeConfig()
	config.Center = core.NewVec3(3, 3, 2)
	config.LookAt = core.NewVec3(0, 0, -1)
	camera := NewCamera(config)

	expected := config.LookAt.Subtract(config.Center).Normalize()
	if camera.GetCameraForward().Subtract(expected).Length() > 1e-12 {
		t.Errorf("Expected forward %v, got %v", expected, camera.GetCameraForward())
	}

	// The image center ray points at LookAt
	ray := camera.GetRay(0.5, 0.5, &countingSampler{value: 0.5})
	if ray.Direction.Normalize().Subtract(expected).Length() > 1e-9 {
		t.Errorf("Center ray %v should point at LookAt", ray.Direction)
	}
}

func TestCamera_DepthOfFieldKeepsFocusPlaneSharp(t *testing.T) {
	config := pinholeConfig()
	config.Aperture = 0.5
	config.FocusDistance = 4.0
	camera := NewCamera(config)
	sampler := core.NewSeededSampler(42)

	pinhole := config
	pinhole.Aperture = 0
	focusPoint := NewCamera(pinhole).GetRay(0.3, 0.7, sampler).At(1)

	sawOffset := false
	for i := 0; i < 100; i++ {
		ray := camera.GetRay(0.3, 0.7, sampler)

		// Lens offset stays on the lens disk in the camera's u/v plane
		offset := ray.Origin.Subtract(config.Center)
		if offset.Length() >= config.Aperture/2 {
			t.Fatalf("Lens offset %v outside aperture radius", offset)
		}
		if math.Abs(offset.Z) > 1e-12 {
			t.Fatalf("Lens offset %v should lie in the lens plane", offset)
		}
		if offset.Length() > 1e-6 {
			sawOffset = true
		}

		// Every ray for the same pixel meets at the focus plane
		if ray.At(1).Subtract(focusPoint).Length() > 1e-9 {
			t.Fatalf("Ray %d crosses the focus plane at %v, expected %v", i, ray.At(1), focusPoint)
		}
	}

	if !sawOffset {
		t.Error("Expected lens sampling to move the ray origin")
	}
	if math.Abs(focusPoint.Z+4) > 1e-9 {
		t.Errorf("Focus plane should be 4 units ahead, got z=%f", focusPoint.Z)
	}
}

func TestCamera_AutoFocusDistance(t *testing.T) {
	config := pinholeConfig()
	config.LookAt = core.NewVec3(0, 0, -3)
	camera := NewCamera(config)

	ray := camera.GetRay(0.5, 0.5, &countingSampler{value: 0.5})
	if math.Abs(ray.At(1).Z+3) > 1e-9 {
		t.Errorf("Expected the viewport at the LookAt distance, got %v", ray.At(1))
	}
}

func TestCamera_ShutterTime(t *testing.T) {
	config := pinholeConfig()
	config.Time0 = 0.25
	config.Time1 = 0.75
	camera := NewCamera(config)
	sampler := core.NewSeededSampler(3)

	minTime, maxTime := math.Inf(1), math.Inf(-1)
	for i := 0; i < 1000; i++ {
		ray := camera.GetRay(0.5, 0.5, sampler)
		if ray.Time < config.Time0 || ray.Time >= config.Time1 {
			t.Fatalf("Ray time %f outside shutter interval", ray.Time)
		}
		minTime = math.Min(minTime, ray.Time)
		maxTime = math.Max(maxTime, ray.Time)
	}
	if minTime > 0.3 || maxTime < 0.7 {
		t.Errorf("Ray times should cover the shutter interval, got [%f, %f]", minTime, maxTime)
	}

	config.Time0, config.Time1 = 0.5, 0.5
	fixed := NewCamera(config)
	if ray := fixed.GetRay(0.5, 0.5, sampler); ray.Time != 0.5 {
		t.Errorf("Closed shutter should use Time0, got %f", ray.Time)
	}
}

func TestMergeCameraConfig(t *testing.T) {
	base := pinholeConfig()
	override := CameraConfig{
		Width:    800,
		Aperture: 0.1,
		Time1:    1,
	}

	merged := MergeCameraConfig(base, override)
	if merged.Width != 800 || merged.Aperture != 0.1 || merged.Time1 != 1 {
		t.Errorf("Overrides not applied: %+v", merged)
	}
	if merged.VFov != base.VFov || merged.AspectRatio != base.AspectRatio || !merged.LookAt.Equals(base.LookAt) {
		t.Errorf("Zero-valued overrides should keep base values: %+v", merged)
	}
}

func TestCameraConfig_ImageHeight(t *testing.T) {
	tests := []struct {
		width    int
		aspect   float64
		expected int
	}{
		{400, 2.0, 200},
		{400, 1.0, 400},
		{10, 100.0, 1},
	}
	for _, tt := range tests {
		config := CameraConfig{Width: tt.width, AspectRatio: tt.aspect}
		if got := config.ImageHeight(); got != tt.expected {
			t.Errorf("ImageHeight(%d, %f) = %d, expected %d", tt.width, tt.aspect, got, tt.expected)
		}
	}
}
