package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Vec3Cfg is a vector written as a JSON array [x, y, z]
type Vec3Cfg [3]float64

func (v Vec3Cfg) vec() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// CameraCfg describes the camera. Omitted fields keep the defaults of the empty scene.
type CameraCfg struct {
	LookFrom      *Vec3Cfg `json:"lookFrom,omitempty"`
	LookAt        *Vec3Cfg `json:"lookAt,omitempty"`
	Up            *Vec3Cfg `json:"up,omitempty"`
	Width         int      `json:"width,omitempty"`
	AspectRatio   float64  `json:"aspectRatio,omitempty"`
	VFovDeg       float64  `json:"vfovDeg,omitempty"`
	Aperture      float64  `json:"aperture,omitempty"`
	FocusDistance float64  `json:"focusDistance,omitempty"`
	Time0         float64  `json:"time0,omitempty"`
	Time1         float64  `json:"time1,omitempty"`
}

type SamplingCfg struct {
	SamplesPerPixel int `json:"samplesPerPixel,omitempty"`
	MaxDepth        int `json:"maxDepth,omitempty"`
}

type BackgroundCfg struct {
	Bottom Vec3Cfg `json:"bottom"`
	Top    Vec3Cfg `json:"top"`
}

// MaterialCfg is a named material. Type is one of lambertian, metal or dielectric.
type MaterialCfg struct {
	Name            string  `json:"name"`
	Type            string  `json:"type"`
	Albedo          Vec3Cfg `json:"albedo"`
	Fuzz            float64 `json:"fuzz,omitempty"`
	RefractionIndex float64 `json:"refractionIndex,omitempty"`
}

// SphereCfg is a sphere referencing a material by name.
// Setting Center1 makes it a moving sphere travelling from Center at Time0 to Center1 at Time1.
type SphereCfg struct {
	Center   Vec3Cfg  `json:"center"`
	Radius   float64  `json:"radius"`
	Material string   `json:"material"`
	Center1  *Vec3Cfg `json:"center1,omitempty"`
	Time0    float64  `json:"time0,omitempty"`
	Time1    float64  `json:"time1,omitempty"`
}

// Config is the JSON scene description
type Config struct {
	Camera     CameraCfg      `json:"camera"`
	Sampling   SamplingCfg    `json:"sampling"`
	Background *BackgroundCfg `json:"background,omitempty"`
	Materials  []MaterialCfg  `json:"materials"`
	Spheres    []SphereCfg    `json:"spheres"`
}

// Build validates the material parameters (no clamping or defaults).
func (mc MaterialCfg) Build() (material.Material, error) {
	kind, err := material.ParseKind(mc.Type)
	if err != nil {
		return material.Material{}, err
	}
	m := material.Material{
		Kind:            kind,
		Albedo:          mc.Albedo.vec(),
		Fuzz:            mc.Fuzz,
		RefractionIndex: mc.RefractionIndex,
	}
	if err := m.Validate(); err != nil {
		return material.Material{}, err
	}
	return m, nil
}

func (cc CameraCfg) apply(base geometry.CameraConfig) geometry.CameraConfig {
	config := base
	if cc.LookFrom != nil {
		config.Center = cc.LookFrom.vec()
	}
	if cc.LookAt != nil {
		config.LookAt = cc.LookAt.vec()
	}
	if cc.Up != nil {
		config.Up = cc.Up.vec()
	}
	if cc.Width > 0 {
		config.Width = cc.Width
	}
	if cc.AspectRatio > 0 {
		config.AspectRatio = cc.AspectRatio
	}
	if cc.VFovDeg > 0 {
		config.VFov = cc.VFovDeg
	}
	if cc.Aperture > 0 {
		config.Aperture = cc.Aperture
	}
	if cc.FocusDistance > 0 {
		config.FocusDistance = cc.FocusDistance
	}
	config.Time0 = cc.Time0
	config.Time1 = cc.Time1
	return config
}

// ParseScene reads a JSON scene description and builds the scene.
// Camera overrides are applied on top of the camera described in the file.
func ParseScene(r io.Reader, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	var cfg Config
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}

	empty := NewEmptyScene()
	cameraConfig := applyOverrides(cfg.Camera.apply(empty.CameraConfig), cameraOverrides)
	if cameraConfig.Center.Equals(cameraConfig.LookAt) {
		return nil, fmt.Errorf("camera lookFrom and lookAt must differ, both are %v", cameraConfig.Center)
	}
	if cameraConfig.Up.Cross(cameraConfig.Center.Subtract(cameraConfig.LookAt)).NearZero() {
		return nil, fmt.Errorf("camera up vector %v must be non-zero and not parallel to the view direction", cameraConfig.Up)
	}

	samplingConfig := DefaultSamplingConfig()
	if cfg.Sampling.SamplesPerPixel > 0 {
		samplingConfig.SamplesPerPixel = cfg.Sampling.SamplesPerPixel
	}
	if cfg.Sampling.MaxDepth > 0 {
		samplingConfig.MaxDepth = cfg.Sampling.MaxDepth
	}

	s := NewScene(cameraConfig, samplingConfig)
	if cfg.Background != nil {
		s.Background = Background{Bottom: cfg.Background.Bottom.vec(), Top: cfg.Background.Top.vec()}
	}

	handles := make(map[string]material.Handle, len(cfg.Materials))
	for i, mc := range cfg.Materials {
		if mc.Name == "" {
			return nil, fmt.Errorf("material %d has no name", i)
		}
		if _, exists := handles[mc.Name]; exists {
			return nil, fmt.Errorf("duplicate material %q", mc.Name)
		}
		m, err := mc.Build()
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", mc.Name, err)
		}
		handles[mc.Name] = s.AddMaterial(m)
	}

	for i, sc := range cfg.Spheres {
		handle, ok := handles[sc.Material]
		if !ok {
			return nil, fmt.Errorf("sphere %d references unknown material %q", i, sc.Material)
		}
		if sc.Radius == 0 {
			return nil, fmt.Errorf("sphere %d has zero radius", i)
		}
		if sc.Center1 != nil {
			s.AddMovingSphere(sc.Center.vec(), sc.Center1.vec(), sc.Time0, sc.Time1, sc.Radius, handle)
		} else {
			s.AddSphere(sc.Center.vec(), sc.Radius, handle)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadSceneFile loads a JSON scene description from disk
func LoadSceneFile(path string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer f.Close()

	s, err := ParseScene(f, cameraOverrides...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
