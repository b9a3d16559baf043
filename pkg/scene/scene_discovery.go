package scene

import (
	"fmt"
	"sort"

	"github.com/df07/go-pathtracer/pkg/geometry"
)

// SceneInfo represents a built-in scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
}

type builtin struct {
	info   SceneInfo
	create func(cameraOverrides ...geometry.CameraConfig) *Scene
}

var builtins = map[string]builtin{
	"default": {
		info: SceneInfo{ID: "default", DisplayName: "Default", Description: "Diffuse, metal and glass spheres with a hollow glass shell"},
		create: func(overrides ...geometry.CameraConfig) *Scene {
			return NewDefaultScene(overrides...)
		},
	},
	"random-spheres": {
		info: SceneInfo{ID: "random-spheres", DisplayName: "Random Spheres", Description: "Field of small random spheres around three large ones"},
		create: func(overrides ...geometry.CameraConfig) *Scene {
			return NewRandomSpheresScene(DefaultSceneSeed, false, overrides...)
		},
	},
	"moving-spheres": {
		info: SceneInfo{ID: "moving-spheres", DisplayName: "Moving Spheres", Description: "Random spheres with motion blur"},
		create: func(overrides ...geometry.CameraConfig) *Scene {
			return NewRandomSpheresScene(DefaultSceneSeed, true, overrides...)
		},
	},
	"empty": {
		info: SceneInfo{ID: "empty", DisplayName: "Empty", Description: "Sky only"},
		create: func(overrides ...geometry.CameraConfig) *Scene {
			return NewEmptyScene(overrides...)
		},
	},
}

// Names returns the built-in scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListScenes returns metadata for every built-in scene, sorted by display name
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtins))
	for _, b := range builtins {
		scenes = append(scenes, b.info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes
}

// Create builds the named built-in scene
func Create(name string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (available: %v)", name, Names())
	}
	return b.create(cameraOverrides...), nil
}
