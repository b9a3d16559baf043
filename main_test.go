package main

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

func TestCreateScene(t *testing.T) {
	sceneFile := filepath.Join(t.TempDir(), "mirror.json")
	sceneJSON := `{
		"camera": {"lookFrom": [0, 0, 1], "lookAt": [0, 0, -1], "width": 40, "aspectRatio": 2},
		"materials": [{"name": "mirror", "type": "metal", "albedo": [0.9, 0.9, 0.9]}],
		"spheres": [{"center": [0, 0, -1], "radius": 0.5, "material": "mirror"}]
	}`
	if err := os.WriteFile(sceneFile, []byte(sceneJSON), 0o644); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}

	tests := []struct {
		name        string
		sceneType   string
		expectError bool
	}{
		// Built-in scenes
		{"default scene", "default", false},
		{"random spheres scene", "random-spheres", false},
		{"moving spheres scene", "moving-spheres", false},
		{"empty scene", "empty", false},

		// Scene files
		{"json scene file", sceneFile, false},
		{"missing json file", filepath.Join(t.TempDir(), "missing.json"), true},

		// Invalid scenes
		{"unknown scene", "nonexistent", true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene, err := createScene(tt.sceneType, geometry.CameraConfig{})

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene type '%s', but got none", tt.sceneType)
				}
				if scene != nil {
					t.Errorf("Expected nil scene for invalid scene type '%s'", tt.sceneType)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for scene type '%s': %v", tt.sceneType, err)
			}
			if scene.CameraConfig.Width <= 0 {
				t.Errorf("Scene camera width should be positive, got %d", scene.CameraConfig.Width)
			}
			if scene.SamplingConfig.Height <= 0 || scene.SamplingConfig.Width <= 0 {
				t.Errorf("Scene sampling size should be positive, got %dx%d", scene.SamplingConfig.Width, scene.SamplingConfig.Height)
			}
		})
	}
}

func TestCreateScene_WidthOverride(t *testing.T) {
	scene, err := createScene("default", geometry.CameraConfig{Width: 64})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if scene.SamplingConfig.Width != 64 || scene.SamplingConfig.Height != 36 {
		t.Errorf("Expected 64x36, got %dx%d", scene.SamplingConfig.Width, scene.SamplingConfig.Height)
	}
}

func TestValidateFlags(t *testing.T) {
	if err := validateFlags(0, 0, 0, 7, 0, 64); err != nil {
		t.Errorf("Expected defaults to be valid, got %v", err)
	}

	tests := []struct {
		name                                         string
		width, samples, depth, passes, workers, tile int
	}{
		{"negative width", -5, 0, 0, 7, 0, 64},
		{"negative samples", 0, -1, 0, 7, 0, 64},
		{"negative depth", 0, 0, -1, 7, 0, 64},
		{"negative passes", 0, 0, 0, -1, 0, 64},
		{"negative workers", 0, 0, 0, 7, -2, 64},
		{"negative tile", 0, 0, 0, 7, 0, -64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFlags(tt.width, tt.samples, tt.depth, tt.passes, tt.workers, tt.tile)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
		})
	}
}

func TestApplySamplingOverrides(t *testing.T) {
	scene, _ := createScene("empty", geometry.CameraConfig{})
	original := scene.SamplingConfig

	applySamplingOverrides(scene, 0, 0)
	if scene.SamplingConfig != original {
		t.Errorf("Zero overrides should keep scene defaults, got %+v", scene.SamplingConfig)
	}

	applySamplingOverrides(scene, 8, 3)
	if scene.SamplingConfig.SamplesPerPixel != 8 || scene.SamplingConfig.MaxDepth != 3 {
		t.Errorf("Overrides not applied: %+v", scene.SamplingConfig)
	}
}

func TestCreateOutputDir(t *testing.T) {
	tests := []struct {
		name         string
		sceneType    string
		expectedBase string
	}{
		{"default scene", "default", "default"},
		{"random spheres", "random-spheres", "random-spheres"},
		{"scene file path", "scenes/mirror.json", "mirror"},
		{"nested scene file", "scenes/subdir/my-scene.json", "my-scene"},
		{"empty name", "", "scene"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outputDir := createOutputDir(tt.sceneType)

			if outputDir != filepath.Join("output", tt.expectedBase) {
				t.Errorf("Expected output/%s, got '%s'", tt.expectedBase, outputDir)
			}
		})
	}
}

func TestRenderProgressiveAndSave(t *testing.T) {
	scene, err := createScene("default", geometry.CameraConfig{Width: 16})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	applySamplingOverrides(scene, 2, 4)

	config := renderer.DefaultProgressiveConfig()
	config.MaxPasses = 2
	config.TileSize = 8
	img, err := renderProgressive(scene, config, integrator.NewPathTracingIntegrator(scene.SamplingConfig))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	filename := filepath.Join(t.TempDir(), "nested", "render.png")
	if err := savePNG(img, filename); err != nil {
		t.Fatalf("Unexpected error saving: %v", err)
	}

	file, err := os.Open(filename)
	if err != nil {
		t.Fatalf("Failed to open saved image: %v", err)
	}
	defer file.Close()

	decoded, err := png.Decode(file)
	if err != nil {
		t.Fatalf("Saved file is not a PNG: %v", err)
	}
	if decoded.Bounds() != image.Rect(0, 0, 16, 9) {
		t.Errorf("Expected 16x9 image, got %v", decoded.Bounds())
	}
}

func TestSavePNG_BadPath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	err := savePNG(image.NewRGBA(image.Rect(0, 0, 1, 1)), filepath.Join(blocker, "render.png"))
	if err == nil || !strings.Contains(err.Error(), "output directory") {
		t.Errorf("Expected output directory error, got %v", err)
	}
}
