package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

func main() {
	// Parse command line flags
	sceneType := flag.String("scene", "default", "Built-in scene ("+strings.Join(scene.Names(), ", ")+") or path to a .json scene file")
	configPath := flag.String("config", "", "JSON scene file (overrides -scene)")
	mode := flag.String("mode", "progressive", "Rendering mode: 'normal' (single goroutine) or 'progressive'")
	width := flag.Int("width", 0, "Image width in pixels (0 = scene default)")
	samples := flag.Int("samples", 0, "Samples per pixel (0 = scene default)")
	depth := flag.Int("depth", 0, "Maximum bounce depth (0 = scene default)")
	passes := flag.Int("passes", 7, "Number of progressive passes")
	workers := flag.Int("workers", 0, "Number of parallel workers (0 = CPU count)")
	tileSize := flag.Int("tile", 64, "Tile size in pixels")
	seed := flag.Int64("seed", 42, "Base random seed")
	output := flag.String("output", "", "Output PNG path (default output/<scene>/render_<timestamp>.png)")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Go Path Tracer")
		fmt.Println("Usage: pathtracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		for _, info := range scene.ListScenes() {
			fmt.Printf("  %-15s %s\n", info.ID, info.Description)
		}
		return
	}

	name := *sceneType
	if *configPath != "" {
		name = *configPath
	}

	if err := validateFlags(*width, *samples, *depth, *passes, *workers, *tileSize); err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	fmt.Println("Starting Go Path Tracer...")
	selectedScene, err := createScene(name, geometry.CameraConfig{Width: *width})
	if err != nil {
		log.Fatalf("Error creating scene: %v", err)
	}
	applySamplingOverrides(selectedScene, *samples, *depth)

	fmt.Printf("Scene: %s (%d objects, %dx%d, %d spp, depth %d)\n", name, selectedScene.GetPrimitiveCount(),
		selectedScene.SamplingConfig.Width, selectedScene.SamplingConfig.Height,
		selectedScene.SamplingConfig.SamplesPerPixel, selectedScene.SamplingConfig.MaxDepth)

	integ := integrator.NewPathTracingIntegrator(selectedScene.SamplingConfig)
	startTime := time.Now()

	var img *image.RGBA
	switch *mode {
	case "normal":
		var stats renderer.RenderStats
		img, stats = renderer.NewRaytracer(selectedScene, integ, *seed).RenderPass()
		fmt.Printf("Samples per pixel: %.1f (range %d - %d)\n", stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed)
	case "progressive":
		config := renderer.DefaultProgressiveConfig()
		config.MaxPasses = *passes
		config.NumWorkers = *workers
		config.TileSize = *tileSize
		config.Seed = *seed
		img, err = renderProgressive(selectedScene, config, integ)
		if err != nil {
			log.Fatalf("Error rendering: %v", err)
		}
	default:
		log.Fatalf("Unknown mode %q: use 'normal' or 'progressive'", *mode)
	}

	fmt.Printf("Render completed in %v\n", time.Since(startTime))

	filename := *output
	if filename == "" {
		outputDir := createOutputDir(name)
		timestamp := time.Now().Format("20060102_150405")
		filename = filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))
	}
	if err := savePNG(img, filename); err != nil {
		log.Fatalf("Error saving PNG: %v", err)
	}

	fmt.Printf("Render saved as %s\n", filename)
}

// validateFlags rejects negative numeric options; zero keeps the default
func validateFlags(width, samples, depth, passes, workers, tileSize int) error {
	options := []struct {
		name  string
		value int
	}{
		{"width", width},
		{"samples", samples},
		{"depth", depth},
		{"passes", passes},
		{"workers", workers},
		{"tile", tileSize},
	}
	for _, option := range options {
		if option.value < 0 {
			return fmt.Errorf("-%s must not be negative, got %d", option.name, option.value)
		}
	}
	return nil
}

// createScene builds a built-in scene by name, or loads a JSON scene file when sceneType is a .json path
func createScene(sceneType string, cameraOverride geometry.CameraConfig) (*scene.Scene, error) {
	if strings.HasSuffix(strings.ToLower(sceneType), ".json") {
		return scene.LoadSceneFile(sceneType, cameraOverride)
	}
	return scene.Create(sceneType, cameraOverride)
}

// applySamplingOverrides replaces sampling settings with positive command line values
func applySamplingOverrides(s *scene.Scene, samples, depth int) {
	if samples > 0 {
		s.SamplingConfig.SamplesPerPixel = samples
	}
	if depth > 0 {
		s.SamplingConfig.MaxDepth = depth
	}
}

// renderProgressive runs every pass and returns the final image
func renderProgressive(s *scene.Scene, config renderer.ProgressiveConfig, integ integrator.Integrator) (*image.RGBA, error) {
	raytracer := renderer.NewProgressiveRaytracer(s, config, integ, renderer.NewDefaultLogger())
	passChan, _, errChan := raytracer.RenderProgressive(context.Background(), renderer.RenderOptions{})

	var last *image.RGBA
	for pass := range passChan {
		last = pass.Image
	}
	if err := <-errChan; err != nil {
		return nil, err
	}
	if last == nil {
		return nil, fmt.Errorf("no passes rendered")
	}
	return last, nil
}

// createOutputDir returns output/<scene name>, using the file name without extension for scene files
func createOutputDir(sceneType string) string {
	base := filepath.Base(sceneType)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		base = "scene"
	}
	return filepath.Join("output", base)
}

// savePNG writes img to filename, creating parent directories as needed
func savePNG(img image.Image, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}
