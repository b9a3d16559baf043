package renderer

import (
	"image"
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// TileRenderer handles the actual rendering of individual tiles using an integrator.
// It holds no mutable state, so one TileRenderer can serve many goroutines.
type TileRenderer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
}

// NewTileRenderer creates a new tile renderer with the given scene and integrator
func NewTileRenderer(s *scene.Scene, integ integrator.Integrator) *TileRenderer {
	return &TileRenderer{
		scene:      s,
		integrator: integ,
	}
}

// RenderTileBounds samples every pixel within bounds until it holds targetSamples samples.
// random must not be shared with another goroutine while this runs.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, pixelStats [][]PixelStats, random *rand.Rand, targetSamples int) RenderStats {
	sampler := core.NewRandomSampler(random)

	stats := RenderStats{
		TotalPixels: bounds.Dx() * bounds.Dy(),
		MaxSamples:  targetSamples,
		MinSamples:  targetSamples, // Start with max, will be reduced
	}

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			stats.accumulate(tr.samplePixel(i, j, &pixelStats[j][i], sampler, targetSamples))
		}
	}

	stats.finalize()
	return stats
}

// samplePixel adds samples to ps until it reaches targetSamples and returns how many were taken
func (tr *TileRenderer) samplePixel(i, j int, ps *PixelStats, sampler core.Sampler, targetSamples int) int {
	width := float64(tr.scene.SamplingConfig.Width)
	height := float64(tr.scene.SamplingConfig.Height)
	initialSampleCount := ps.SampleCount

	for ps.SampleCount < targetSamples {
		// Image row 0 is the top of the viewport, camera t=0 is the bottom
		s := (float64(i) + sampler.Get1D()) / width
		t := (height - 1 - float64(j) + sampler.Get1D()) / height

		ray := tr.scene.Camera.GetRay(s, t, sampler)
		ps.AddSample(tr.integrator.RayColor(ray, tr.scene, sampler))
	}

	return ps.SampleCount - initialSampleCount
}
