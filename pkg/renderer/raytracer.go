package renderer

import (
	"image"
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Raytracer renders a whole image on the calling goroutine in a single pass
type Raytracer struct {
	scene        *scene.Scene
	width        int
	height       int
	tileRenderer *TileRenderer
	random       *rand.Rand
}

// NewRaytracer creates a new raytracer. The same seed always produces the same image.
func NewRaytracer(s *scene.Scene, integ integrator.Integrator, seed int64) *Raytracer {
	return &Raytracer{
		scene:        s,
		width:        s.SamplingConfig.Width,
		height:       s.SamplingConfig.Height,
		tileRenderer: NewTileRenderer(s, integ),
		random:       rand.New(rand.NewSource(seed)),
	}
}

// RenderPass takes the scene's SamplesPerPixel samples for every pixel and returns the image
func (rt *Raytracer) RenderPass() (*image.RGBA, RenderStats) {
	bounds := image.Rect(0, 0, rt.width, rt.height)
	pixelStats := newPixelStats(rt.width, rt.height)

	stats := rt.tileRenderer.RenderTileBounds(bounds, pixelStats, rt.random, rt.scene.SamplingConfig.SamplesPerPixel)
	return pixelStatsToImage(pixelStats, bounds), stats
}
