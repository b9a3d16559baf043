package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ColorToRGBA converts a linear sample-averaged color to 8-bit sRGB-ish display values:
// gamma 2 (square root), clamp to [0, 0.999], then scale by 256.
// Negative and NaN components map to 0.
func ColorToRGBA(c core.Vec3) color.RGBA {
	return color.RGBA{
		R: channelToByte(c.X),
		G: channelToByte(c.Y),
		B: channelToByte(c.Z),
		A: 255,
	}
}

func channelToByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	v = math.Min(math.Sqrt(v), 0.999)
	return uint8(256 * v)
}

// pixelStatsToImage renders the averaged colors inside bounds to an image whose origin is bounds.Min
func pixelStatsToImage(pixelStats [][]PixelStats, bounds image.Rectangle) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, ColorToRGBA(pixelStats[y][x].GetColor()))
		}
	}
	return img
}
