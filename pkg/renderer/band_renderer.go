package renderer

import (
	"math"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

// BandRenderer handles the actual rendering of individual bands using an integrator
type BandRenderer struct {
	scene           *scene.Scene
	integrator      integrator.Integrator
	samplesPerPixel int
}

// NewBandRenderer creates a new band renderer with the given scene and integrator
func NewBandRenderer(scene *scene.Scene, integratorInst integrator.Integrator, samplesPerPixel int) *BandRenderer {
	return &BandRenderer{
		scene:           scene,
		integrator:      integratorInst,
		samplesPerPixel: max(1, samplesPerPixel),
	}
}

// RenderBand renders every pixel in band into pixels, which must hold exactly
// the band's rows. sampler must not be shared with other goroutines.
func (br *BandRenderer) RenderBand(band Band, pixels []uint8, sampler core.Sampler) RenderStats {
	camera := br.scene.Camera
	width := camera.Width()
	scale := 1.0 / float64(br.samplesPerPixel)

	for j := band.Y0; j < band.Y1; j++ {
		row := pixels[(j-band.Y0)*width*BytesPerPixel:]
		for i := 0; i < width; i++ {
			colorAccum := core.Vec3{X: 0, Y: 0, Z: 0}
			for sample := 0; sample < br.samplesPerPixel; sample++ {
				ray := camera.GetRay(i, j, sampler)
				colorAccum = colorAccum.Add(br.integrator.RayColor(ray, br.scene, sampler))
			}

			r, g, b := toRGB8(colorAccum.Multiply(scale))
			row[i*BytesPerPixel] = r
			row[i*BytesPerPixel+1] = g
			row[i*BytesPerPixel+2] = b
		}
	}

	pixelCount := band.Rows() * width
	return RenderStats{
		TotalPixels:  pixelCount,
		TotalSamples: pixelCount * br.samplesPerPixel,
	}
}

// toRGB8 clamps a linear color to [0,1], applies gamma 2 and quantizes to 8 bits
func toRGB8(c core.Vec3) (r, g, b uint8) {
	c = c.Clamp(0.0, 1.0).Sqrt()
	return toByte(c.X), toByte(c.Y), toByte(c.Z)
}

func toByte(v float64) uint8 {
	return uint8(math.Round(255 * v))
}
