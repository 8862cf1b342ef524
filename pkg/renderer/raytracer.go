package renderer

import (
	"runtime"
	"time"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

// RenderConfig controls how the render is split across workers
type RenderConfig struct {
	NumWorkers int   // Number of parallel workers (0 = use CPU count)
	BandHeight int   // Rows per task (0 = one row per task)
	Seed       int64 // Base seed for per-band samplers (0 = seed from the clock)
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		NumWorkers: 0,
		BandHeight: 1,
		Seed:       0,
	}
}

// Raytracer handles the rendering process
type Raytracer struct {
	scene      *scene.Scene
	config     RenderConfig
	sampling   scene.SamplingConfig
	integrator integrator.Integrator
	logger     core.Logger
}

// NewRaytracer creates a new raytracer using the scene's sampling configuration
func NewRaytracer(s *scene.Scene, config RenderConfig, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	rt := &Raytracer{
		scene:  s,
		config: config,
		logger: logger,
	}
	rt.SetSamplingConfig(s.SamplingConfig)
	return rt
}

// SetSamplingConfig updates the sampling configuration and rebuilds the integrator
func (rt *Raytracer) SetSamplingConfig(config scene.SamplingConfig) {
	rt.sampling = config
	rt.integrator = integrator.NewPathTracingIntegrator(config)
}

// SetIntegrator replaces the light transport algorithm
func (rt *Raytracer) SetIntegrator(integratorInst integrator.Integrator) {
	rt.integrator = integratorInst
}

// Render renders the whole image, one task per band, and blocks until every band is done
func (rt *Raytracer) Render() (*Image, RenderStats) {
	start := time.Now()

	camera := rt.scene.Camera
	img := NewImage(camera.Width(), camera.Height())
	bands := NewBandGrid(img.Height, rt.config.BandHeight)

	seed := rt.config.Seed
	if seed == 0 {
		seed = start.UnixNano()
	}

	bandRenderer := NewBandRenderer(rt.scene, rt.integrator, rt.sampling.SamplesPerPixel)
	pool := NewWorkerPool(bandRenderer, len(bands), min(rt.workerCount(), len(bands)))

	rt.logger.Printf("Rendering %dx%d, %d samples/pixel, max depth %d: %d bands on %d workers...\n",
		img.Width, img.Height, rt.sampling.SamplesPerPixel, rt.sampling.MaxDepth, len(bands), pool.GetNumWorkers())

	pool.Start()
	for _, band := range bands {
		pool.SubmitTask(BandTask{
			Band:   band,
			Pixels: img.Rows(band.Y0, band.Y1),
			Seed:   seed + int64(band.ID),
		})
	}
	pool.Stop()

	stats := RenderStats{
		Bands:   len(bands),
		Workers: pool.GetNumWorkers(),
	}
	for {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		stats.merge(result.Stats)
	}
	stats.finalize()
	stats.AverageLuminance = CalculateAverageLuminance(img)
	stats.Duration = time.Since(start)

	rt.logger.Printf("Render completed in %v (%d samples)\n", stats.Duration, stats.TotalSamples)

	return img, stats
}

func (rt *Raytracer) workerCount() int {
	if rt.config.NumWorkers > 0 {
		return rt.config.NumWorkers
	}
	return runtime.NumCPU()
}
