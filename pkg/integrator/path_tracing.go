package integrator

import (
	"math"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

// ShadowAcneEpsilon is the minimum hit distance, which keeps a bounce from
// re-hitting the surface it just left because of rounding
const ShadowAcneEpsilon = 0.001

var (
	skyTopColor    = core.NewVec3(0.5, 0.7, 1.0)
	skyBottomColor = core.NewVec3(1.0, 1.0, 1.0)
)

// PathTracingIntegrator implements unidirectional path tracing
type PathTracingIntegrator struct {
	config scene.SamplingConfig
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(config scene.SamplingConfig) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		config: config,
	}
}

// RayColor computes the color for a single ray, following at most MaxDepth bounces
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, scene *scene.Scene, sampler core.Sampler) core.Vec3 {
	return pt.rayColor(ray, scene, sampler, pt.config.MaxDepth)
}

// rayColor walks the path iteratively, carrying the product of attenuations
// so far instead of recursing once per bounce
func (pt *PathTracingIntegrator) rayColor(ray core.Ray, scene *scene.Scene, sampler core.Sampler, depth int) core.Vec3 {
	throughput := core.NewVec3(1, 1, 1)

	for ; depth > 0; depth-- {
		hit, isHit := scene.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
		if !isHit {
			return throughput.MultiplyVec(BackgroundGradient(ray))
		}

		scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
		if !didScatter {
			// Absorbed: the terminal attenuation is black
			return throughput.MultiplyVec(scatter.Attenuation)
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		ray = scatter.Scattered
	}

	// Exceeded the ray bounce limit, no more light is gathered
	return core.Vec3{X: 0, Y: 0, Z: 0}
}

// BackgroundGradient returns the sky color seen along a ray that escapes the scene
func BackgroundGradient(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()

	// Map y from [-1,1] to [0,1]
	a := 0.5 * (unitDirection.Y + 1.0)

	return skyBottomColor.Multiply(1.0 - a).Add(skyTopColor.Multiply(a))
}
