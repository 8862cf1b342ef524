package material

import "github.com/df07/go-sphere-pathtracer/pkg/core"

// fixedSampler replays a fixed sequence of values, wrapping around
type fixedSampler struct {
	values []float64
	index  int
}

func (f *fixedSampler) Get1D() float64 {
	v := f.values[f.index%len(f.values)]
	f.index++
	return v
}

func (f *fixedSampler) Get2D() core.Vec2 {
	return core.NewVec2(f.Get1D(), f.Get1D())
}

func (f *fixedSampler) Get3D() core.Vec3 {
	return core.NewVec3(f.Get1D(), f.Get1D(), f.Get1D())
}

// downUnitVector makes core.RandomUnitVector return (0, -1, 0)
func downUnitVector() *fixedSampler {
	return &fixedSampler{values: []float64{0.5, 0.25, 0.5}}
}
