package scene

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

// NewDefaultScene creates a small scene with a ground sphere and one sphere of each material
func NewDefaultScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(-2, 2, 1),
		LookAt:        core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          20.0,
		DefocusAngle:  10.0,
		FocusDistance: 3.4,
	}

	s := NewScene(applyOverrides(defaultCameraConfig, cameraOverrides), DefaultSamplingConfig())

	materialGround := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	materialCenter := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	materialLeft := material.NewDielectric(1.5)
	materialBubble := material.NewDielectric(1.0 / 1.5)
	materialRight := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 1.0)

	s.AddSphere(core.NewVec3(0, -100.5, -1), 100, materialGround)
	s.AddSphere(core.NewVec3(0, 0, -1.2), 0.5, materialCenter)
	s.AddSphere(core.NewVec3(-1, 0, -1), 0.5, materialLeft)
	// Air bubble inside the glass sphere makes it hollow
	s.AddSphere(core.NewVec3(-1, 0, -1), 0.4, materialBubble)
	s.AddSphere(core.NewVec3(1, 0, -1), 0.5, materialRight)

	return s
}

// NewEmptyScene creates a scene without objects; every ray sees the sky gradient
func NewEmptyScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	return NewScene(applyOverrides(geometry.DefaultCameraConfig(), cameraOverrides), DefaultSamplingConfig())
}
