package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

func simpleCameraConfig() CameraConfig {
	return CameraConfig{
		Center:        core.NewVec3(0, 0, 0),
		LookAt:        core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		Width:         2,
		AspectRatio:   1.0,
		VFov:          90.0,
		FocusDistance: 1.0,
	}
}

func TestCamera_ImageHeight(t *testing.T) {
	tests := []struct {
		name        string
		width       int
		aspectRatio float64
		expected    int
	}{
		{"16:9", 400, 16.0 / 9.0, 225},
		{"square", 300, 1.0, 300},
		{"portrait", 100, 0.5, 200},
		{"clamped to one row", 10, 100.0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := simpleCameraConfig()
			config.Width = tt.width
			config.AspectRatio = tt.aspectRatio
			camera := NewCamera(config)

			if camera.Height() != tt.expected {
				t.Errorf("Expected height %d, got %d", tt.expected, camera.Height())
			}
			if camera.Width() != tt.width {
				t.Errorf("Expected width %d, got %d", tt.width, camera.Width())
			}
		})
	}
}

func TestCameraGetCameraForward(t *testing.T) {
	config := simpleCameraConfig()
	config.Center = core.NewVec3(13, 2, 3)
	config.LookAt = core.NewVec3(0, 0, 0)
	camera := NewCamera(config)

	forward := camera.GetCameraForward()
	expected := core.NewVec3(-13, -2, -3).Normalize()

	if forward.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected forward direction %v, got %v", expected, forward)
	}
}

func TestCamera_PixelCenters(t *testing.T) {
	camera := NewCamera(simpleCameraConfig())

	tests := []struct {
		i, j     int
		expected core.Vec3
	}{
		{0, 0, core.NewVec3(-0.5, 0.5, -1)},
		{1, 0, core.NewVec3(0.5, 0.5, -1)},
		{0, 1, core.NewVec3(-0.5, -0.5, -1)},
		{1, 1, core.NewVec3(0.5, -0.5, -1)},
	}

	for _, tt := range tests {
		got := camera.PixelCenter(tt.i, tt.j)
		if got.Subtract(tt.expected).Length() > 1e-9 {
			t.Errorf("PixelCenter(%d, %d): expected %v, got %v", tt.i, tt.j, tt.expected, got)
		}
	}
}

func TestCamera_GetRay_Pinhole(t *testing.T) {
	camera := NewCamera(simpleCameraConfig())
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	for n := 0; n < 500; n++ {
		ray := camera.GetRay(0, 0, sampler)

		if ray.Origin != camera.Center() {
			t.Fatalf("Pinhole ray should start at the camera center, got %v", ray.Origin)
		}

		// Direction reaches the focus plane inside pixel (0, 0)'s footprint
		target := ray.Origin.Add(ray.Direction)
		if target.X < -1 || target.X >= 0 || target.Y <= 0 || target.Y > 1 || math.Abs(target.Z+1) > 1e-9 {
			t.Fatalf("Jittered target %v outside pixel (0, 0)", target)
		}
	}
}

func TestCamera_GetRay_Defocus(t *testing.T) {
	config := simpleCameraConfig()
	config.DefocusAngle = 10.0
	config.FocusDistance = 5.0
	camera := NewCamera(config)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	radius := 5.0 * math.Tan(5.0*math.Pi/180.0)
	sawOffset := false

	for n := 0; n < 500; n++ {
		ray := camera.GetRay(1, 1, sampler)

		offset := ray.Origin.Subtract(camera.Center())
		if offset.Length() >= radius+1e-9 {
			t.Fatalf("Origin offset %v exceeds defocus radius %v", offset.Length(), radius)
		}
		// The disk lies in the plane spanned by u and v
		if math.Abs(offset.Z) > 1e-9 {
			t.Fatalf("Origin offset %v leaves the lens plane", offset)
		}
		if offset.Length() > 1e-6 {
			sawOffset = true
		}

		// All rays through a pixel converge on the focus plane
		target := ray.Origin.Add(ray.Direction)
		if math.Abs(target.Z+5) > 1e-9 {
			t.Fatalf("Target %v should lie on the focus plane z=-5", target)
		}
	}

	if !sawOffset {
		t.Error("Expected defocus to move ray origins off the camera center")
	}
}

func TestMergeCameraConfig(t *testing.T) {
	base := DefaultCameraConfig()
	override := CameraConfig{
		Width:        800,
		VFov:         20,
		DefocusAngle: 0.6,
		Center:       core.NewVec3(13, 2, 3),
	}

	merged := MergeCameraConfig(base, override)

	if merged.Width != 800 || merged.VFov != 20 || merged.DefocusAngle != 0.6 {
		t.Errorf("Override fields not applied: %+v", merged)
	}
	if merged.Center != override.Center {
		t.Errorf("Expected center %v, got %v", override.Center, merged.Center)
	}
	if merged.LookAt != base.LookAt || merged.AspectRatio != base.AspectRatio || merged.FocusDistance != base.FocusDistance {
		t.Errorf("Zero override fields should keep base values: %+v", merged)
	}
}
