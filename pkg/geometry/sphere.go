package geometry

import (
	"math"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere. radius must be positive.
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// Hit tests if a ray intersects with the sphere.
// The smaller root is accepted when it lies in range; otherwise the larger root is tried.
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	// Vector from ray origin to sphere center
	oc := s.Center.Subtract(ray.Origin)

	// Quadratic in t with b = -2h
	a := ray.Direction.LengthSquared()
	h := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := h*h - a*c

	if discriminant < 0 {
		return nil, false
	}

	if discriminant == 0 {
		// Tangent ray
		root := h / a
		if !inRange(root, tMin, tMax) {
			return nil, false
		}
		return s.hitRecord(ray, root), true
	}

	sqrtD := math.Sqrt(discriminant)

	root := (h - sqrtD) / a
	if !inRange(root, tMin, tMax) {
		root = (h + sqrtD) / a
		if !inRange(root, tMin, tMax) {
			return nil, false
		}
	}

	return s.hitRecord(ray, root), true
}

func (s *Sphere) hitRecord(ray core.Ray, t float64) *material.HitRecord {
	hitRecord := &material.HitRecord{
		T:        t,
		Point:    ray.At(t),
		Material: s.Material,
	}

	outwardNormal := hitRecord.Point.Subtract(s.Center).Divide(s.Radius)
	hitRecord.SetFaceNormal(ray, outwardNormal)

	return hitRecord
}

func inRange(t, tMin, tMax float64) bool {
	return t >= tMin && t <= tMax
}
