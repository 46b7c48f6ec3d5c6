package geometry

import (
	"math"

	"github.com/df07/rtiaw/pkg/core"
)

// Sphere represents a sphere shape. A negative radius keeps the geometry but
// flips the normals, which models the inner wall of a hollow glass shell.
type Sphere struct {
	Center core.Point3
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Point3, radius float64) Shape {
	return Shape{kind: KindSphere, sphere: Sphere{Center: center, Radius: radius}}
}

// FastHit solves |O + tD - C|² = r² and returns the nearest root in range
func (s *Sphere) FastHit(ray core.Ray, tMin, tMax float64) float64 {
	if s.Radius == 0 || ray.Degenerate() {
		return NoHit
	}

	// Vector from ray origin to sphere center
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + 2ht + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return NoHit
	}
	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if !inRange(root, tMin, tMax) {
		root = (-halfB + sqrtD) / a
		if !inRange(root, tMin, tMax) {
			return NoHit
		}
	}
	return root
}

// ComputeHitRecord builds the hit record for a confirmed root
func (s *Sphere) ComputeHitRecord(ray core.Ray, t float64) HitRecord {
	rec := HitRecord{T: t, Point: ray.At(t)}
	outwardNormal := rec.Point.Subtract(s.Center).Multiply(1.0 / s.Radius)
	rec.SetFaceNormal(ray, outwardNormal)
	return rec
}
