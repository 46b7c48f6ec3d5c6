package geometry

import (
	"math"

	"github.com/df07/rtiaw/pkg/core"
)

// parallelEpsilon bounds |d·n| below which a ray counts as parallel to a plane
const parallelEpsilon = 1e-8

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point  core.Point3 // A point on the plane
	Normal core.Vec3   // Unit normal
}

// NewPlane creates a new plane. A zero normal yields a plane that is never hit.
func NewPlane(point core.Point3, normal core.Vec3) Shape {
	return Shape{kind: KindPlane, plane: Plane{Point: point, Normal: normal.Normalize()}}
}

// FastHit solves t = (point - origin)·n / (direction·n)
func (p *Plane) FastHit(ray core.Ray, tMin, tMax float64) float64 {
	denominator := ray.Direction.Dot(p.Normal)

	// Ray is parallel to the plane, or the plane itself is degenerate
	if math.Abs(denominator) < parallelEpsilon {
		return NoHit
	}

	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if !inRange(t, tMin, tMax) {
		return NoHit
	}
	return t
}

// ComputeHitRecord builds the hit record for a confirmed intersection
func (p *Plane) ComputeHitRecord(ray core.Ray, t float64) HitRecord {
	rec := HitRecord{T: t, Point: ray.At(t)}
	rec.SetFaceNormal(ray, p.Normal)
	return rec
}
