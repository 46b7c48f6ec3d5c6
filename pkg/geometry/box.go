package geometry

import (
	"math"

	"github.com/df07/rtiaw/pkg/core"
)

// Box represents an axis-aligned box given by its min and max corners
type Box struct {
	Bounds [2]core.Point3 // Bounds[0] is the min corner, Bounds[1] the max corner
}

// NewBox creates a new axis-aligned box spanning two opposite corners
func NewBox(a, b core.Point3) Shape {
	return Shape{kind: KindBox, box: Box{Bounds: [2]core.Point3{a.Min(b), a.Max(b)}}}
}

// Center returns the center point of the box
func (b *Box) Center() core.Point3 {
	return b.Bounds[0].Add(b.Bounds[1]).Multiply(0.5)
}

// slab clips the ray's parameter range against the three pairs of axis planes.
// The ray's sign bits select the near and far plane on each axis, so the
// result does not depend on the ray's orientation.
func (b *Box) slab(ray core.Ray) (tNear, tFar float64) {
	tNear, tFar = math.Inf(-1), math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		origin := ray.Origin.Axis(axis)
		inv := ray.InvDirection.Axis(axis)
		sign := ray.Sign[axis]

		t0 := (b.Bounds[sign].Axis(axis) - origin) * inv
		t1 := (b.Bounds[1-sign].Axis(axis) - origin) * inv

		// NaN (origin on a plane of a slab the ray runs parallel to) fails
		// both comparisons and leaves the interval alone
		if t0 > tNear {
			tNear = t0
		}
		if t1 < tFar {
			tFar = t1
		}
	}
	return tNear, tFar
}

// FastHit returns the entry parameter, or the exit parameter when the ray
// starts inside the box
func (b *Box) FastHit(ray core.Ray, tMin, tMax float64) float64 {
	if ray.Degenerate() {
		return NoHit
	}

	tNear, tFar := b.slab(ray)
	if tNear > tFar {
		return NoHit
	}
	if inRange(tNear, tMin, tMax) {
		return tNear
	}
	if inRange(tFar, tMin, tMax) {
		return tFar
	}
	return NoHit
}

// ComputeHitRecord builds the hit record using the normal of the face the
// hit point lies on
func (b *Box) ComputeHitRecord(ray core.Ray, t float64) HitRecord {
	rec := HitRecord{T: t, Point: ray.At(t)}
	rec.SetFaceNormal(ray, b.faceNormal(rec.Point))
	return rec
}

// faceNormal picks the axis on which the point is relatively furthest from
// the center; flat axes always win
func (b *Box) faceNormal(p core.Point3) core.Vec3 {
	center := b.Center()
	local := p.Subtract(center)
	half := b.Bounds[1].Subtract(center)

	axis, best := 0, -1.0
	for i := 0; i < 3; i++ {
		d := math.Inf(1)
		if h := half.Axis(i); h > 0 {
			d = math.Abs(local.Axis(i)) / h
		}
		if d > best {
			axis, best = i, d
		}
	}

	sign := 1.0
	if local.Axis(axis) < 0 {
		sign = -1.0
	}

	var normal core.Vec3
	switch axis {
	case 0:
		normal.X = sign
	case 1:
		normal.Y = sign
	default:
		normal.Z = sign
	}
	return normal
}
