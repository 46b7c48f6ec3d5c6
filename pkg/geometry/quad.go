package geometry

import (
	"errors"
	"math"

	"github.com/df07/rtiaw/pkg/core"
)

// ErrNotRectangle is returned when a rectangle is built from non-orthogonal edges
var ErrNotRectangle = errors.New("geometry: rectangle edges are not orthogonal")

// Parallelogram represents a flat quad spanned by a corner and two edge vectors
type Parallelogram struct {
	Corner core.Point3 // One corner of the quad
	U      core.Vec3   // First edge vector
	V      core.Vec3   // Second edge vector
	Normal core.Vec3   // Unit normal (U × V)
	D      float64     // Plane equation constant: n·x = D
	W      core.Vec3   // Cached n / (n·(U × V)) for local coordinates

	degenerate bool // zero-area quads are never hit
}

// NewParallelogram creates a parallelogram from three corner points: q is the
// shared corner and a, b are the ends of its two edges
func NewParallelogram(q, a, b core.Point3) Shape {
	return Shape{kind: KindParallelogram, quad: newParallelogram(q, a.Subtract(q), b.Subtract(q))}
}

// NewRectangle creates a parallelogram whose edges must be orthogonal
func NewRectangle(q, a, b core.Point3) (Shape, error) {
	u, v := a.Subtract(q), b.Subtract(q)
	if math.Abs(u.Dot(v)) > 1e-6*u.Length()*v.Length() {
		return Shape{}, ErrNotRectangle
	}
	return Shape{kind: KindRectangle, quad: newParallelogram(q, u, v)}, nil
}

func newParallelogram(corner, u, v core.Vec3) Parallelogram {
	cross := u.Cross(v)
	p := Parallelogram{Corner: corner, U: u, V: v}
	if cross.LengthSquared() < 1e-16 {
		p.degenerate = true
		return p
	}

	p.Normal = cross.Normalize()
	p.D = p.Normal.Dot(corner)
	p.W = cross.Multiply(1.0 / cross.Dot(cross))
	return p
}

// FastHit intersects the quad's plane and rejects points outside [0,1]² in
// the (U, V) frame
func (q *Parallelogram) FastHit(ray core.Ray, tMin, tMax float64) float64 {
	if q.degenerate {
		return NoHit
	}

	denominator := ray.Direction.Dot(q.Normal)
	if math.Abs(denominator) < parallelEpsilon {
		return NoHit
	}

	t := (q.D - ray.Origin.Dot(q.Normal)) / denominator
	if !inRange(t, tMin, tMax) {
		return NoHit
	}

	hitVector := ray.At(t).Subtract(q.Corner)
	alpha := q.W.Dot(hitVector.Cross(q.V))
	beta := q.W.Dot(q.U.Cross(hitVector))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return NoHit
	}
	return t
}

// ComputeHitRecord builds the hit record for a confirmed intersection
func (q *Parallelogram) ComputeHitRecord(ray core.Ray, t float64) HitRecord {
	rec := HitRecord{T: t, Point: ray.At(t)}
	rec.SetFaceNormal(ray, q.Normal)
	return rec
}
