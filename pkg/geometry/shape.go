package geometry

import (
	"math"

	"github.com/df07/rtiaw/pkg/core"
)

// NoHit is the FastHit sentinel for a ray that misses a shape
const NoHit = math.MaxFloat64

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	T         float64     // Parameter t along the ray
	Point     core.Point3 // Point of intersection
	Normal    core.Vec3   // Unit surface normal, facing against the ray
	FrontFace bool        // Whether ray hit the front face
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// Kind identifies which primitive a Shape holds
type Kind uint8

const (
	KindSphere Kind = iota
	KindPlane
	KindParallelogram
	KindRectangle
	KindBox
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindPlane:
		return "plane"
	case KindParallelogram:
		return "parallelogram"
	case KindRectangle:
		return "rectangle"
	case KindBox:
		return "box"
	default:
		return "unknown"
	}
}

// Shape is a closed union over the supported primitives. It is a plain value:
// intersection dispatches on Kind with a switch, so tracing never allocates
// or goes through an interface.
type Shape struct {
	kind   Kind
	sphere Sphere
	plane  Plane
	quad   Parallelogram // parallelograms and rectangles
	box    Box
}

// Kind returns the primitive held by the shape
func (s Shape) Kind() Kind {
	return s.kind
}

// FastHit returns the closest ray parameter in (tMin, tMax), or NoHit
func (s *Shape) FastHit(ray core.Ray, tMin, tMax float64) float64 {
	switch s.kind {
	case KindSphere:
		return s.sphere.FastHit(ray, tMin, tMax)
	case KindPlane:
		return s.plane.FastHit(ray, tMin, tMax)
	case KindParallelogram, KindRectangle:
		return s.quad.FastHit(ray, tMin, tMax)
	case KindBox:
		return s.box.FastHit(ray, tMin, tMax)
	}
	return NoHit
}

// ComputeHitRecord builds the surface data for a hit at t found by FastHit
func (s *Shape) ComputeHitRecord(ray core.Ray, t float64) HitRecord {
	switch s.kind {
	case KindSphere:
		return s.sphere.ComputeHitRecord(ray, t)
	case KindPlane:
		return s.plane.ComputeHitRecord(ray, t)
	case KindParallelogram, KindRectangle:
		return s.quad.ComputeHitRecord(ray, t)
	case KindBox:
		return s.box.ComputeHitRecord(ray, t)
	}
	return HitRecord{}
}

// Hit tests the ray against the shape and returns the full hit record
func (s *Shape) Hit(ray core.Ray, tMin, tMax float64) (HitRecord, bool) {
	if t := s.FastHit(ray, tMin, tMax); t != NoHit {
		return s.ComputeHitRecord(ray, t), true
	}
	return HitRecord{}, false
}

// inRange reports whether t lies in the open interval (tMin, tMax)
func inRange(t, tMin, tMax float64) bool {
	return t > tMin && t < tMax
}
