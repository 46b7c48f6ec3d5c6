package core

// Ray represents a half-line with an origin and a unit direction.
//
// InvDirection and Sign are derived from Direction when the ray is built and
// are used by slab tests: Sign[i] is 1 when the ray travels towards negative
// values on axis i. A zero component of Direction yields an infinite inverse,
// which the slab test handles.
type Ray struct {
	Origin       Point3
	Direction    Vec3
	InvDirection Vec3
	Sign         [3]int
}

// NewRay creates a new ray, normalizing the direction. A zero-length
// direction produces a degenerate ray that intersects nothing.
func NewRay(origin Point3, direction Vec3) Ray {
	r := Ray{Origin: origin, Direction: direction.Normalize()}
	r.InvDirection = Vec3{1.0 / r.Direction.X, 1.0 / r.Direction.Y, 1.0 / r.Direction.Z}
	r.Sign = [3]int{signBit(r.InvDirection.X), signBit(r.InvDirection.Y), signBit(r.InvDirection.Z)}
	return r
}

// WithDirection returns a copy of the ray pointing in a new direction
func (r Ray) WithDirection(direction Vec3) Ray {
	return NewRay(r.Origin, direction)
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Point3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// Degenerate reports whether the ray was built from a zero-length direction
func (r Ray) Degenerate() bool {
	return r.Direction.X == 0 && r.Direction.Y == 0 && r.Direction.Z == 0
}

func signBit(inv float64) int {
	if inv < 0 {
		return 1
	}
	return 0
}
