package scene

import (
	"errors"
	"fmt"

	"github.com/df07/rtiaw/pkg/core"
	"github.com/df07/rtiaw/pkg/geometry"
	"github.com/df07/rtiaw/pkg/material"
)

// ErrInvalidMaterialIndex is returned when an object references a material
// outside the scene's material table
var ErrInvalidMaterialIndex = errors.New("scene: invalid material index")

// Object pairs a shape with an index into the scene's material table
type Object struct {
	Shape         geometry.Shape
	MaterialIndex int
}

// Intersection is the closest hit along a ray together with the material of
// the object that was hit
type Intersection struct {
	Record        geometry.HitRecord
	MaterialIndex int
}

// Hittable finds the closest intersection along a ray in (tMin, tMax)
type Hittable interface {
	Hit(ray core.Ray, tMin, tMax float64) (Intersection, bool)
}

// Scene contains all the elements needed for rendering. It is read-only
// while a render pass is running.
type Scene struct {
	Objects   []Object
	Materials []material.Material
}

// New creates an empty scene
func New() *Scene {
	return &Scene{
		Objects:   make([]Object, 0),
		Materials: make([]material.Material, 0),
	}
}

// AddMaterial appends a material and returns its index
func (s *Scene) AddMaterial(m material.Material) int {
	s.Materials = append(s.Materials, m)
	return len(s.Materials) - 1
}

// Add appends objects that all share the given material
func (s *Scene) Add(materialIndex int, shapes ...geometry.Shape) {
	for _, shape := range shapes {
		s.Objects = append(s.Objects, Object{Shape: shape, MaterialIndex: materialIndex})
	}
}

// Validate checks that every object references an existing material
func (s *Scene) Validate() error {
	for i, obj := range s.Objects {
		if obj.MaterialIndex < 0 || obj.MaterialIndex >= len(s.Materials) {
			return fmt.Errorf("object %d (%s) references material %d of %d: %w",
				i, obj.Shape.Kind(), obj.MaterialIndex, len(s.Materials), ErrInvalidMaterialIndex)
		}
	}
	return nil
}

// Material returns the material at index i
func (s *Scene) Material(i int) *material.Material {
	return &s.Materials[i]
}

// Hit scans every object and keeps the closest hit. Only the winner gets a
// full hit record.
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (Intersection, bool) {
	if ray.Degenerate() {
		return Intersection{}, false
	}

	closest := tMax
	hitIndex := -1
	for i := range s.Objects {
		if t := s.Objects[i].Shape.FastHit(ray, tMin, closest); t != geometry.NoHit {
			closest = t
			hitIndex = i
		}
	}
	if hitIndex < 0 {
		return Intersection{}, false
	}

	obj := &s.Objects[hitIndex]
	return Intersection{
		Record:        obj.Shape.ComputeHitRecord(ray, closest),
		MaterialIndex: obj.MaterialIndex,
	}, true
}

// NewGroundQuad creates a large horizontal quad centered at the given point
// with normal pointing up (0,1,0)
func NewGroundQuad(center core.Point3, size float64) geometry.Shape {
	// u × v = (0,0,size) × (size,0,0) = (0,size²,0) which normalizes to (0,1,0)
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	return geometry.NewParallelogram(corner, corner.Add(core.NewVec3(0, 0, size)), corner.Add(core.NewVec3(size, 0, 0)))
}
