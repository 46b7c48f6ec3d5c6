package material

import (
	"math"
	"testing"

	"github.com/df07/rtiaw/pkg/core"
	"github.com/df07/rtiaw/pkg/geometry"
)

func TestDielectric_NormalIncidence(t *testing.T) {
	glass := NewDielectric(1.5)
	ray := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))

	tests := []struct {
		name      string
		draw      float64
		direction core.Vec3
	}{
		// Schlick reflectance at normal incidence is 0.04
		{"refract", 0.5, core.NewVec3(0, 0, -1)},
		{"reflect", 0.01, core.NewVec3(0, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, scattered := glass.Scatter(ray, upHit(), constantSampler{tt.draw})
			if !scattered {
				t.Fatal("Dielectric should always scatter")
			}
			if result.Attenuation != core.NewVec3(1, 1, 1) {
				t.Errorf("Expected white attenuation, got %v", result.Attenuation)
			}
			if result.Scattered.Direction.Subtract(tt.direction).Length() > 1e-9 {
				t.Errorf("Expected direction %v, got %v", tt.direction, result.Scattered.Direction)
			}
		})
	}
}

func TestDielectric_SnellsLaw(t *testing.T) {
	glass := NewDielectric(1.5)
	incident := core.NewVec3(1, 0, -1).Normalize() // 45 degrees
	ray := core.NewRay(core.NewVec3(-1, 0, 1), incident)

	// A draw of 0.999 is above any Schlick reflectance short of grazing
	result, _ := glass.Scatter(ray, upHit(), constantSampler{0.999})
	dir := result.Scattered.Direction

	sinIn := math.Sin(math.Pi / 4)
	sinOut := math.Sqrt(dir.X*dir.X + dir.Y*dir.Y)
	if math.Abs(sinIn-1.5*sinOut) > 1e-9 {
		t.Errorf("Snell's law violated: sin(in)=%f, 1.5*sin(out)=%f", sinIn, 1.5*sinOut)
	}
	if dir.Z >= 0 {
		t.Errorf("Expected refracted ray to continue into the surface, got %v", dir)
	}
}

func TestDielectric_TotalInternalReflection(t *testing.T) {
	glass := NewDielectric(1.5)

	// Exiting glass at 60 degrees: 1.5*sin(60) > 1
	incident := core.NewVec3(math.Sin(math.Pi/3), 0, math.Cos(math.Pi/3))
	ray := core.NewRay(core.NewVec3(0, 0, -1), incident)
	hit := geometry.HitRecord{
		T:         1.0,
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 0, -1), // facing against the ray
		FrontFace: false,
	}

	result, scattered := glass.Scatter(ray, hit, constantSampler{0.999})
	if !scattered {
		t.Fatal("Dielectric should always scatter")
	}
	expected := incident.Reflect(hit.Normal)
	if result.Scattered.Direction.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected total internal reflection %v, got %v", expected, result.Scattered.Direction)
	}
}

func TestReflectance(t *testing.T) {
	tests := []struct {
		name     string
		cosine   float64
		ratio    float64
		expected float64
	}{
		{"normal incidence air to glass", 1.0, 1.0 / 1.5, 0.04},
		{"normal incidence glass to air", 1.0, 1.5, 0.04},
		{"grazing", 0.0, 1.0 / 1.5, 1.0},
		{"matched index", 0.5, 1.0, 0.03125},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reflectance(tt.cosine, tt.ratio); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}
