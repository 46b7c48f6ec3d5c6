package material

import (
	"github.com/df07/rtiaw/pkg/core"
	"github.com/df07/rtiaw/pkg/geometry"
)

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Attenuation core.Color // Color attenuation
	Scattered   core.Ray   // The scattered ray
}

// Kind identifies which scattering model a Material holds
type Kind uint8

const (
	KindLambertian Kind = iota
	KindMetal
	KindDielectric
	KindEmissive
)

func (k Kind) String() string {
	switch k {
	case KindLambertian:
		return "lambertian"
	case KindMetal:
		return "metal"
	case KindDielectric:
		return "dielectric"
	case KindEmissive:
		return "emissive"
	default:
		return "unknown"
	}
}

// Material is a closed union over the supported scattering models. Like
// geometry.Shape it is an immutable value dispatched with a switch.
type Material struct {
	kind       Kind
	lambertian Lambertian
	metal      Metal
	dielectric Dielectric
	emissive   Emissive
}

// Kind returns the scattering model held by the material
func (m Material) Kind() Kind {
	return m.kind
}

// Scatter produces the attenuation and outgoing ray for an incoming ray at a
// hit. It returns false when the ray is absorbed.
func (m *Material) Scatter(rayIn core.Ray, hit geometry.HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	switch m.kind {
	case KindLambertian:
		return m.lambertian.Scatter(rayIn, hit, sampler)
	case KindMetal:
		return m.metal.Scatter(rayIn, hit, sampler)
	case KindDielectric:
		return m.dielectric.Scatter(rayIn, hit, sampler)
	}
	return ScatterResult{}, false
}

// Emitted returns the light emitted by the surface, black for every
// non-emissive material
func (m *Material) Emitted() core.Color {
	if m.kind == KindEmissive {
		return m.emissive.Emission
	}
	return core.Color{}
}
