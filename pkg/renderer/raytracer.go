package renderer

import (
	"math"

	"github.com/df07/rtiaw/pkg/core"
	"github.com/df07/rtiaw/pkg/material"
	"github.com/df07/rtiaw/pkg/scene"
)

// rayEpsilon offsets the start of every traced ray to avoid self-intersection
const rayEpsilon = 0.001

var (
	white = core.NewVec3(1.0, 1.0, 1.0)
	azure = core.NewVec3(0.5, 0.7, 1.0)
)

// World is what the tracer needs from a scene: closest hits and the
// materials they reference
type World interface {
	scene.Hittable
	Material(i int) *material.Material
}

var _ World = (*scene.Scene)(nil)

// backgroundGradient blends white at the horizon into sky blue overhead
func backgroundGradient(r core.Ray) core.Color {
	// Map the y-component from -1,1 to 0,1
	t := 0.5 * (r.Direction.Y + 1.0)
	return white.Lerp(azure, t)
}

// shootRay traces a ray through the world for at most depth bounces
func shootRay(world World, r core.Ray, depth int, sampler core.Sampler) core.Color {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Color{}
	}

	hit, isHit := world.Hit(r, rayEpsilon, math.Inf(1))
	if !isHit {
		return backgroundGradient(r)
	}

	mat := world.Material(hit.MaterialIndex)
	emitted := mat.Emitted()

	scatter, didScatter := mat.Scatter(r, hit.Record, sampler)
	if !didScatter {
		return emitted
	}

	return emitted.Add(scatter.Attenuation.MultiplyVec(
		shootRay(world, scatter.Scattered, depth-1, sampler)))
}

// colorToRGBA averages the accumulated samples, applies gamma 2 and
// quantizes to 8 bits with an opaque alpha
func colorToRGBA(accum core.Color, samples int) [4]uint8 {
	c := accum
	if samples > 0 {
		c = accum.Multiply(1.0 / float64(samples))
	}
	c = c.Sqrt().Clamp(0.0, 1.0)

	return [4]uint8{toByte(c.X), toByte(c.Y), toByte(c.Z), 255}
}

func toByte(c float64) uint8 {
	if math.IsNaN(c) {
		return 0
	}
	return uint8(255 * c)
}
