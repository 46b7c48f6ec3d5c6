package material

import (
	"github.com/df07/rtiaw/pkg/core"
)

// Emissive represents a light-emitting material. It never scatters.
type Emissive struct {
	Emission core.Color // Emitted light color/intensity
}

// NewEmissive creates a new emissive material
func NewEmissive(emission core.Color) Material {
	return Material{kind: KindEmissive, emissive: Emissive{Emission: emission}}
}
