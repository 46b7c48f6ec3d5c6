package renderer

import (
	"github.com/df07/rtiaw/pkg/core"
)

// Default sampling parameters for a new renderer
const (
	DefaultSamplesPerPixel = 10
	DefaultMaxRayDepth     = 10
	DefaultTileSize        = 64
)

// Config contains the scheduling configuration of a renderer. It is fixed
// for the renderer's lifetime.
type Config struct {
	TileSize   int   // Size of each square tile in pixels
	NumWorkers int   // Number of worker goroutines (0 = runtime.NumCPU())
	Seed       int64 // Base seed for per-tile samplers (0 = time-derived)

	// NewSampler creates the private sampler of one tile task from its seed.
	// Nil uses core.NewSeededSampler.
	NewSampler func(seed int64) core.Sampler
}

// DefaultConfig returns the default renderer configuration
func DefaultConfig() Config {
	return Config{
		TileSize:   DefaultTileSize,
		NumWorkers: 0,
		Seed:       0,
		NewSampler: nil,
	}
}

// MergeConfig applies non-zero override values on top of base
func MergeConfig(base, override Config) Config {
	result := base
	if override.TileSize > 0 {
		result.TileSize = override.TileSize
	}
	if override.NumWorkers > 0 {
		result.NumWorkers = override.NumWorkers
	}
	if override.Seed != 0 {
		result.Seed = override.Seed
	}
	if override.NewSampler != nil {
		result.NewSampler = override.NewSampler
	}
	return result
}

func defaultSampler(seed int64) core.Sampler {
	return core.NewSeededSampler(seed)
}
