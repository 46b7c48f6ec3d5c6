package renderer

import (
	"time"

	"github.com/df07/rtiaw/pkg/scene"
)

// RenderStats contains statistics about one render pass
type RenderStats struct {
	Scene           scene.ID
	Width           int
	Height          int
	SamplesPerPixel int
	MaxRayDepth     int
	Workers         int

	Tiles          int           // Tiles the image was split into
	TilesCompleted int           // Tiles rendered to the end
	TilesSkipped   int           // Tiles abandoned after a stop request
	TotalSamples   int64         // Camera samples actually traced
	Duration       time.Duration // Wall time of the pass
	Cancelled      bool          // The pass was stopped before finishing
}

// TotalPixels returns the number of pixels in the image
func (s RenderStats) TotalPixels() int {
	return s.Width * s.Height
}

// SamplesPerSecond returns the sampling throughput of the pass
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Duration.Seconds()
}

// Progress returns the fraction of tiles that were rendered to the end
func (s RenderStats) Progress() float64 {
	if s.Tiles == 0 {
		return 0
	}
	return float64(s.TilesCompleted) / float64(s.Tiles)
}
