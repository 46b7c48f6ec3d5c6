package renderer

import (
	"sync/atomic"

	"github.com/df07/rtiaw/pkg/core"
	"github.com/df07/rtiaw/pkg/geometry"
	"github.com/df07/rtiaw/pkg/scene"
)

// renderPass holds everything one render pass reads. Nothing in it changes
// while tiles are being rendered except the shared buffer, which tiles write
// in disjoint regions, and the counters.
type renderPass struct {
	world  *scene.Scene
	camera *geometry.Camera
	buffer []byte

	width, height   int
	samplesPerPixel int
	maxDepth        int

	seed       int64
	newSampler func(seed int64) core.Sampler
	stop       *atomic.Bool

	samples        atomic.Int64
	tilesCompleted atomic.Int32
}

// renderTile renders every pixel of the tile from its top row down. The stop
// flag is checked before each row.
func (p *renderPass) renderTile(tile Tile) {
	sampler := p.newSampler(p.seed + int64(tile.ID))
	bounds := tile.Bounds

	for y := bounds.Max.Y - 1; y >= bounds.Min.Y; y-- {
		if p.stop.Load() {
			return
		}

		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			p.writePixel(x, y, p.samplePixel(x, y, sampler))
		}
		p.samples.Add(int64(bounds.Dx() * p.samplesPerPixel))
	}

	p.tilesCompleted.Add(1)
}

// samplePixel accumulates jittered samples through the pixel
func (p *renderPass) samplePixel(x, y int, sampler core.Sampler) core.Color {
	var color core.Color
	for i := 0; i < p.samplesPerPixel; i++ {
		jitter := sampler.Get2D()
		s := (float64(x) + jitter.X) / float64(p.width)
		t := (float64(y) + jitter.Y) / float64(p.height)

		ray := p.camera.GetRay(s, t, sampler)
		color = color.Add(shootRay(p.world, ray, p.maxDepth, sampler))
	}
	return color
}

// writePixel stores the tone-mapped pixel at its byte offset
func (p *renderPass) writePixel(x, y int, accum core.Color) {
	rgba := colorToRGBA(accum, p.samplesPerPixel)
	idx := 4 * (x + y*p.width)
	copy(p.buffer[idx:idx+4], rgba[:])
}
