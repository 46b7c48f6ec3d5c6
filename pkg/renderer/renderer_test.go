package renderer

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/df07/rtiaw/pkg/core"
	"github.com/df07/rtiaw/pkg/scene"
)

func newTestRenderer(t *testing.T, config Config) *Renderer {
	t.Helper()
	r := NewRenderer(config)
	t.Cleanup(r.Close)
	return r
}

func constantConfig() Config {
	return Config{
		TileSize:   2,
		NumWorkers: 2,
		NewSampler: func(int64) core.Sampler { return constantSampler{0.5} },
	}
}

func pixelAt(buffer []byte, width, x, y int) [4]uint8 {
	idx := 4 * (x + y*width)
	return [4]uint8{buffer[idx], buffer[idx+1], buffer[idx+2], buffer[idx+3]}
}

// skyPixel computes the expected pixel for a pinhole ray through the center
// of pixel (x, y) of the one-sphere camera
func skyPixel(x, y, width, height int) [4]uint8 {
	h := math.Tan(20 * math.Pi / 180)
	aspect := float64(width) / float64(height)
	s := (float64(x) + 0.5) / float64(width)
	t := (float64(y) + 0.5) / float64(height)

	dir := core.NewVec3((2*s-1)*h*aspect, (2*t-1)*h, -1).Normalize()
	blend := 0.5 * (dir.Y + 1)
	sky := core.NewVec3(1, 1, 1).Multiply(1 - blend).Add(core.NewVec3(0.5, 0.7, 1.0).Multiply(blend))
	return [4]uint8{
		uint8(255 * math.Sqrt(sky.X)),
		uint8(255 * math.Sqrt(sky.Y)),
		uint8(255 * math.Sqrt(sky.Z)),
		255,
	}
}

func closeEnough(a, b [4]uint8) bool {
	for i := range a {
		d := int(a[i]) - int(b[i])
		if d < -1 || d > 1 {
			return false
		}
	}
	return true
}

func TestRenderer_Defaults(t *testing.T) {
	r := newTestRenderer(t, Config{})

	if r.State() != Ready {
		t.Errorf("Expected Ready, got %s", r.State())
	}
	if r.SamplesPerPixel != DefaultSamplesPerPixel || r.MaxRayDepth != DefaultMaxRayDepth {
		t.Errorf("Expected default sampling %d/%d, got %d/%d",
			DefaultSamplesPerPixel, DefaultMaxRayDepth, r.SamplesPerPixel, r.MaxRayDepth)
	}
	if r.Scene() != scene.Default {
		t.Errorf("Expected default scene, got %s", r.Scene())
	}
	if r.ImageBuffer() != nil || r.Snapshot() != nil {
		t.Error("Expected no buffer before SetImageSize")
	}
	if err := r.StartRender(); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("Expected ErrEmptyImage, got %v", err)
	}
}

func TestRenderer_SetImageSize(t *testing.T) {
	r := newTestRenderer(t, Config{})

	if err := r.SetImageSize(16, 8); err != nil {
		t.Fatal(err)
	}
	if w, h := r.ImageSize(); w != 16 || h != 8 {
		t.Errorf("Expected 16x8, got %dx%d", w, h)
	}
	if got := len(r.ImageBuffer()); got != 16*8*4 {
		t.Errorf("Expected tightly packed RGBA buffer of %d bytes, got %d", 16*8*4, got)
	}

	if err := r.SetImageSize(-1, 8); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("Expected ErrEmptyImage for a negative size, got %v", err)
	}

	if err := r.SetImageSize(0, 0); err != nil {
		t.Fatal(err)
	}
	if r.ImageBuffer() != nil {
		t.Error("Expected nil buffer for an empty image")
	}
}

func TestRenderer_OneSphereScenario(t *testing.T) {
	r := newTestRenderer(t, constantConfig())
	r.SetScene(scene.OneSphere)
	r.SamplesPerPixel = 1
	r.MaxRayDepth = 1
	if err := r.SetImageSize(4, 4); err != nil {
		t.Fatal(err)
	}

	if err := r.StartRender(); err != nil {
		t.Fatal(err)
	}
	r.Wait()

	if r.State() != Finished {
		t.Fatalf("Expected Finished, got %s", r.State())
	}
	buffer := r.ImageBuffer()

	// Central pixels hit the sphere; one bounce ends in black
	for _, p := range [][2]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}} {
		if got := pixelAt(buffer, 4, p[0], p[1]); got != [4]uint8{0, 0, 0, 255} {
			t.Errorf("Pixel %v: expected black sphere hit, got %v", p, got)
		}
	}

	// Corner rays clear the sphere and see the sky
	for _, p := range [][2]int{{0, 0}, {3, 0}, {0, 3}, {3, 3}} {
		expected := skyPixel(p[0], p[1], 4, 4)
		if got := pixelAt(buffer, 4, p[0], p[1]); !closeEnough(got, expected) {
			t.Errorf("Pixel %v: expected sky %v, got %v", p, expected, got)
		}
	}

	stats := r.LastStats()
	if stats.Cancelled || stats.TilesCompleted != 4 || stats.TotalSamples != 16 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestRenderer_DepthZeroIsBlack(t *testing.T) {
	r := newTestRenderer(t, Config{TileSize: 8, Seed: 3})
	r.SetScene(scene.ThreeSpheres)
	r.SamplesPerPixel = 2
	r.MaxRayDepth = 0
	if err := r.SetImageSize(20, 10); err != nil {
		t.Fatal(err)
	}

	if err := r.StartRender(); err != nil {
		t.Fatal(err)
	}
	r.Wait()

	buffer := r.ImageBuffer()
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			if got := pixelAt(buffer, 20, x, y); got != [4]uint8{0, 0, 0, 255} {
				t.Fatalf("Pixel (%d,%d): expected black, got %v", x, y, got)
			}
		}
	}
}

func TestRenderer_ZeroSamplesIsBlack(t *testing.T) {
	r := newTestRenderer(t, Config{TileSize: 4, Seed: 5})
	r.SetScene(scene.OneSphere)
	r.SamplesPerPixel = 0
	if err := r.SetImageSize(6, 5); err != nil {
		t.Fatal(err)
	}

	if err := r.StartRender(); err != nil {
		t.Fatal(err)
	}
	r.Wait()

	if r.State() != Finished {
		t.Fatalf("Expected Finished, got %s", r.State())
	}
	buffer := r.ImageBuffer()
	for y := 0; y < 5; y++ {
		for x := 0; x < 6; x++ {
			if got := pixelAt(buffer, 6, x, y); got != [4]uint8{0, 0, 0, 255} {
				t.Fatalf("Pixel (%d,%d): expected black, got %v", x, y, got)
			}
		}
	}
	if stats := r.LastStats(); stats.TotalSamples != 0 || stats.TilesCompleted != stats.Tiles {
		t.Errorf("Expected every tile done with no samples, got %+v", stats)
	}
}

func TestRenderer_Deterministic(t *testing.T) {
	render := func() []byte {
		r := newTestRenderer(t, Config{TileSize: 4, NumWorkers: 3, Seed: 11})
		r.SetScene(scene.Test)
		r.SamplesPerPixel = 3
		r.MaxRayDepth = 4
		if err := r.SetImageSize(12, 9); err != nil {
			t.Fatal(err)
		}
		if err := r.StartRender(); err != nil {
			t.Fatal(err)
		}
		r.Wait()
		return r.Snapshot()
	}

	first, second := render(), render()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Byte %d differs between identically seeded renders", i)
		}
	}
}

func TestRenderer_Cancellation(t *testing.T) {
	r := newTestRenderer(t, Config{NumWorkers: 2})
	r.SetScene(scene.Default)
	r.SamplesPerPixel = 50
	if err := r.SetImageSize(1000, 1000); err != nil {
		t.Fatal(err)
	}

	if err := r.StartRender(); err != nil {
		t.Fatal(err)
	}
	if r.State() != Running {
		t.Fatalf("Expected Running, got %s", r.State())
	}

	// Starting again while running is a no-op
	if err := r.StartRender(); err != nil {
		t.Errorf("Expected nil from StartRender while running, got %v", err)
	}
	if err := r.SetImageSize(10, 10); !errors.Is(err, ErrRenderRunning) {
		t.Errorf("Expected ErrRenderRunning, got %v", err)
	}

	r.StopRender()
	if r.State() != Stopped {
		t.Fatalf("Expected Stopped right after StopRender, got %s", r.State())
	}
	r.Wait()

	if r.State() != Stopped {
		t.Errorf("Expected Stopped after the driver exits, got %s", r.State())
	}
	stats := r.LastStats()
	if !stats.Cancelled || stats.TilesCompleted == stats.Tiles {
		t.Errorf("Expected a cancelled pass with unfinished tiles, got %+v", stats)
	}

	// A stopped renderer can start again
	r.SetScene(scene.OneSphere)
	r.SamplesPerPixel = 1
	if err := r.SetImageSize(8, 8); err != nil {
		t.Fatal(err)
	}
	if err := r.StartRender(); err != nil {
		t.Fatal(err)
	}
	r.Wait()
	if r.State() != Finished {
		t.Errorf("Expected Finished after restart, got %s", r.State())
	}
}

func TestRenderer_StopDoesNotLeakIntoNextPass(t *testing.T) {
	r := newTestRenderer(t, Config{TileSize: 2, NumWorkers: 2, Seed: 7})
	r.SetScene(scene.OneSphere)
	r.SamplesPerPixel = 2
	r.MaxRayDepth = 2
	if err := r.SetImageSize(6, 6); err != nil {
		t.Fatal(err)
	}

	// Race a stop against a restart; whichever pass ends Finished must be whole
	for i := 0; i < 50; i++ {
		if err := r.StartRender(); err != nil {
			t.Fatal(err)
		}

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.StopRender()
		}()
		if err := r.StartRender(); err != nil {
			t.Fatal(err)
		}
		wg.Wait()
		r.Wait()

		stats := r.LastStats()
		switch r.State() {
		case Finished:
			if stats.Cancelled || stats.TilesCompleted != stats.Tiles || stats.TotalSamples != 6*6*2 {
				t.Fatalf("Iteration %d: finished pass is incomplete: %+v", i, stats)
			}
		case Stopped:
			if !stats.Cancelled {
				t.Fatalf("Iteration %d: stopped pass not marked cancelled: %+v", i, stats)
			}
		default:
			t.Fatalf("Iteration %d: unexpected state %s", i, r.State())
		}
	}
}

func TestRenderer_StopWhenIdle(t *testing.T) {
	r := newTestRenderer(t, Config{})
	r.StopRender()
	if r.State() != Ready {
		t.Errorf("Expected StopRender to be a no-op when idle, got %s", r.State())
	}
	r.Wait()
}

func TestRenderer_ImageFlipsRows(t *testing.T) {
	r := newTestRenderer(t, constantConfig())
	r.SetScene(scene.OneSphere)
	r.SamplesPerPixel = 1
	r.MaxRayDepth = 1
	if err := r.SetImageSize(4, 4); err != nil {
		t.Fatal(err)
	}
	if err := r.StartRender(); err != nil {
		t.Fatal(err)
	}
	r.Wait()

	buffer := r.Snapshot()
	img := r.Image()
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
		t.Fatalf("Expected 4x4 image, got %v", img.Bounds())
	}

	// Buffer row 0 is the bottom, image row 0 is the top
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			c := img.RGBAAt(x, 3-y)
			if got := [4]uint8{c.R, c.G, c.B, c.A}; got != pixelAt(buffer, 4, x, y) {
				t.Errorf("Pixel (%d,%d): image %v does not match buffer %v", x, y, got, pixelAt(buffer, 4, x, y))
			}
		}
	}

	// The sky is bluer at the top of the picture
	if top, bottom := img.RGBAAt(0, 0), img.RGBAAt(0, 3); top.R >= bottom.R {
		t.Errorf("Expected a bluer top row, got top %v bottom %v", top, bottom)
	}
}

func TestRenderer_SnapshotIsACopy(t *testing.T) {
	r := newTestRenderer(t, Config{})
	if err := r.SetImageSize(2, 2); err != nil {
		t.Fatal(err)
	}
	snapshot := r.Snapshot()
	snapshot[0] = 99
	if r.ImageBuffer()[0] == 99 {
		t.Error("Expected Snapshot to return a copy")
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state    State
		expected string
		terminal bool
	}{
		{Ready, "ready", false},
		{Running, "running", false},
		{Finished, "finished", true},
		{Stopped, "stopped", true},
		{State(9), "unknown", false},
	}

	for _, tt := range tests {
		if tt.state.String() != tt.expected {
			t.Errorf("Expected %q, got %q", tt.expected, tt.state.String())
		}
		if tt.state.Terminal() != tt.terminal {
			t.Errorf("%s: expected terminal %t", tt.expected, tt.terminal)
		}
	}
}
