package renderer

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/df07/rtiaw/pkg/geometry"
	"github.com/df07/rtiaw/pkg/log"
	"github.com/df07/rtiaw/pkg/scene"
)

var logger = log.New("renderer")

// Renderer owns the pixel buffer and the worker pool and drives render
// passes over a built-in scene.
//
// One pass runs at a time on a driver goroutine. The control calls are safe
// for concurrent use; SamplesPerPixel and MaxRayDepth are read when a pass
// starts, so changing them affects the next pass only.
type Renderer struct {
	SamplesPerPixel int
	MaxRayDepth     int

	config Config
	pool   *WorkerPool

	mu      sync.Mutex // serializes control calls
	state   atomic.Int32
	stop    *atomic.Bool  // stop flag of the current pass
	done    chan struct{} // closed when the current driver exits
	width   int
	height  int
	sceneID scene.ID
	buffer  []byte

	statsMu   sync.Mutex
	lastStats RenderStats
}

// NewRenderer creates a renderer in the Ready state and starts its worker pool
func NewRenderer(config Config) *Renderer {
	config = MergeConfig(DefaultConfig(), config)
	if config.NewSampler == nil {
		config.NewSampler = defaultSampler
	}

	r := &Renderer{
		SamplesPerPixel: DefaultSamplesPerPixel,
		MaxRayDepth:     DefaultMaxRayDepth,
		config:          config,
		pool:            NewWorkerPool(config.NumWorkers),
		sceneID:         scene.Default,
	}
	r.state.Store(int32(Ready))
	return r
}

// Close stops any pass in progress, waits for it and shuts the worker pool down
func (r *Renderer) Close() {
	r.StopRender()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.join()
	r.pool.Close()
}

// State returns the current lifecycle state
func (r *Renderer) State() State {
	return State(r.state.Load())
}

// SetImageSize sets the output size and reallocates the pixel buffer. A zero
// size empties the buffer; StartRender then fails with ErrEmptyImage.
func (r *Renderer) SetImageSize(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.State() == Running {
		return ErrRenderRunning
	}
	if width < 0 || height < 0 {
		return ErrEmptyImage
	}
	r.join()

	if width == 0 || height == 0 {
		r.width, r.height, r.buffer = width, height, nil
		return nil
	}
	if err := r.allocate(width, height); err != nil {
		return err
	}
	r.width, r.height = width, height
	return nil
}

// allocate replaces the buffer when its size does not match the image
func (r *Renderer) allocate(width, height int) error {
	size, err := bufferSize(width, height)
	if err != nil {
		return err
	}
	if len(r.buffer) != size {
		r.buffer = make([]byte, size)
	}
	return nil
}

// ImageSize returns the current output size
func (r *Renderer) ImageSize() (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

// SetScene selects the scene loaded by the next StartRender
func (r *Renderer) SetScene(id scene.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sceneID = id
}

// Scene returns the selected scene
func (r *Renderer) Scene() scene.ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sceneID
}

// StartRender loads the selected scene and launches a render pass. It is a
// no-op while a pass is running. A previous pass that was stopped is joined
// first.
func (r *Renderer) StartRender() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.State() == Running {
		return nil
	}
	r.join()
	r.state.Store(int32(Ready))

	if r.width == 0 || r.height == 0 {
		return ErrEmptyImage
	}
	if err := r.allocate(r.width, r.height); err != nil {
		return err
	}

	world, cameraConfig, err := scene.Load(r.sceneID)
	if err != nil {
		return fmt.Errorf("renderer: loading scene: %w", err)
	}
	cameraConfig.AspectRatio = float64(r.width) / float64(r.height)
	camera := geometry.NewCamera(cameraConfig)
	camera.Resize(r.width, r.height)

	seed := r.config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	pass := &renderPass{
		world:           world,
		camera:          camera,
		buffer:          r.buffer,
		width:           r.width,
		height:          r.height,
		samplesPerPixel: max(r.SamplesPerPixel, 0),
		maxDepth:        max(r.MaxRayDepth, 0),
		seed:            seed,
		newSampler:      r.config.NewSampler,
		stop:            new(atomic.Bool),
	}

	r.stop = pass.stop
	r.state.Store(int32(Running))
	r.done = make(chan struct{})

	logger.Infof("starting %s at %dx%d, %d spp, depth %d", r.sceneID, r.width, r.height,
		pass.samplesPerPixel, pass.maxDepth)
	go r.drive(pass, r.sceneID, r.done)
	return nil
}

// StopRender asks the running pass to stop. Tiles finish their current row
// and the state moves to Stopped immediately. It is a no-op otherwise.
func (r *Renderer) StopRender() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state.CompareAndSwap(int32(Running), int32(Stopped)) {
		r.stop.Store(true)
		logger.Notice("render stop requested")
	}
}

// Wait blocks until the driver of the current pass has exited
func (r *Renderer) Wait() {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()

	if done != nil {
		<-done
	}
}

// join waits for the previous driver. It must be called with mu held.
func (r *Renderer) join() {
	if r.done != nil {
		<-r.done
	}
}

// drive renders every tile on the pool and records the pass statistics
func (r *Renderer) drive(pass *renderPass, id scene.ID, done chan struct{}) {
	defer close(done)
	start := time.Now()

	tiles := NewTileGrid(pass.width, pass.height, r.config.TileSize)
	logger.Debugf("split %dx%d into %d tiles", pass.width, pass.height, len(tiles))

	futures := make([]Future, 0, len(tiles))
	for _, tile := range tiles {
		future, err := r.pool.Submit(func() { pass.renderTile(tile) })
		if err != nil {
			logger.Errorf("submitting tile %d: %v", tile.ID, err)
			// Control calls may hold mu while joining this driver
			if r.state.CompareAndSwap(int32(Running), int32(Stopped)) {
				pass.stop.Store(true)
			}
			break
		}
		futures = append(futures, future)
	}

	// Wait until all tasks are done
	WaitAll(futures)

	finished := r.state.CompareAndSwap(int32(Running), int32(Finished))
	stats := RenderStats{
		Scene:           id,
		Width:           pass.width,
		Height:          pass.height,
		SamplesPerPixel: pass.samplesPerPixel,
		MaxRayDepth:     pass.maxDepth,
		Workers:         r.pool.NumWorkers(),
		Tiles:           len(tiles),
		TilesCompleted:  int(pass.tilesCompleted.Load()),
		TilesSkipped:    len(tiles) - int(pass.tilesCompleted.Load()),
		TotalSamples:    pass.samples.Load(),
		Duration:        time.Since(start),
		Cancelled:       !finished,
	}

	r.statsMu.Lock()
	r.lastStats = stats
	r.statsMu.Unlock()

	if finished {
		logger.Infof("finished %s in %v (%d samples)", id, stats.Duration, stats.TotalSamples)
	} else {
		logger.Noticef("stopped %s after %v, %d of %d tiles done", id, stats.Duration,
			stats.TilesCompleted, stats.Tiles)
	}
}

// LastStats returns the statistics of the most recent pass. They are
// recorded when its driver exits, so read them after Wait.
func (r *Renderer) LastStats() RenderStats {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	return r.lastStats
}

// ImageBuffer returns the RGBA8 pixel buffer, or nil when the image is
// empty. Row 0 is the bottom of the image. The slice is shared with the
// renderer, so while a pass is running it holds partially written pixels.
// Use Snapshot for a stable copy.
func (r *Renderer) ImageBuffer() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.buffer) == 0 {
		return nil
	}
	return r.buffer
}

// Snapshot returns a copy of the pixel buffer, or nil when the image is empty
func (r *Renderer) Snapshot() []byte {
	buffer := r.ImageBuffer()
	if buffer == nil {
		return nil
	}
	snapshot := make([]byte, len(buffer))
	copy(snapshot, buffer)
	return snapshot
}

// Image returns a copy of the buffer as a top-down image
func (r *Renderer) Image() *image.RGBA {
	r.mu.Lock()
	width, height := r.width, r.height
	r.mu.Unlock()

	buffer := r.Snapshot()
	if buffer == nil || len(buffer) != width*height*4 {
		return image.NewRGBA(image.Rect(0, 0, width, height))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowBytes := width * 4
	for y := 0; y < height; y++ {
		src := buffer[(height-1-y)*rowBytes : (height-y)*rowBytes]
		copy(img.Pix[y*img.Stride:y*img.Stride+rowBytes], src)
	}
	return img
}
