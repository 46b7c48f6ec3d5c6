package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/df07/rtiaw/pkg/output"
	"github.com/df07/rtiaw/pkg/renderer"
	"github.com/df07/rtiaw/pkg/scene"
	"github.com/urfave/cli"
)

// How often the render command checks whether the pass has ended
const pollInterval = 50 * time.Millisecond

// renderOptions holds the parsed flags of the render command
type renderOptions struct {
	scene     scene.ID
	width     int
	height    int
	spp       int
	depth     int
	config    renderer.Config
	out       string
	thumbnail uint
	s3        output.S3Config
}

// RenderImage renders a built-in scene and stores it as a PNG, either on
// disk or in an S3 bucket.
func RenderImage(ctx *cli.Context) error {
	setupLogging(ctx)

	opts, err := parseRenderOptions(ctx)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	sink, err := newSink(opts)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	r := renderer.NewRenderer(opts.config)
	defer r.Close()

	r.SetScene(opts.scene)
	r.SamplesPerPixel = opts.spp
	r.MaxRayDepth = opts.depth
	if err = r.SetImageSize(opts.width, opts.height); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	// Stop the pass on the first interrupt and keep what was rendered
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(interrupts)
		close(interrupts)
	}()
	go func() {
		if _, ok := <-interrupts; ok {
			logger.Notice("interrupted, stopping render")
			r.StopRender()
		}
	}()

	if err = r.StartRender(); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	waitForRender(r)

	stats := r.LastStats()
	displayRenderStats(stats)
	if stats.Cancelled {
		logger.Warningf("render was stopped, saving a partial image")
	}

	data, err := output.PNGBytes(output.Thumbnail(r.Image(), opts.thumbnail))
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("encoding image: %v", err), 1)
	}

	location, err := sink.Put(context.Background(), opts.out, data)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	logger.Noticef("saved %s", location)
	return nil
}

// waitForRender polls the renderer state until the pass ends and then joins
// its driver so the statistics are recorded
func waitForRender(r *renderer.Renderer) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for !r.State().Terminal() {
		<-ticker.C
	}
	r.Wait()
}

func parseRenderOptions(ctx *cli.Context) (renderOptions, error) {
	id, err := scene.ParseID(ctx.String("scene"))
	if err != nil {
		return renderOptions{}, err
	}

	opts := renderOptions{
		scene:  id,
		width:  ctx.Int("width"),
		height: ctx.Int("height"),
		spp:    ctx.Int("spp"),
		depth:  ctx.Int("depth"),
		config: renderer.Config{
			TileSize:   ctx.Int("tile"),
			NumWorkers: ctx.Int("workers"),
			Seed:       ctx.Int64("seed"),
		},
		out:       ctx.String("out"),
		thumbnail: ctx.Uint("thumbnail"),
		s3: output.S3Config{
			AccessKey: ctx.String("s3-access-key"),
			SecretKey: ctx.String("s3-secret-key"),
			Endpoint:  ctx.String("s3-endpoint"),
			Region:    ctx.String("s3-region"),
			Bucket:    ctx.String("s3-bucket"),
			ACL:       ctx.String("s3-acl"),
		},
	}

	switch {
	case opts.width <= 0 || opts.height <= 0:
		return opts, fmt.Errorf("image size must be positive, got %dx%d", opts.width, opts.height)
	case opts.spp < 0:
		return opts, fmt.Errorf("samples per pixel must not be negative, got %d", opts.spp)
	case opts.depth < 0:
		return opts, fmt.Errorf("ray depth must not be negative, got %d", opts.depth)
	case opts.out == "":
		return opts, fmt.Errorf("no output name given")
	}
	return opts, nil
}

// newSink picks the S3 sink when a bucket is configured and the local file
// system otherwise
func newSink(opts renderOptions) (output.Sink, error) {
	if opts.s3.Bucket == "" {
		return output.FileSink{}, nil
	}

	client, err := output.NewS3Client(opts.s3)
	if err != nil {
		return nil, err
	}
	return output.NewS3Sink(client, opts.s3.Bucket, opts.s3.ACL)
}
