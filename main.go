package main

import (
	"os"

	"github.com/df07/rtiaw/cmd"
	"github.com/df07/rtiaw/pkg/renderer"
	"github.com/df07/rtiaw/web/server"
	"github.com/urfave/cli"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		os.Exit(1)
	}
}

// Flags shared by every command that drives a renderer
func schedulingFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:   "workers",
			Value:  0,
			Usage:  "number of render workers (0 = one per CPU)",
			EnvVar: "RTIAW_WORKERS",
		},
		cli.IntFlag{
			Name:   "tile",
			Value:  renderer.DefaultTileSize,
			Usage:  "tile size in pixels",
			EnvVar: "RTIAW_TILE",
		},
		cli.Int64Flag{
			Name:   "seed",
			Value:  0,
			Usage:  "base sampler seed (0 = time based)",
			EnvVar: "RTIAW_SEED",
		},
	}
}

func newApp() *cli.App {
	// The default "version, v" flag would clash with the global -v
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "rtiaw"
	app.Usage = "render built-in scenes with a tile-parallel ray tracer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:   "log-level",
			Usage:  "log level (debug, info, notice, warning, error)",
			EnvVar: "RTIAW_LOG_LEVEL",
		},
		cli.StringFlag{
			Name:  "env-file",
			Value: ".env",
			Usage: "file with RTIAW_* variables loaded before the command flags",
		},
	}
	app.Before = cmd.LoadEnv
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a scene to a PNG file or S3 object",
			Description: `
Render one of the built-in scenes and store the result as a PNG image. With
--s3-bucket the image is uploaded to the bucket under the --out key, otherwise
it is written to the --out path. An interrupt stops the render and saves the
part that is done.`,
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:   "scene, s",
					Value:  "default",
					Usage:  "scene to render (see the scenes command)",
					EnvVar: "RTIAW_SCENE",
				},
				cli.IntFlag{
					Name:   "width",
					Value:  400,
					Usage:  "image width",
					EnvVar: "RTIAW_WIDTH",
				},
				cli.IntFlag{
					Name:   "height",
					Value:  225,
					Usage:  "image height",
					EnvVar: "RTIAW_HEIGHT",
				},
				cli.IntFlag{
					Name:   "spp",
					Value:  renderer.DefaultSamplesPerPixel,
					Usage:  "samples per pixel",
					EnvVar: "RTIAW_SPP",
				},
				cli.IntFlag{
					Name:   "depth",
					Value:  renderer.DefaultMaxRayDepth,
					Usage:  "maximum ray depth",
					EnvVar: "RTIAW_DEPTH",
				},
				cli.StringFlag{
					Name:   "out, o",
					Value:  "render.png",
					Usage:  "image filename, or object key with --s3-bucket",
					EnvVar: "RTIAW_OUT",
				},
				cli.UintFlag{
					Name:   "thumbnail",
					Value:  0,
					Usage:  "scale the image down to fit in a square of this size",
					EnvVar: "RTIAW_THUMBNAIL",
				},
				cli.StringFlag{
					Name:   "s3-bucket",
					Usage:  "upload the image to this bucket",
					EnvVar: "RTIAW_S3_BUCKET",
				},
				cli.StringFlag{
					Name:   "s3-endpoint",
					Usage:  "endpoint of an S3 compatible store",
					EnvVar: "RTIAW_S3_ENDPOINT",
				},
				cli.StringFlag{
					Name:   "s3-region",
					Value:  "us-east-1",
					Usage:  "S3 region",
					EnvVar: "RTIAW_S3_REGION",
				},
				cli.StringFlag{
					Name:   "s3-access-key",
					Usage:  "S3 access key",
					EnvVar: "RTIAW_S3_ACCESS_KEY",
				},
				cli.StringFlag{
					Name:   "s3-secret-key",
					Usage:  "S3 secret key",
					EnvVar: "RTIAW_S3_SECRET_KEY",
				},
				cli.StringFlag{
					Name:   "s3-acl",
					Usage:  "canned ACL for the uploaded object",
					EnvVar: "RTIAW_S3_ACL",
				},
			}, schedulingFlags()...),
			Action: cmd.RenderImage,
		},
		{
			Name:   "scenes",
			Usage:  "list the built-in scenes",
			Action: cmd.ListScenes,
		},
		{
			Name:  "serve",
			Usage: "serve an HTTP API for rendering and live preview",
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:   "addr",
					Value:  "localhost:8080",
					Usage:  "address to listen on",
					EnvVar: "RTIAW_ADDR",
				},
				cli.IntFlag{
					Name:   "console-lines",
					Value:  server.DefaultConsoleSize,
					Usage:  "log lines kept for /api/console",
					EnvVar: "RTIAW_CONSOLE_LINES",
				},
			}, schedulingFlags()...),
			Action: cmd.Serve,
		},
	}
	return app
}
