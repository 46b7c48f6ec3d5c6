package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/df07/rtiaw/pkg/log"
	"github.com/df07/rtiaw/pkg/renderer"
	"github.com/df07/rtiaw/web/server"
	"github.com/urfave/cli"
)

const shutdownTimeout = 5 * time.Second

// Serve runs the HTTP preview server until it receives an interrupt
func Serve(ctx *cli.Context) error {
	setupLogging(ctx)

	console := server.NewConsole(ctx.Int("console-lines"))
	log.SetSink(io.MultiWriter(os.Stderr, console))

	r := renderer.NewRenderer(renderer.Config{
		TileSize:   ctx.Int("tile"),
		NumWorkers: ctx.Int("workers"),
		Seed:       ctx.Int64("seed"),
	})
	defer r.Close()

	srv := server.NewServer(ctx.String("addr"), r, console)

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupts)
	go func() {
		<-interrupts
		logger.Notice("shutting down web server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("shutdown: %v", err)
		}
	}()

	if err := srv.Start(); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	return nil
}
