package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/df07/rtiaw/pkg/log"
	"github.com/df07/rtiaw/pkg/output"
	"github.com/df07/rtiaw/pkg/renderer"
	"github.com/df07/rtiaw/pkg/scene"
)

var logger = log.New("server")

// Request limits
const (
	maxImageSize     = 2000
	maxSamples       = 10000
	maxDepth         = 100
	maxThumbnailSize = 1024
)

// Server exposes a renderer over HTTP for live preview
type Server struct {
	addr     string
	renderer *renderer.Renderer
	console  *Console
	scenes   []scene.Info
	echo     *echo.Echo

	mu sync.Mutex // guards the renderer's exported sampling fields
}

// RenderRequest represents a render request from the client. Zero values
// keep the renderer's current setting; Depth is a pointer because a depth
// of 0 is meaningful.
type RenderRequest struct {
	Scene   string `json:"scene"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Samples int    `json:"samples"`
	Depth   *int   `json:"depth"`
}

// StateResponse reports the renderer state
type StateResponse struct {
	State           string `json:"state"`
	Scene           string `json:"scene"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	SamplesPerPixel int    `json:"samplesPerPixel"`
	MaxRayDepth     int    `json:"maxRayDepth"`
	Stats           *Stats `json:"stats,omitempty"`
}

// Stats represents the statistics of the last finished or stopped pass
type Stats struct {
	Scene            string  `json:"scene"`
	TotalPixels      int     `json:"totalPixels"`
	TotalSamples     int64   `json:"totalSamples"`
	Tiles            int     `json:"tiles"`
	TilesCompleted   int     `json:"tilesCompleted"`
	ElapsedMs        int64   `json:"elapsedMs"`
	SamplesPerSecond float64 `json:"samplesPerSecond"`
	Cancelled        bool    `json:"cancelled"`
}

// NewServer creates a server for the given renderer. The console may be nil,
// in which case /api/console always returns an empty list.
func NewServer(addr string, r *renderer.Renderer, console *Console) *Server {
	if console == nil {
		console = NewConsole(DefaultConsoleSize)
	}

	s := &Server{
		addr:     addr,
		renderer: r,
		console:  console,
		scenes:   scene.List(),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(corsMiddleware)

	e.GET("/api/health", s.handleHealth)
	e.GET("/api/scenes", s.handleScenes)
	e.GET("/api/state", s.handleState)
	e.GET("/api/console", s.handleConsole)
	e.GET("/api/image.png", s.handleImage)
	e.POST("/api/render", s.handleRender)
	e.POST("/api/stop", s.handleStop)

	s.echo = e
	return s
}

// Handler returns the HTTP handler serving the API
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the web server and blocks until it is shut down
func (s *Server) Start() error {
	logger.Noticef("starting web server on http://%s", s.addr)
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and stops any render in progress
func (s *Server) Shutdown(ctx context.Context) error {
	s.renderer.StopRender()
	return s.echo.Shutdown(ctx)
}

func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		c.Response().Header().Set("Access-Control-Allow-Methods", "GET, POST")
		c.Response().Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

		if c.Request().Method == http.MethodOptions {
			return c.NoContent(http.StatusOK)
		}

		return next(c)
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleScenes(c echo.Context) error {
	return c.JSON(http.StatusOK, s.scenes)
}

func (s *Server) handleState(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, s.stateResponse())
}

func (s *Server) handleConsole(c echo.Context) error {
	return c.JSON(http.StatusOK, s.console.Messages())
}

// handleRender configures the renderer from the request body and starts a pass
func (s *Server) handleRender(c echo.Context) error {
	req := new(RenderRequest)
	if err := c.Bind(req); err != nil {
		return err
	}
	if err := validateRenderRequest(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.renderer.State() == renderer.Running {
		return echo.NewHTTPError(http.StatusConflict, renderer.ErrRenderRunning.Error())
	}

	if req.Scene != "" {
		id, err := scene.ParseID(req.Scene)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		s.renderer.SetScene(id)
	}

	if req.Width > 0 || req.Height > 0 {
		width, height := s.renderer.ImageSize()
		if req.Width > 0 {
			width = req.Width
		}
		if req.Height > 0 {
			height = req.Height
		}
		if err := s.renderer.SetImageSize(width, height); err != nil {
			return renderError(err)
		}
	}

	if req.Samples > 0 {
		s.renderer.SamplesPerPixel = req.Samples
	}
	if req.Depth != nil {
		s.renderer.MaxRayDepth = *req.Depth
	}

	if err := s.renderer.StartRender(); err != nil {
		return renderError(err)
	}
	return c.JSON(http.StatusAccepted, s.stateResponse())
}

func (s *Server) handleStop(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderer.StopRender()
	return c.JSON(http.StatusOK, s.stateResponse())
}

// handleImage serves the current buffer as a PNG, optionally scaled down
// with ?thumb=N
func (s *Server) handleImage(c echo.Context) error {
	thumb, err := parseIntParam(c.QueryParams(), "thumb", 0, 0, maxThumbnailSize)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if width, height := s.renderer.ImageSize(); width == 0 || height == 0 {
		return echo.NewHTTPError(http.StatusNotFound, renderer.ErrEmptyImage.Error())
	}

	data, err := output.PNGBytes(output.Thumbnail(s.renderer.Image(), uint(thumb)))
	if err != nil {
		logger.Errorf("encoding preview: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to encode image")
	}

	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.Blob(http.StatusOK, "image/png", data)
}

// stateResponse must be called with mu held
func (s *Server) stateResponse() StateResponse {
	width, height := s.renderer.ImageSize()
	state := s.renderer.State()

	resp := StateResponse{
		State:           state.String(),
		Scene:           s.renderer.Scene().String(),
		Width:           width,
		Height:          height,
		SamplesPerPixel: s.renderer.SamplesPerPixel,
		MaxRayDepth:     s.renderer.MaxRayDepth,
	}

	if stats := s.renderer.LastStats(); state.Terminal() && stats.Tiles > 0 {
		resp.Stats = &Stats{
			Scene:            stats.Scene.String(),
			TotalPixels:      stats.TotalPixels(),
			TotalSamples:     stats.TotalSamples,
			Tiles:            stats.Tiles,
			TilesCompleted:   stats.TilesCompleted,
			ElapsedMs:        stats.Duration.Milliseconds(),
			SamplesPerSecond: stats.SamplesPerSecond(),
			Cancelled:        stats.Cancelled,
		}
	}
	return resp
}

// validateRenderRequest checks the request against the server limits
func validateRenderRequest(req *RenderRequest) error {
	if err := checkRange("width", req.Width, 0, maxImageSize); err != nil {
		return err
	}
	if err := checkRange("height", req.Height, 0, maxImageSize); err != nil {
		return err
	}
	if err := checkRange("samples", req.Samples, 0, maxSamples); err != nil {
		return err
	}
	if req.Depth != nil {
		if err := checkRange("depth", *req.Depth, 0, maxDepth); err != nil {
			return err
		}
	}
	return nil
}

func checkRange(key string, value, min, max int) error {
	if value < min || value > max {
		return fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, value)
	}
	return nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if err := checkRange(key, parsed, min, max); err != nil {
			return 0, err
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// renderError maps renderer errors to HTTP errors
func renderError(err error) error {
	switch {
	case errors.Is(err, renderer.ErrRenderRunning):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, renderer.ErrEmptyImage), errors.Is(err, renderer.ErrBufferAllocation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		logger.Errorf("render request failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
