package geometry

import (
	"errors"
	"math"

	"github.com/df07/rtiaw/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrDegenerateCamera is returned for orientations that do not define a view basis
var ErrDegenerateCamera = errors.New("geometry: degenerate camera configuration")

// Clip planes for the projection matrix used by the cached ray directions
const (
	nearClip = 0.1
	farClip  = 100.0
)

// CameraConfig contains all parameters needed to create a camera
type CameraConfig struct {
	LookFrom      core.Point3 // Camera position
	LookAt        core.Point3 // Point the camera is looking at
	Up            core.Vec3   // Up direction (usually 0,1,0)
	VFov          float64     // Vertical field of view in degrees
	AspectRatio   float64     // Width / height
	Aperture      float64     // Lens diameter; 0 disables depth of field
	FocusDistance float64     // Distance to the focus plane; 0 uses |LookFrom - LookAt|
}

// Validate reports whether the configuration defines a usable camera
func (c CameraConfig) Validate() error {
	forward := c.LookAt.Subtract(c.LookFrom)
	switch {
	case forward.NearZero():
		return ErrDegenerateCamera
	case c.Up.Cross(forward).NearZero():
		return ErrDegenerateCamera
	case c.VFov <= 0 || c.VFov >= 180:
		return ErrDegenerateCamera
	case c.Aperture < 0 || c.FocusDistance < 0:
		return ErrDegenerateCamera
	}
	return nil
}

// Camera generates rays for rendering
type Camera struct {
	config CameraConfig

	origin          core.Point3
	lowerLeftCorner core.Point3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3 // right, up, backward
	lensRadius      float64

	projection    mgl64.Mat4
	view          mgl64.Mat4
	invProjection mgl64.Mat4
	invView       mgl64.Mat4

	// Pinhole directions through each pixel center, rebuilt by Resize
	width, height int
	rayDirections []core.Vec3
}

// NewCamera creates a camera from the given configuration
func NewCamera(config CameraConfig) *Camera {
	if config.AspectRatio <= 0 {
		config.AspectRatio = 1.0
	}
	c := &Camera{config: config}
	c.recalculateViewport()
	c.recalculateView()
	c.recalculateProjection()
	return c
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}

// recalculateViewport derives the thin-lens viewport from the configuration
func (c *Camera) recalculateViewport() {
	theta := c.config.VFov * math.Pi / 180.0
	h := math.Tan(theta / 2)
	viewportHeight := 2.0 * h
	viewportWidth := c.config.AspectRatio * viewportHeight

	focusDistance := c.config.FocusDistance
	if focusDistance <= 0 {
		focusDistance = c.config.LookFrom.Subtract(c.config.LookAt).Length()
	}

	c.w = c.config.LookFrom.Subtract(c.config.LookAt).Normalize()
	c.u = c.config.Up.Cross(c.w).Normalize()
	c.v = c.w.Cross(c.u)

	c.origin = c.config.LookFrom
	c.lensRadius = c.config.Aperture / 2
	c.horizontal = c.u.Multiply(focusDistance * viewportWidth)
	c.vertical = c.v.Multiply(focusDistance * viewportHeight)
	c.lowerLeftCorner = c.origin.
		Subtract(c.horizontal.Multiply(0.5)).
		Subtract(c.vertical.Multiply(0.5)).
		Subtract(c.w.Multiply(focusDistance))
}

func (c *Camera) recalculateView() {
	c.view = mgl64.LookAtV(toMgl(c.origin), toMgl(c.origin.Subtract(c.w)), toMgl(c.config.Up))
	c.invView = c.view.Inv()
}

func (c *Camera) recalculateProjection() {
	c.projection = mgl64.Perspective(mgl64.DegToRad(c.config.VFov), c.config.AspectRatio, nearClip, farClip)
	c.invProjection = c.projection.Inv()
}

// GetRay generates a ray for image-plane coordinates (s, t) where 0 <= s,t <= 1.
// The origin is jittered across the lens disk for depth of field.
func (c *Camera) GetRay(s, t float64, sampler core.Sampler) core.Ray {
	var offset core.Vec3
	if c.lensRadius > 0 {
		rd := core.SamplePointInUnitDisk(sampler.Get2D()).Multiply(c.lensRadius)
		offset = c.u.Multiply(rd.X).Add(c.v.Multiply(rd.Y))
	}

	origin := c.origin.Add(offset)
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(origin)

	return core.NewRay(origin, direction)
}

// Resize adapts the camera to a new image size: the aspect ratio, viewport,
// projection and the cached per-pixel directions are all recomputed
func (c *Camera) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == c.width && height == c.height {
		return
	}

	c.width, c.height = width, height
	c.config.AspectRatio = float64(width) / float64(height)

	c.recalculateViewport()
	c.recalculateView()
	c.recalculateProjection()
	c.recalculateRayDirections()
}

// recalculateRayDirections unprojects each pixel center through the inverse
// projection and view matrices
func (c *Camera) recalculateRayDirections() {
	c.rayDirections = make([]core.Vec3, c.width*c.height)

	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			ndcX := 2*(float64(x)+0.5)/float64(c.width) - 1
			ndcY := 2*(float64(y)+0.5)/float64(c.height) - 1

			target := c.invProjection.Mul4x1(mgl64.Vec4{ndcX, ndcY, 1, 1})
			local := target.Vec3().Mul(1 / target.W()).Normalize()
			world := c.invView.Mul4x1(local.Vec4(0)).Vec3()

			c.rayDirections[x+y*c.width] = core.NewVec3(world.X(), world.Y(), world.Z()).Normalize()
		}
	}
}

// RayDirection returns the cached pinhole direction through pixel (x, y),
// where y = 0 is the bottom row. It matches the direction of
// GetRay((x+0.5)/width, (y+0.5)/height) on a camera without aperture.
func (c *Camera) RayDirection(x, y int) core.Vec3 {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return core.Vec3{}
	}
	return c.rayDirections[x+y*c.width]
}

// Projection returns the perspective projection matrix
func (c *Camera) Projection() mgl64.Mat4 {
	return c.projection
}

// View returns the world-to-camera matrix
func (c *Camera) View() mgl64.Mat4 {
	return c.view
}

func toMgl(v core.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}
