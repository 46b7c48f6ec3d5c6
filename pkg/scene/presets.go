package scene

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/df07/rtiaw/pkg/core"
	"github.com/df07/rtiaw/pkg/geometry"
	"github.com/df07/rtiaw/pkg/material"
)

// ErrUnknownScene is returned for a scene id or name with no preset
var ErrUnknownScene = errors.New("scene: unknown scene")

// ID selects one of the built-in scenes
type ID int

const (
	Default ID = iota
	ThreeSpheres
	Test
	OneSphere
	Rectangle
	Cube
)

// IDs lists every built-in scene in declaration order
var IDs = []ID{Default, ThreeSpheres, Test, OneSphere, Rectangle, Cube}

var sceneNames = map[ID]string{
	Default:      "default",
	ThreeSpheres: "three-spheres",
	Test:         "test",
	OneSphere:    "one-sphere",
	Rectangle:    "rectangle",
	Cube:         "cube",
}

var sceneDescriptions = map[ID]string{
	Default:      "Grid of random small spheres around three large ones",
	ThreeSpheres: "Diffuse, hollow glass and metal spheres on a ground sphere",
	Test:         "One of every shape with a small emissive sphere",
	OneSphere:    "A single diffuse sphere at the origin under the sky",
	Rectangle:    "Rectangles and a tilted parallelogram over a ground plane",
	Cube:         "Axis-aligned boxes on a ground quad",
}

func (id ID) String() string {
	if name, ok := sceneNames[id]; ok {
		return name
	}
	return fmt.Sprintf("scene(%d)", int(id))
}

// ParseID resolves a scene name. Case, dashes, underscores and spaces are
// ignored, so "OneSphere", "one_sphere" and "one-sphere" are equivalent.
func ParseID(name string) (ID, error) {
	key := normalizeName(name)
	for _, id := range IDs {
		if normalizeName(sceneNames[id]) == key {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownScene)
}

func normalizeName(name string) string {
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(name)))
}

// Load builds the scene and its camera configuration for the given id. The
// camera aspect ratio is left to the caller, which knows the image size.
func Load(id ID) (*Scene, geometry.CameraConfig, error) {
	var (
		s      *Scene
		camera geometry.CameraConfig
		err    error
	)

	switch id {
	case Default:
		s, camera = newDefaultScene()
	case ThreeSpheres:
		s, camera = newThreeSpheresScene()
	case Test:
		s, camera, err = newTestScene()
	case OneSphere:
		s, camera = newOneSphereScene()
	case Rectangle:
		s, camera, err = newRectangleScene()
	case Cube:
		s, camera = newCubeScene()
	default:
		return nil, geometry.CameraConfig{}, fmt.Errorf("id %d: %w", int(id), ErrUnknownScene)
	}
	if err != nil {
		return nil, geometry.CameraConfig{}, fmt.Errorf("building %s: %w", id, err)
	}

	if err := s.Validate(); err != nil {
		return nil, geometry.CameraConfig{}, fmt.Errorf("validating %s: %w", id, err)
	}
	if err := camera.Validate(); err != nil {
		return nil, geometry.CameraConfig{}, fmt.Errorf("camera for %s: %w", id, err)
	}
	return s, camera, nil
}

// Info describes a built-in scene for listings
type Info struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Objects     int    `json:"objects"`
	Materials   int    `json:"materials"`
}

// List builds every preset and reports its size
func List() []Info {
	infos := make([]Info, 0, len(IDs))
	for _, id := range IDs {
		info := Info{
			ID:          id,
			Name:        id.String(),
			DisplayName: titleCase(id.String()),
			Description: sceneDescriptions[id],
		}
		if s, _, err := Load(id); err == nil {
			info.Objects = len(s.Objects)
			info.Materials = len(s.Materials)
		}
		infos = append(infos, info)
	}
	return infos
}

// titleCase converts "three-spheres" to "Three Spheres"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}

func defaultCameraConfig() geometry.CameraConfig {
	return geometry.CameraConfig{
		LookFrom: core.NewVec3(0, 0, 5),
		LookAt:   core.NewVec3(0, 0, 0),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     40.0,
	}
}

// newDefaultScene scatters small random spheres around three large ones.
// The layout is seeded so every load produces the same scene.
func newDefaultScene() (*Scene, geometry.CameraConfig) {
	s := New()
	random := rand.New(rand.NewSource(1))

	ground := s.AddMaterial(material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	s.Add(ground, geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000))

	glass := s.AddMaterial(material.NewDielectric(1.5))
	reference := core.NewVec3(4, 0.2, 0)

	for a := -7; a < 7; a++ {
		for b := -7; b < 7; b++ {
			center := core.NewVec3(float64(a)+0.9*random.Float64(), 0.2, float64(b)+0.9*random.Float64())
			if center.Subtract(reference).Length() <= 0.9 {
				continue
			}

			chooseMat := random.Float64()
			switch {
			case chooseMat < 0.8:
				albedo := randomColor(random).MultiplyVec(randomColor(random))
				s.Add(s.AddMaterial(material.NewLambertian(albedo)), geometry.NewSphere(center, 0.2))
			case chooseMat < 0.95:
				albedo := randomColor(random).Multiply(0.5).Add(core.NewVec3(0.5, 0.5, 0.5))
				fuzz := 0.5 * random.Float64()
				s.Add(s.AddMaterial(material.NewMetal(albedo, fuzz)), geometry.NewSphere(center, 0.2))
			default:
				s.Add(glass, geometry.NewSphere(center, 0.2))
			}
		}
	}

	s.Add(glass, geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0))
	s.Add(s.AddMaterial(material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))), geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0))
	s.Add(s.AddMaterial(material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)), geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0))

	camera := defaultCameraConfig()
	camera.LookFrom = core.NewVec3(13, 2, 3)
	camera.VFov = 20
	camera.Aperture = 0.1
	camera.FocusDistance = 10
	return s, camera
}

func randomColor(random *rand.Rand) core.Color {
	return core.NewVec3(random.Float64(), random.Float64(), random.Float64())
}

func newThreeSpheresScene() (*Scene, geometry.CameraConfig) {
	s := New()

	ground := s.AddMaterial(material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0)))
	center := s.AddMaterial(material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5)))
	glass := s.AddMaterial(material.NewDielectric(1.5))
	gold := s.AddMaterial(material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.0))

	s.Add(ground, geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100))
	s.Add(center, geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5))

	// Hollow glass: the negative radius flips the inner surface's normal
	s.Add(glass,
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), -0.45),
	)
	s.Add(gold, geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5))

	camera := defaultCameraConfig()
	camera.LookFrom = core.NewVec3(-2, 2, 1)
	camera.LookAt = core.NewVec3(0, 0, -1)
	camera.VFov = 30
	return s, camera
}

func newTestScene() (*Scene, geometry.CameraConfig, error) {
	s := New()

	ground := s.AddMaterial(material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	red := s.AddMaterial(material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05)))
	silver := s.AddMaterial(material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.1))
	glass := s.AddMaterial(material.NewDielectric(1.5))
	light := s.AddMaterial(material.NewEmissive(core.NewVec3(4, 4, 4)))

	s.Add(ground, geometry.NewPlane(core.NewVec3(0, -0.5, 0), core.NewVec3(0, 1, 0)))
	s.Add(red, geometry.NewSphere(core.NewVec3(-1.2, 0, -1), 0.5))
	s.Add(glass, geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5))
	s.Add(silver, geometry.NewBox(core.NewVec3(0.8, -0.5, -1.4), core.NewVec3(1.6, 0.3, -0.6)))
	s.Add(silver, geometry.NewParallelogram(
		core.NewVec3(-2, -0.5, -2.5),
		core.NewVec3(0, -0.5, -2.5),
		core.NewVec3(-1.5, 1.2, -2.8),
	))

	back, err := geometry.NewRectangle(core.NewVec3(0.5, -0.5, -2.6), core.NewVec3(2.5, -0.5, -2.6), core.NewVec3(0.5, 1.5, -2.6))
	if err != nil {
		return nil, geometry.CameraConfig{}, err
	}
	s.Add(red, back)
	s.Add(light, geometry.NewSphere(core.NewVec3(0, 1.3, -1), 0.2))

	camera := defaultCameraConfig()
	camera.LookFrom = core.NewVec3(0, 1, 3)
	camera.LookAt = core.NewVec3(0, 0, -1)
	camera.VFov = 45
	return s, camera, nil
}

// newOneSphereScene is a single diffuse sphere lit only by the sky
func newOneSphereScene() (*Scene, geometry.CameraConfig) {
	s := New()
	diffuse := s.AddMaterial(material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	s.Add(diffuse, geometry.NewSphere(core.NewVec3(0, 0, 0), 1.5))
	return s, defaultCameraConfig()
}

func newRectangleScene() (*Scene, geometry.CameraConfig, error) {
	s := New()

	ground := s.AddMaterial(material.NewLambertian(core.NewVec3(0.8, 0.8, 0.8)))
	blue := s.AddMaterial(material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5)))
	mirror := s.AddMaterial(material.NewMetal(core.NewVec3(0.9, 0.9, 0.9), 0.0))

	s.Add(ground, geometry.NewPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0)))

	front, err := geometry.NewRectangle(core.NewVec3(-1.5, -1, -1), core.NewVec3(-0.2, -1, -1), core.NewVec3(-1.5, 0.5, -1))
	if err != nil {
		return nil, geometry.CameraConfig{}, err
	}
	s.Add(blue, front)

	wall, err := geometry.NewRectangle(core.NewVec3(0, -1, -2), core.NewVec3(2, -1, -1), core.NewVec3(0, 1, -2))
	if err != nil {
		return nil, geometry.CameraConfig{}, err
	}
	s.Add(mirror, wall)

	s.Add(blue, geometry.NewParallelogram(
		core.NewVec3(-1, 0.8, -2),
		core.NewVec3(1, 0.8, -2),
		core.NewVec3(-0.5, 1.6, -2.5),
	))

	camera := defaultCameraConfig()
	camera.LookFrom = core.NewVec3(0, 0.5, 4)
	camera.LookAt = core.NewVec3(0, 0, -1)
	return s, camera, nil
}

func newCubeScene() (*Scene, geometry.CameraConfig) {
	s := New()

	ground := s.AddMaterial(material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	copper := s.AddMaterial(material.NewMetal(core.NewVec3(0.72, 0.45, 0.2), 0.2))
	white := s.AddMaterial(material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73)))
	glass := s.AddMaterial(material.NewDielectric(1.5))

	s.Add(ground, NewGroundQuad(core.NewVec3(0, -1, 0), 100))
	s.Add(copper, geometry.NewBox(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1)))
	s.Add(white, geometry.NewBox(core.NewVec3(-3, -1, -2), core.NewVec3(-1.8, 0.5, -0.8)))
	s.Add(glass, geometry.NewBox(core.NewVec3(1.6, -1, 0.2), core.NewVec3(2.4, -0.2, 1.0)))

	camera := defaultCameraConfig()
	camera.LookFrom = core.NewVec3(4, 3, 6)
	camera.LookAt = core.NewVec3(0, 0, 0)
	camera.VFov = 35
	camera.Aperture = 0.05
	return s, camera
}
