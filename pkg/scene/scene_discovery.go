package scene

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
)

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`          // Name used to select the scene
	DisplayName string `json:"displayName"` // Human readable name
	Description string `json:"description"` // One line summary
}

// builtinScenes lists the available scenes in display order
var builtinScenes = []SceneInfo{
	{ID: "default", DisplayName: "Default", Description: "Ground sphere with diffuse, hollow glass and fuzzy metal spheres"},
	{ID: "random", DisplayName: "Random Spheres", Description: "Cover scene with a random field of small spheres and three large ones"},
	{ID: "spheregrid", DisplayName: "Sphere Grid", Description: "20x20 grid of colored metal spheres"},
	{ID: "empty", DisplayName: "Empty", Description: "No objects, only the sky gradient"},
}

// ListScenes returns information about every built-in scene
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, len(builtinScenes))
	copy(scenes, builtinScenes)
	return scenes
}

// NewSceneByName builds the built-in scene with the given ID.
// random drives procedural placement for scenes that need it.
func NewSceneByName(name string, random *rand.Rand, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "default":
		return NewDefaultScene(cameraOverrides...), nil
	case "random":
		return NewRandomSpheresScene(random, cameraOverrides...), nil
	case "spheregrid":
		return NewSphereGridScene(cameraOverrides...), nil
	case "empty":
		return NewEmptyScene(cameraOverrides...), nil
	case "":
		return nil, fmt.Errorf("scene name is empty")
	default:
		return nil, fmt.Errorf("unknown scene %q", name)
	}
}
