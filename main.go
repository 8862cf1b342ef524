package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

// Config holds the command line options
type Config struct {
	SceneType  string
	Width      int     // 0 = scene default
	Samples    int     // 0 = scene default
	MaxDepth   int     // -1 = scene default
	VFov       float64 // 0 = scene default
	NumWorkers int
	BandHeight int
	Seed       int64
	Output     string // empty = output/<scene>/render_<timestamp>.png
	Help       bool
}

func main() {
	config, err := parseConfig(os.Args[1:])
	if err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}

	if config.Help {
		showHelp()
		return
	}

	fmt.Println("Starting Sphere Path Tracer...")

	selectedScene, err := createScene(config)
	if err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
	fmt.Printf("Using %s scene with %d objects...\n", config.SceneType, selectedScene.GetPrimitiveCount())

	raytracer := renderer.NewRaytracer(selectedScene, renderer.RenderConfig{
		NumWorkers: config.NumWorkers,
		BandHeight: config.BandHeight,
		Seed:       config.Seed,
	}, renderer.NewDefaultLogger())

	img, stats := raytracer.Render()
	fmt.Printf("Samples per pixel: %.1f, average luminance %.3f\n", stats.AverageSamples, stats.AverageLuminance)

	filename := config.Output
	if filename == "" {
		filename = defaultOutputPath(config.SceneType, time.Now())
	}
	if err := saveImage(img, filename); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}

	fmt.Printf("Render saved as %s\n", filename)
}

// newFlagSet binds every command line option to a field of config
func newFlagSet(config *Config) *flag.FlagSet {
	fs := flag.NewFlagSet("pathtracer", flag.ContinueOnError)
	fs.StringVar(&config.SceneType, "scene", "default", "Scene type (see -help for the list)")
	fs.IntVar(&config.Width, "width", 0, "Image width in pixels (0 = scene default)")
	fs.IntVar(&config.Samples, "samples", 0, "Samples per pixel (0 = scene default)")
	fs.IntVar(&config.MaxDepth, "depth", -1, "Maximum bounce depth (-1 = scene default)")
	fs.Float64Var(&config.VFov, "vfov", 0, "Vertical field of view in degrees (0 = scene default)")
	fs.IntVar(&config.NumWorkers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	fs.IntVar(&config.BandHeight, "band", 1, "Rows per render task")
	fs.Int64Var(&config.Seed, "seed", 0, "Random seed (0 = seed from the clock)")
	fs.StringVar(&config.Output, "output", "", "Output PNG path (default output/<scene>/render_<timestamp>.png)")
	fs.BoolVar(&config.Help, "help", false, "Show help information")
	return fs
}

// parseConfig parses and validates command line arguments
func parseConfig(args []string) (Config, error) {
	var config Config
	fs := newFlagSet(&config)

	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("failed to parse flags: %w", err)
	}

	if config.Width < 0 {
		return Config{}, fmt.Errorf("width must be positive, got %d", config.Width)
	}
	if config.Samples < 0 {
		return Config{}, fmt.Errorf("samples must be positive, got %d", config.Samples)
	}
	if config.MaxDepth < -1 {
		return Config{}, fmt.Errorf("depth must be non-negative, got %d", config.MaxDepth)
	}
	if config.VFov < 0 || config.VFov >= 180 {
		return Config{}, fmt.Errorf("vfov must be in (0, 180), got %g", config.VFov)
	}
	if config.NumWorkers < 0 {
		return Config{}, fmt.Errorf("workers must be non-negative, got %d", config.NumWorkers)
	}
	if config.BandHeight < 1 {
		return Config{}, fmt.Errorf("band must be at least 1, got %d", config.BandHeight)
	}

	return config, nil
}

// createScene builds the named scene and applies command line overrides
func createScene(config Config) (*scene.Scene, error) {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s, err := scene.NewSceneByName(config.SceneType, rand.New(rand.NewSource(seed)), geometry.CameraConfig{
		Width: config.Width,
		VFov:  config.VFov,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}

	sampling := scene.MergeSamplingConfig(s.SamplingConfig, scene.SamplingConfig{SamplesPerPixel: config.Samples})
	if config.MaxDepth >= 0 {
		sampling.MaxDepth = config.MaxDepth
	}
	s.SamplingConfig = sampling

	return s, nil
}

// defaultOutputPath returns output/<scene>/render_<timestamp>.png
func defaultOutputPath(sceneType string, now time.Time) string {
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", sceneType, fmt.Sprintf("render_%s.png", timestamp))
}

// saveImage writes img as a PNG file, creating parent directories as needed
func saveImage(img image.Image, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}

	return nil
}

func showHelp() {
	fmt.Println("Sphere Path Tracer")
	fmt.Println("Usage: pathtracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	newFlagSet(&Config{}).PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	for _, info := range scene.ListScenes() {
		fmt.Printf("  %-12s %s\n", info.ID, info.Description)
	}
	fmt.Println()
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.png unless -output is set")
}
