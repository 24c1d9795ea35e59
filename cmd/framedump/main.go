// Frame dump tool - runs the scene for a number of ticks in a hidden window
// and saves the last frame to a PNG file for inspection.
//
// Usage: go run ./cmd/framedump -ticks 600 -theme dark -out frame.png
package main

import (
	"flag"
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/naturescene/camera"
	"github.com/pthm-cable/naturescene/config"
	"github.com/pthm-cable/naturescene/renderer"
	"github.com/pthm-cable/naturescene/scene"
	"github.com/pthm-cable/naturescene/theme"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outPath := flag.String("out", "frame.png", "Output PNG path")
	width := flag.Int("width", 1280, "Render width")
	height := flag.Int("height", 800, "Render height")
	ticks := flag.Int("ticks", 600, "Ticks to run before capturing")
	seed := flag.Uint64("seed", 1, "RNG seed")
	themeAttr := flag.String("theme", "", "Theme attribute: dark, light or empty")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.Scene.Seed = *seed
	cfg.Theme.Attribute = *themeAttr

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(int32(*width), int32(*height), "Frame Dump")
	defer rl.CloseWindow()

	canvas := renderer.NewCanvas(camera.New(float32(*width), float32(*height), 1), theme.Handler{})
	defer canvas.Unload()

	m, err := scene.New(scene.Options{Config: cfg, Surface: canvas})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create scene: %v\n", err)
		os.Exit(1)
	}
	defer m.Destroy()
	canvas.SetTheme(m.Theme())

	for i := 0; i < *ticks; i++ {
		m.Tick(cfg.Derived.FrameDT)
	}

	rl.BeginDrawing()
	if err := m.Draw(); err != nil {
		rl.EndDrawing()
		fmt.Fprintf(os.Stderr, "Failed to draw: %v\n", err)
		os.Exit(1)
	}
	rl.EndDrawing()

	img := canvas.Image()
	success := rl.ExportImage(*img, *outPath)
	rl.UnloadImage(img)

	if success {
		fmt.Printf("Frame rendered to: %s (%dx%d, %d items)\n", *outPath, *width, *height, m.List().Len())
	} else {
		fmt.Fprintf(os.Stderr, "Failed to export image\n")
		os.Exit(1)
	}
}
