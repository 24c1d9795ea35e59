// Floral preview tool - interactive vine growth with sliders.
//
// Usage: go run ./cmd/floralpreview
package main

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/naturescene/camera"
	"github.com/pthm-cable/naturescene/config"
	"github.com/pthm-cable/naturescene/draw"
	"github.com/pthm-cable/naturescene/renderer"
	"github.com/pthm-cable/naturescene/systems"
	"github.com/pthm-cable/naturescene/theme"
)

const (
	windowWidth  = 1280
	windowHeight = 720
	panelWidth   = 340
	sliderWidth  = panelWidth - 80
)

// previewParams holds the tunable vine parameters.
type previewParams struct {
	GrowthSpeed   float32
	MainPoints    int
	SubBranchProb float32
	ContentMargin float32
	Seed          uint64
}

func defaults(cfg config.FloralConfig) previewParams {
	return previewParams{
		GrowthSpeed:   float32(cfg.GrowthSpeed),
		MainPoints:    cfg.MainPoints,
		SubBranchProb: float32(cfg.SubBranchProb),
		ContentMargin: float32(cfg.ContentMargin),
		Seed:          12345,
	}
}

func build(base config.FloralConfig, p previewParams, h theme.Handler) *systems.FloralAnimator {
	cfg := base
	cfg.GrowthSpeed = float64(p.GrowthSpeed)
	cfg.MainPoints = p.MainPoints
	cfg.SubBranchProb = float64(p.SubBranchProb)
	cfg.ContentMargin = float64(p.ContentMargin)

	a := systems.NewFloralAnimator(cfg, systems.NewSeeded(p.Seed), nil, h)
	a.CreateFloralOrnaments(windowWidth, windowHeight)
	return a
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Floral Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	base := config.Default().Floral
	params := defaults(base)
	h := theme.Handler{}

	canvas := renderer.NewCanvas(camera.New(windowWidth, windowHeight, 1), h)
	defer canvas.Unload()

	floral := build(base, params, h)
	var list draw.List
	paused := false

	for !rl.WindowShouldClose() {
		if !paused {
			floral.Animate(float64(rl.GetFrameTime()))
		}

		list.Reset()
		floral.Emit(&list)

		rl.BeginDrawing()
		canvas.Render(&list, 1)

		// Draw stats
		var progress float64
		var decorations int
		for _, o := range floral.Ornaments {
			progress += o.Progress() / float64(len(floral.Ornaments))
			decorations += len(o.Decorations())
		}
		statsY := int32(windowHeight - 30)
		rl.DrawText(fmt.Sprintf("Growth: %.0f%%  Decorations: %d  Branches: %d",
			progress*100, decorations, len(floral.Ornaments[0].Branches())), 15, statsY, 16, rl.DarkGray)

		// Control panel
		panelX := float32(windowWidth/2 - panelWidth/2)
		panelY := float32(10)
		rebuild := false

		rl.DrawText("Vine Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		rl.DrawText("Growth speed (units per second)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSpeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: sliderWidth, Height: 20},
			"20", "200",
			params.GrowthSpeed, 20, 200,
		)
		if newSpeed != params.GrowthSpeed {
			params.GrowthSpeed = newSpeed
			rebuild = true
		}
		panelY += 35

		rl.DrawText("Main stem points", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newPoints := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: sliderWidth, Height: 20},
			"8", "40",
			float32(params.MainPoints), 8, 40,
		)
		if int(newPoints) != params.MainPoints {
			params.MainPoints = int(newPoints)
			rebuild = true
		}
		panelY += 35

		rl.DrawText("Sub-branch chance", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newProb := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: sliderWidth, Height: 20},
			"0", "1",
			params.SubBranchProb, 0, 1,
		)
		if newProb != params.SubBranchProb {
			params.SubBranchProb = newProb
			rebuild = true
		}
		panelY += 35

		rl.DrawText("Seed", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: sliderWidth, Height: 20},
			"0", "99999",
			float32(params.Seed), 0, 99999,
		)
		if uint64(newSeed) != params.Seed {
			params.Seed = uint64(newSeed)
			rebuild = true
		}
		panelY += 45

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 100, Height: 30}, toggleText(paused, "Resume", "Pause")) {
			paused = !paused
		}
		if gui.Button(rl.Rectangle{X: panelX + 110, Y: panelY, Width: 100, Height: 30}, "Regrow") {
			rebuild = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 220, Y: panelY, Width: 100, Height: 30}, "Random Seed") {
			params.Seed = uint64(rl.GetRandomValue(0, 99999))
			rebuild = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 100, Height: 30}, "Reset All") {
			params = defaults(base)
			rebuild = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 110, Y: panelY, Width: 100, Height: 30}, toggleText(h.Dark, "Light", "Dark")) {
			h.Dark = !h.Dark
			canvas.SetTheme(h)
			floral.UpdateTheme(h)
		}
		panelY += 50

		// Output YAML
		yaml := yamlSnippet(params)
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		rl.DrawText(yaml, int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-50), 12, rl.Gray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()

		if rebuild {
			floral = build(base, params, h)
		}
	}
}

func yamlSnippet(p previewParams) string {
	return fmt.Sprintf(`floral:
  growth_speed: %.0f
  main_points: %d
  sub_branch_chance: %.2f
  content_margin: %.0f`,
		p.GrowthSpeed, p.MainPoints, p.SubBranchProb, p.ContentMargin)
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
