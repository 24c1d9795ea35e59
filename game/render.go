package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/naturescene/ui"
)

// Draw renders the scene and the overlay into the window.
func (g *Game) Draw() {
	rl.BeginDrawing()

	if err := g.scene.Draw(); err != nil {
		slog.Error("failed to draw scene", "error", err)
	}

	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	actions := g.controls.Draw(w, h, g.scene.Sound().Muted())
	if actions.ToggleSound {
		g.interact()
		g.scene.ToggleMute()
	}
	if actions.ToggleTheme {
		g.toggleTheme()
	}

	g.hud.Draw(ui.HUDData{
		Snapshot: g.scene.Snapshot(),
		State:    g.scene.State().String(),
		Floral:   g.scene.FloralMode(),
		Dark:     g.scene.Theme().Dark,
		Muted:    g.scene.Sound().Muted(),
		FPS:      rl.GetFPS(),
	})

	rl.EndDrawing()
	g.endFrame()
}
