package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/naturescene/ui"
)

type inputState struct {
	lastMouse rl.Vector2
	onScreen  bool
	visible   bool
	started   bool // visibility has been reported at least once
}

// handleInput processes window, pointer and keyboard events.
func (g *Game) handleInput() {
	g.handleResize()
	g.handleVisibility()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		g.hud.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyM) {
		g.interact()
		g.scene.ToggleMute()
	}
	if rl.IsKeyPressed(rl.KeyT) {
		g.toggleTheme()
	}

	g.handlePointer()
}

// handleResize forwards a new window size to the viewport and the scene.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	view := g.canvas.Viewport()
	if !view.Resize(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())) {
		return
	}
	w, h := view.SceneSize()
	g.scene.HandleResize(float64(w), float64(h))
}

// handleVisibility pauses sound while the window is minimised.
func (g *Game) handleVisibility() {
	visible := !rl.IsWindowMinimized()
	if g.input.started && visible == g.input.visible {
		return
	}
	g.input.started = true
	g.input.visible = visible
	g.scene.SetVisible(visible)
}

func (g *Game) handlePointer() {
	onScreen := rl.IsCursorOnScreen()
	if !onScreen {
		if g.input.onScreen {
			g.scene.ClearCursor()
		}
		g.input.onScreen = false
		return
	}
	g.input.onScreen = true

	mouse := rl.GetMousePosition()
	if mouse != g.input.lastMouse {
		g.input.lastMouse = mouse
		x, y := g.canvas.Viewport().SurfaceToScene(mouse.X, mouse.Y)
		g.scene.SetCursor(r2.Vec{X: float64(x), Y: float64(y)})
	}

	// Clicks on the controls are handled by raygui in Draw
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && !ui.Hit(int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()), mouse) {
		g.interact()
	}
}

// interact lets sound start on the first user gesture.
func (g *Game) interact() {
	if g.scene.Sound().Initialized() {
		return
	}
	if err := g.scene.NotifyInteraction(); err != nil {
		slog.Warn("sound unavailable", "error", err)
	}
}

func (g *Game) toggleTheme() {
	attr := "dark"
	if g.scene.Theme().Dark {
		attr = "light"
	}
	g.SetTheme(attr)
}
