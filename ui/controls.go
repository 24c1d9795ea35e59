package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Toggle button metrics.
const (
	toggleWidth  = 96
	toggleHeight = 28
	toggleMargin = 16
)

// Controls are the raygui buttons along the bottom-right corner.
type Controls struct {
	dark bool
}

// NewControls creates the control strip.
func NewControls() *Controls {
	return &Controls{}
}

// Actions reports which buttons were pressed this frame.
type Actions struct {
	ToggleSound bool
	ToggleTheme bool
}

// SetDark restyles raygui to match the scene.
func (c *Controls) SetDark(dark bool) {
	if dark == c.dark {
		return
	}
	c.dark = dark
	if dark {
		gui.LoadStyleDefault()
		gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, int64(rl.ColorToInt(rl.Color{R: 30, G: 30, B: 30, A: 255})))
		gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, int64(rl.ColorToInt(rl.Color{R: 45, G: 45, B: 45, A: 255})))
		gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, int64(rl.ColorToInt(rl.Color{R: 200, G: 200, B: 200, A: 255})))
		gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_NORMAL, int64(rl.ColorToInt(rl.Color{R: 90, G: 90, B: 90, A: 255})))
		return
	}
	gui.LoadStyleDefault()
}

// Draw renders the buttons. muted selects the sound button label.
func (c *Controls) Draw(screenW, screenH int32, muted bool) Actions {
	sound, themeBtn := ToggleBounds(screenW, screenH)
	return Actions{
		ToggleSound: gui.Button(sound, SoundLabel(muted)),
		ToggleTheme: gui.Button(themeBtn, ThemeLabel(c.dark)),
	}
}

// ToggleBounds places the sound button in the bottom-right corner with the
// theme button to its left.
func ToggleBounds(screenW, screenH int32) (sound, themeBtn rl.Rectangle) {
	y := float32(screenH - toggleMargin - toggleHeight)
	sx := float32(screenW - toggleMargin - toggleWidth)
	sound = rl.Rectangle{X: sx, Y: y, Width: toggleWidth, Height: toggleHeight}
	themeBtn = rl.Rectangle{X: sx - toggleMargin/2 - toggleWidth, Y: y, Width: toggleWidth, Height: toggleHeight}
	return sound, themeBtn
}

// Hit reports whether a point falls on either button, so clicks there are
// not treated as scene interaction.
func Hit(screenW, screenH int32, p rl.Vector2) bool {
	sound, themeBtn := ToggleBounds(screenW, screenH)
	return rl.CheckCollisionPointRec(p, sound) || rl.CheckCollisionPointRec(p, themeBtn)
}

// SoundLabel is the sound button caption.
func SoundLabel(muted bool) string {
	if muted {
		return "Sound: off"
	}
	return "Sound: on"
}

// ThemeLabel is the theme button caption; it names the theme a click
// switches to.
func ThemeLabel(dark bool) string {
	if dark {
		return "Light"
	}
	return "Dark"
}
