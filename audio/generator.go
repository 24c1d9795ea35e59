// Package audio synthesises the ambient nature sounds. Each enabled sound
// type runs its own self-perpetuating timer chain, independent of the
// visual frame loop, and mixes into a single beep output.
package audio

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"

	"github.com/pthm-cable/naturescene/config"
	"github.com/pthm-cable/naturescene/theme"
)

// Options configures a Generator. Nil Output and Clock select the speaker
// and the system clock.
type Options struct {
	Config config.SoundConfig
	Output Output
	Clock  Clock
	Seed   uint64
	Theme  theme.Handler
}

// Generator schedules and plays the nature sounds. Output is opened on the
// first user interaction; until then every call only records state.
type Generator struct {
	mu     sync.Mutex
	cfg    config.SoundConfig
	sounds []config.NamedSound
	out    Output
	clock  Clock
	rng    *rand.Rand
	rate   beep.SampleRate
	theme  theme.Handler

	mixer  *beep.Mixer
	master *gain

	initialized bool
	destroyed   bool
	visible     bool
	muted       bool

	// epoch invalidates timer callbacks that were already running when
	// their chain was cancelled.
	epoch      uint64
	timers     map[string]Timer
	continuous map[string]*beep.Ctrl
	played     map[string]int
	active     atomic.Int32
}

// NewGenerator creates a generator. The scene starts visible.
func NewGenerator(opts Options) *Generator {
	out := opts.Output
	if out == nil {
		out = Speaker()
	}
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock()
	}
	rate := beep.SampleRate(opts.Config.SampleRate)
	if rate <= 0 {
		rate = 44100
	}
	g := &Generator{
		cfg:        opts.Config,
		sounds:     opts.Config.Types.Ordered(),
		out:        out,
		clock:      clock,
		rng:        rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x5851f42d4c957f2d)),
		rate:       rate,
		theme:      opts.Theme,
		mixer:      &beep.Mixer{},
		visible:    true,
		muted:      opts.Config.Muted,
		timers:     make(map[string]Timer),
		continuous: make(map[string]*beep.Ctrl),
		played:     make(map[string]int),
	}
	g.master = &gain{s: g.mixer}
	return g
}

func (g *Generator) level() float64 {
	if g.muted {
		return 0
	}
	return g.cfg.MasterVolume
}

// NotifyInteraction opens the output on the first call and starts every
// enabled sound. A failed open leaves the generator uninitialised so a
// later interaction retries.
func (g *Generator) NotifyInteraction() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.initialized || g.destroyed {
		return nil
	}
	buffer := g.rate.N(ms(g.cfg.BufferMS))
	if err := g.out.Open(g.rate, buffer); err != nil {
		slog.Warn("audio init failed", "component", "audio", "error", err)
		return fmt.Errorf("opening audio output: %w", err)
	}
	g.master.rampTo(g.level(), 0)
	g.out.Play(g.master)
	g.initialized = true
	slog.Info("audio initialized", "component", "audio", "sample_rate", int(g.rate))

	if g.visible {
		g.startAll()
	}
	return nil
}

// startAll plays interval sounds at once and schedules their next
// occurrence, and starts continuous sounds. Callers hold g.mu.
func (g *Generator) startAll() {
	for _, s := range g.sounds {
		if !s.Enabled {
			continue
		}
		switch s.Type {
		case config.SoundInterval:
			g.scheduleNext(s, true)
		case config.SoundContinuous:
			g.startContinuous(s)
		}
	}
}

// stopAll cancels every pending timer and stops continuous sounds.
// One-shots already in the mixer finish on their own. Callers hold g.mu.
func (g *Generator) stopAll() {
	g.epoch++
	for name, t := range g.timers {
		t.Stop()
		delete(g.timers, name)
	}
	for name := range g.continuous {
		g.stopContinuous(name)
	}
}

func (g *Generator) scheduleNext(s config.NamedSound, playNow bool) {
	if playNow {
		g.play(s)
	}
	lo, hi := float64(s.MinIntervalMS), float64(s.MaxIntervalMS)
	delay := time.Duration((lo + g.rng.Float64()*(hi-lo)) * float64(time.Millisecond))
	epoch := g.epoch
	g.timers[s.Name] = g.clock.AfterFunc(delay, func() { g.fire(s, epoch) })
}

func (g *Generator) fire(s config.NamedSound, epoch uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if epoch != g.epoch || !g.initialized || !g.visible {
		return
	}
	g.play(s)
	g.scheduleNext(s, false)
}

// play builds a one-shot graph and hands it to the mixer. The graph
// releases its active count from the audio goroutine when it drains, so
// the callback must not take g.mu.
func (g *Generator) play(s config.NamedSound) {
	if !g.initialized || g.muted || !g.visible {
		return
	}
	build, ok := oneShots[s.Name]
	if !ok {
		return
	}
	streamer := build(s.SoundTypeConfig, g.rate, g.rng)
	g.active.Add(1)
	g.played[s.Name]++

	g.out.Lock()
	g.mixer.Add(beep.Seq(streamer, beep.Callback(func() { g.active.Add(-1) })))
	g.out.Unlock()
}

func (g *Generator) startContinuous(s config.NamedSound) {
	if !g.initialized || !g.visible {
		return
	}
	g.stopContinuous(s.Name)
	build, ok := continuous[s.Name]
	if !ok {
		return
	}
	ctrl := &beep.Ctrl{Streamer: build(s.SoundTypeConfig, g.rate, g.rng)}
	g.continuous[s.Name] = ctrl
	g.out.Lock()
	g.mixer.Add(ctrl)
	g.out.Unlock()
}

func (g *Generator) stopContinuous(name string) {
	ctrl, ok := g.continuous[name]
	if !ok {
		return
	}
	// A Ctrl without a streamer drains and the mixer drops it.
	g.out.Lock()
	ctrl.Streamer = nil
	g.out.Unlock()
	delete(g.continuous, name)
}

// SetVisible pauses or resumes sound generation. Resuming plays every
// interval sound immediately.
func (g *Generator) SetVisible(visible bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.visible == visible || g.destroyed {
		return
	}
	g.visible = visible
	if !g.initialized {
		return
	}
	if visible {
		g.startAll()
	} else {
		g.stopAll()
	}
}

// ToggleMute flips the mute state and returns it.
func (g *Generator) ToggleMute() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.muted = !g.muted
	if g.initialized {
		g.out.Lock()
		g.master.rampTo(g.level(), g.rate.N(ms(g.cfg.RampMS)))
		g.out.Unlock()
	}
	return g.muted
}

// SetMuted sets the mute state.
func (g *Generator) SetMuted(muted bool) {
	if g.Muted() != muted {
		g.ToggleMute()
	}
}

// Muted reports whether sound is muted.
func (g *Generator) Muted() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.muted
}

// UpdateTheme records the theme. Sounds do not vary with it yet.
func (g *Generator) UpdateTheme(h theme.Handler) {
	g.mu.Lock()
	g.theme = h
	g.mu.Unlock()
}

// Destroy cancels all timers, stops continuous sounds and closes the output.
func (g *Generator) Destroy() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.destroyed {
		return
	}
	g.stopAll()
	if g.initialized {
		g.out.Close()
	}
	g.initialized = false
	g.destroyed = true
}

// Initialized reports whether the output has been opened.
func (g *Generator) Initialized() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.initialized
}

// PendingTimers returns the number of scheduled interval timers.
func (g *Generator) PendingTimers() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.timers)
}

// ContinuousSounds returns the number of running continuous sounds.
func (g *Generator) ContinuousSounds() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.continuous)
}

// Played returns how many one-shots of the given type were started.
func (g *Generator) Played(name string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.played[name]
}

// ActiveSounds returns the number of one-shots still in the mixer.
func (g *Generator) ActiveSounds() int {
	return int(g.active.Load())
}

// MasterLevel returns the current master gain.
func (g *Generator) MasterLevel() float64 {
	g.out.Lock()
	defer g.out.Unlock()
	return g.master.level
}
