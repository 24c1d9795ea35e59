package audio

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gopxl/beep"

	"github.com/pthm-cable/naturescene/config"
)

type manualTimer struct {
	clock   *manualClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	pending := !t.stopped && !t.fired
	t.stopped = true
	return pending
}

// manualClock fires callbacks only when advanced.
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) Advance(d time.Duration) {
	target := c.now + d
	for {
		c.mu.Lock()
		var due []*manualTimer
		for _, t := range c.timers {
			if !t.stopped && !t.fired && t.at <= target {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			c.now = target
			c.mu.Unlock()
			return
		}
		sort.Slice(due, func(i, j int) bool { return due[i].at < due[j].at })
		next := due[0]
		next.fired = true
		c.now = next.at
		c.mu.Unlock()
		next.f()
	}
}

// fakeOutput records what the generator does with the device.
type fakeOutput struct {
	mu        sync.Mutex
	failOpens int
	opens     int
	closes    int
	streamer  beep.Streamer
}

func (o *fakeOutput) Open(beep.SampleRate, int) error {
	if o.failOpens > 0 {
		o.failOpens--
		return fmt.Errorf("%w: no device", ErrOutputUnavailable)
	}
	o.opens++
	return nil
}

func (o *fakeOutput) Play(s beep.Streamer) { o.streamer = s }
func (o *fakeOutput) Lock()                { o.mu.Lock() }
func (o *fakeOutput) Unlock()              { o.mu.Unlock() }
func (o *fakeOutput) Close()               { o.closes++ }

// pull streams n samples from the played streamer the way the speaker does.
func (o *fakeOutput) pull(n int) {
	buf := make([][2]float64, 512)
	for n > 0 {
		chunk := min(n, len(buf))
		o.mu.Lock()
		o.streamer.Stream(buf[:chunk])
		o.mu.Unlock()
		n -= chunk
	}
}

// soundConfig returns the default sound config with only the named types on.
func soundConfig(enable ...string) config.SoundConfig {
	cfg := config.Default().Sound
	types := map[string]*config.SoundTypeConfig{
		"cricket":         &cfg.Types.Cricket,
		"rain_background": &cfg.Types.RainBackground,
		"rain":            &cfg.Types.Rain,
		"mosquito":        &cfg.Types.Mosquito,
		"toad":            &cfg.Types.Toad,
		"songbird":        &cfg.Types.Songbird,
		"owl":             &cfg.Types.Owl,
	}
	for _, t := range types {
		t.Enabled = false
	}
	for _, name := range enable {
		types[name].Enabled = true
	}
	cfg.Muted = false
	return cfg
}

func newTestGenerator(enable ...string) (*Generator, *fakeOutput, *manualClock) {
	out := &fakeOutput{}
	clock := &manualClock{}
	g := NewGenerator(Options{Config: soundConfig(enable...), Output: out, Clock: clock, Seed: 7})
	return g, out, clock
}
