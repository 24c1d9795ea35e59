package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/pthm-cable/naturescene/config"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSaw
	WaveSquare
	WaveTriangle
)

// oscillator is an unbounded periodic source. freq is evaluated per sample
// with the elapsed time in seconds so sweeps and vibrato stay phase-continuous.
type oscillator struct {
	rate  float64
	freq  func(t float64) float64
	wave  WaveType
	phase float64
	pos   int
}

func newOscillator(rate beep.SampleRate, wave WaveType, freq func(t float64) float64) *oscillator {
	return &oscillator{rate: float64(rate), freq: freq, wave: wave}
}

func constant(f float64) func(float64) float64 {
	return func(float64) float64 { return f }
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		var v float64
		switch o.wave {
		case WaveSine:
			v = math.Sin(2 * math.Pi * o.phase)
		case WaveSaw:
			v = 2 * (o.phase - 0.5)
		case WaveSquare:
			v = 1
			if o.phase >= 0.5 {
				v = -1
			}
		case WaveTriangle:
			v = 4*math.Abs(o.phase-0.5) - 1
		}
		samples[i][0] = v
		samples[i][1] = v

		o.phase += o.freq(float64(o.pos)/o.rate) / o.rate
		o.phase -= math.Floor(o.phase)
		o.pos++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// noise is unbounded white noise from its own generator, so it can be
// streamed on the audio goroutine without sharing state.
type noise struct {
	r *rand.Rand
}

func (s noise) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		v := s.r.Float64()*2 - 1
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

func (s noise) Err() error { return nil }

// envPoint is a gain breakpoint. exp ramps exponentially from the previous
// point, which needs both levels above zero.
type envPoint struct {
	at    float64 // seconds
	level float64
	exp   bool
}

// envelope shapes a source with piecewise ramps and ends at the last point.
type envelope struct {
	s      beep.Streamer
	points []envPoint
	rate   float64
	pos    int
	total  int
}

func newEnvelope(s beep.Streamer, rate beep.SampleRate, points ...envPoint) *envelope {
	last := points[len(points)-1].at
	return &envelope{
		s:      s,
		points: points,
		rate:   float64(rate),
		total:  int(math.Round(last * float64(rate))),
	}
}

func (e *envelope) level(t float64) float64 {
	if t <= e.points[0].at {
		return e.points[0].level
	}
	for i := 1; i < len(e.points); i++ {
		a, b := e.points[i-1], e.points[i]
		if t > b.at {
			continue
		}
		span := b.at - a.at
		if span <= 0 {
			return b.level
		}
		u := (t - a.at) / span
		if b.exp && a.level > 0 && b.level > 0 {
			return a.level * math.Pow(b.level/a.level, u)
		}
		return a.level + (b.level-a.level)*u
	}
	return e.points[len(e.points)-1].level
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	if e.pos >= e.total {
		return 0, false
	}
	if rem := e.total - e.pos; len(samples) > rem {
		samples = samples[:rem]
	}
	n, _ = e.s.Stream(samples)
	for i := 0; i < n; i++ {
		v := e.level(float64(e.pos) / e.rate)
		samples[i][0] *= v
		samples[i][1] *= v
		e.pos++
	}
	return n, n > 0
}

func (e *envelope) Err() error { return e.s.Err() }

// biquad is a second-order IIR filter using the RBJ cookbook coefficients.
type biquad struct {
	s                  beep.Streamer
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     [2]float64
}

type filterKind int

const (
	lowpass filterKind = iota
	highpass
	bandpass
)

func newBiquad(s beep.Streamer, kind filterKind, rate beep.SampleRate, freq, q float64) *biquad {
	w0 := 2 * math.Pi * freq / float64(rate)
	sin, cos := math.Sincos(w0)
	alpha := sin / (2 * q)

	var b0, b1, b2 float64
	switch kind {
	case lowpass:
		b0, b1, b2 = (1-cos)/2, 1-cos, (1-cos)/2
	case highpass:
		b0, b1, b2 = (1+cos)/2, -(1 + cos), (1+cos)/2
	case bandpass:
		b0, b1, b2 = alpha, 0, -alpha
	}
	a0 := 1 + alpha
	return &biquad{
		s:  s,
		b0: b0 / a0, b1: b1 / a0, b2: b2 / a0,
		a1: -2 * cos / a0, a2: (1 - alpha) / a0,
	}
}

func (f *biquad) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.s.Stream(samples)
	for i := 0; i < n; i++ {
		for c := 0; c < 2; c++ {
			x := samples[i][c]
			y := f.b0*x + f.b1*f.x1[c] + f.b2*f.x2[c] - f.a1*f.y1[c] - f.a2*f.y2[c]
			f.x2[c], f.x1[c] = f.x1[c], x
			f.y2[c], f.y1[c] = f.y1[c], y
			samples[i][c] = y
		}
	}
	return n, ok
}

func (f *biquad) Err() error { return f.s.Err() }

// gain is the master level. Changes ramp linearly to avoid clicks.
type gain struct {
	s      beep.Streamer
	level  float64
	target float64
	step   float64
	left   int
}

func (g *gain) rampTo(target float64, samples int) {
	g.target = target
	if samples <= 0 {
		g.level, g.left = target, 0
		return
	}
	g.left = samples
	g.step = (target - g.level) / float64(samples)
}

func (g *gain) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = g.s.Stream(samples)
	for i := 0; i < n; i++ {
		if g.left > 0 {
			g.level += g.step
			g.left--
			if g.left == 0 {
				g.level = g.target
			}
		}
		samples[i][0] *= g.level
		samples[i][1] *= g.level
	}
	return n, ok
}

func (g *gain) Err() error { return g.s.Err() }

// newVolume scales a stream linearly. math.Log2(0) is -Inf, so zero is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

func seconds(v int) float64 { return float64(v) / 1000 }

// varied returns base jittered by up to half the variation either way.
func varied(r *rand.Rand, cfg config.SoundTypeConfig) float64 {
	return cfg.BaseFrequency + (r.Float64()-0.5)*cfg.FrequencyVariation
}

// startLead delays each one-shot slightly so it starts cleanly.
const startLead = 10 * time.Millisecond

// burst plays repeats of note separated by the configured gap.
func burst(cfg config.SoundTypeConfig, rate beep.SampleRate, note func(i int) beep.Streamer) beep.Streamer {
	repeats := max(cfg.Repeats, 1)
	parts := []beep.Streamer{beep.Silence(rate.N(startLead))}
	for i := 0; i < repeats; i++ {
		if i > 0 {
			parts = append(parts, beep.Silence(rate.N(ms(cfg.GapMS))))
		}
		parts = append(parts, note(i))
	}
	return beep.Seq(parts...)
}

type synth func(cfg config.SoundTypeConfig, rate beep.SampleRate, r *rand.Rand) beep.Streamer

// oneShots are the interval sound graphs keyed by sound type.
var oneShots = map[string]synth{
	"cricket":  cricket,
	"rain":     raindrop,
	"mosquito": mosquito,
	"toad":     toad,
	"songbird": songbird,
	"owl":      owl,
}

// continuous are the looped sound graphs keyed by sound type.
var continuous = map[string]synth{
	"rain_background": rainBackground,
}

// cricket is a burst of pure sine chirps, each with its own pitch.
func cricket(cfg config.SoundTypeConfig, rate beep.SampleRate, r *rand.Rand) beep.Streamer {
	d := seconds(cfg.DurationMS)
	return burst(cfg, rate, func(int) beep.Streamer {
		osc := newOscillator(rate, WaveSine, constant(varied(r, cfg)))
		env := newEnvelope(osc, rate,
			envPoint{at: 0, level: 0},
			envPoint{at: 0.002, level: 1},
			envPoint{at: d - 0.01, level: 1},
			envPoint{at: d, level: 0},
		)
		return newVolume(env, cfg.Volume)
	})
}

// raindrop is a band-passed noise impact with a sharp exponential decay.
func raindrop(cfg config.SoundTypeConfig, rate beep.SampleRate, r *rand.Rand) beep.Streamer {
	d := seconds(cfg.DurationMS)
	src := newBiquad(noise{r: rand.New(rand.NewPCG(r.Uint64(), r.Uint64()))}, bandpass, rate, varied(r, cfg), 5)
	env := newEnvelope(src, rate,
		envPoint{at: 0, level: 0},
		envPoint{at: 0.001, level: 1},
		envPoint{at: d * 0.3, level: 0.001, exp: true},
		envPoint{at: d, level: 0},
	)
	return beep.Seq(beep.Silence(rate.N(startLead)), newVolume(env, cfg.Volume))
}

// rainBackground loops two seconds of noise shaped into a soft hiss.
func rainBackground(cfg config.SoundTypeConfig, rate beep.SampleRate, r *rand.Rand) beep.Streamer {
	buf := beep.NewBuffer(beep.Format{SampleRate: rate, NumChannels: 2, Precision: 3})
	buf.Append(beep.Take(rate.N(2*time.Second), noise{r: rand.New(rand.NewPCG(r.Uint64(), r.Uint64()))}))
	loop := beep.Loop(-1, buf.Streamer(0, buf.Len()))

	shaped := newBiquad(newBiquad(loop, highpass, rate, 400, 0.5), lowpass, rate, 3000, 0.5)
	return newVolume(shaped, cfg.Volume)
}

// mosquito is a thin sawtooth whine with a fast vibrato.
func mosquito(cfg config.SoundTypeConfig, rate beep.SampleRate, r *rand.Rand) beep.Streamer {
	d := seconds(cfg.DurationMS)
	base := varied(r, cfg)
	depth := cfg.FrequencyVariation / 2
	osc := newOscillator(rate, WaveSaw, func(t float64) float64 {
		return base + math.Sin(2*math.Pi*6*t)*depth
	})
	env := newEnvelope(newBiquad(osc, lowpass, rate, 2000, 0.7), rate,
		envPoint{at: 0, level: 0},
		envPoint{at: d * 0.2, level: 1},
		envPoint{at: d * 0.7, level: 0.8},
		envPoint{at: d, level: 0},
	)
	return beep.Seq(beep.Silence(rate.N(startLead)), newVolume(env, cfg.Volume))
}

// toad croaks are low square pulses gated at a rattle rate and darkened.
func toad(cfg config.SoundTypeConfig, rate beep.SampleRate, r *rand.Rand) beep.Streamer {
	d := seconds(cfg.DurationMS)
	return burst(cfg, rate, func(int) beep.Streamer {
		f := varied(r, cfg)
		osc := newOscillator(rate, WaveSquare, constant(f))
		pulse := newOscillator(rate, WaveSine, constant(30))
		gated := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
			n, _ := osc.Stream(samples)
			amp := make([][2]float64, n)
			pulse.Stream(amp)
			for i := 0; i < n; i++ {
				g := 0.5 + 0.5*amp[i][0]
				samples[i][0] *= g
				samples[i][1] *= g
			}
			return n, true
		})
		env := newEnvelope(newBiquad(gated, lowpass, rate, 400, 1), rate,
			envPoint{at: 0, level: 0},
			envPoint{at: 0.01, level: 1},
			envPoint{at: d - 0.06, level: 0.9},
			envPoint{at: d, level: 0},
		)
		return newVolume(env, cfg.Volume)
	})
}

// songbird trills are quick rising sine sweeps.
func songbird(cfg config.SoundTypeConfig, rate beep.SampleRate, r *rand.Rand) beep.Streamer {
	d := seconds(cfg.DurationMS)
	return burst(cfg, rate, func(int) beep.Streamer {
		f := varied(r, cfg)
		osc := newOscillator(rate, WaveSine, func(t float64) float64 {
			u := math.Min(t/d, 1)
			return f * (1 + 0.25*u*u)
		})
		env := newEnvelope(osc, rate,
			envPoint{at: 0, level: 0},
			envPoint{at: 0.005, level: 1},
			envPoint{at: d - 0.03, level: 0.7},
			envPoint{at: d, level: 0},
		)
		return newVolume(env, cfg.Volume)
	})
}

// owl hoots are soft triangle tones, each a little lower than the last.
func owl(cfg config.SoundTypeConfig, rate beep.SampleRate, r *rand.Rand) beep.Streamer {
	d := seconds(cfg.DurationMS)
	f := varied(r, cfg)
	return burst(cfg, rate, func(i int) beep.Streamer {
		pitch := f * math.Pow(0.85, float64(i))
		osc := newOscillator(rate, WaveTriangle, func(t float64) float64 {
			return pitch * (1 + 0.01*math.Sin(2*math.Pi*5*t))
		})
		env := newEnvelope(newBiquad(osc, lowpass, rate, 1200, 0.7), rate,
			envPoint{at: 0, level: 0},
			envPoint{at: 0.06, level: 1},
			envPoint{at: d - 0.15, level: 0.8},
			envPoint{at: d, level: 0},
		)
		return newVolume(env, cfg.Volume)
	})
}
