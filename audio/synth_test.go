package audio

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/pthm-cable/naturescene/config"
)

const testRate = beep.SampleRate(44100)

func drain(s beep.Streamer) (total int, peak float64) {
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			peak = math.Max(peak, math.Abs(buf[i][0]))
		}
		total += n
		if !ok {
			return total, peak
		}
	}
}

func TestOneShotLengthAndLevel(t *testing.T) {
	types := config.Default().Sound.Types
	lead := testRate.N(startLead)
	n := func(msec int) int { return testRate.N(time.Duration(msec) * time.Millisecond) }

	tests := []struct {
		name string
		cfg  config.SoundTypeConfig
		want int
	}{
		{"cricket", types.Cricket, lead + 3*n(50) + 2*n(100)},
		{"rain", types.Rain, lead + n(50)},
		{"mosquito", types.Mosquito, lead + n(2000)},
		{"toad", types.Toad, lead + 2*n(180) + n(120)},
		{"songbird", types.Songbird, lead + 5*n(90) + 4*n(40)},
		{"owl", types.Owl, lead + 2*n(400) + n(250)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := rand.New(rand.NewPCG(1, 2))
			total, peak := drain(oneShots[tt.name](tt.cfg, testRate, r))
			if total != tt.want {
				t.Errorf("expected %d samples, got %d", tt.want, total)
			}
			if peak == 0 {
				t.Error("expected an audible sound")
			}
			if peak > tt.cfg.Volume*2 {
				t.Errorf("peak %v far above volume %v", peak, tt.cfg.Volume)
			}
		})
	}
}

func TestCricketPeakBoundedByVolume(t *testing.T) {
	cfg := config.Default().Sound.Types.Cricket
	_, peak := drain(cricket(cfg, testRate, rand.New(rand.NewPCG(3, 4))))
	if peak > cfg.Volume+1e-12 {
		t.Errorf("expected peak <= %v, got %v", cfg.Volume, peak)
	}
}

func TestEnvelopeLevels(t *testing.T) {
	e := newEnvelope(beep.Silence(-1), testRate,
		envPoint{at: 0, level: 0},
		envPoint{at: 0.1, level: 1},
		envPoint{at: 0.2, level: 0.01, exp: true},
		envPoint{at: 0.3, level: 0},
	)
	tests := []struct {
		at   float64
		want float64
	}{
		{0, 0},
		{0.05, 0.5},
		{0.1, 1},
		{0.15, 0.1},
		{0.25, 0.005},
		{0.3, 0},
		{1, 0},
	}
	for _, tt := range tests {
		if got := e.level(tt.at); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("level(%v): expected %v, got %v", tt.at, tt.want, got)
		}
	}
}

func ones() beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{1, 1}
		}
		return len(samples), true
	})
}

func TestBiquadDCResponse(t *testing.T) {
	tests := []struct {
		kind filterKind
		want float64
	}{
		{lowpass, 1},
		{highpass, 0},
		{bandpass, 0},
	}
	for _, tt := range tests {
		f := newBiquad(ones(), tt.kind, testRate, 1000, 0.7)
		buf := make([][2]float64, testRate.N(100*time.Millisecond))
		f.Stream(buf)
		if got := buf[len(buf)-1][0]; math.Abs(got-tt.want) > 1e-3 {
			t.Errorf("filter %d: expected DC gain %v, got %v", tt.kind, tt.want, got)
		}
	}
}

func TestGainRamp(t *testing.T) {
	g := &gain{s: ones()}
	g.rampTo(0.3, 0)
	buf := make([][2]float64, 10)
	g.Stream(buf)
	if buf[9][0] != 0.3 {
		t.Fatalf("expected immediate level 0.3, got %v", buf[9][0])
	}

	g.rampTo(0, 10)
	g.Stream(buf)
	if buf[0][0] >= 0.3 || buf[4][0] <= 0 {
		t.Errorf("expected a linear ramp, got %v .. %v", buf[0][0], buf[4][0])
	}
	if buf[9][0] != 0 || g.level != 0 {
		t.Errorf("expected the ramp to land on 0, got %v", buf[9][0])
	}
}

func TestRainBackgroundIsUnbounded(t *testing.T) {
	cfg := config.Default().Sound.Types.RainBackground
	s := rainBackground(cfg, testRate, rand.New(rand.NewPCG(5, 6)))
	buf := make([][2]float64, 4096)
	for i := 0; i < 30; i++ {
		if n, ok := s.Stream(buf); !ok || n != len(buf) {
			t.Fatalf("expected the loop to keep streaming, stopped at chunk %d", i)
		}
	}
}
