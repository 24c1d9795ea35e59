// Package config provides configuration loading and access for the scene.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all scene configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Scene     SceneConfig     `yaml:"scene"`
	Theme     ThemeConfig     `yaml:"theme"`
	Content   ContentConfig   `yaml:"content"`
	Insects   InsectsConfig   `yaml:"insects"`
	SeaStars  SeaStarsConfig  `yaml:"sea_stars"`
	Floral    FloralConfig    `yaml:"floral"`
	Sound     SoundConfig     `yaml:"sound"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values (computed after loading, not in YAML)
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	TargetFPS  int     `yaml:"target_fps"`
	PixelRatio float64 `yaml:"pixel_ratio"` // 0 = ask the window
}

// SceneConfig holds coordinator settings.
type SceneConfig struct {
	Seed             uint64  `yaml:"seed"`               // 0 = time based
	TimeScale        float64 `yaml:"time_scale"`         // scene time per second of dt
	ResizeDebounceMS int     `yaml:"resize_debounce_ms"`
	CursorTimeoutMS  int     `yaml:"cursor_timeout_ms"`
	FadeFrequency    float64 `yaml:"fade_frequency"`     // canvas opacity spring, Hz
}

// ThemeConfig is the initial theme signal.
type ThemeConfig struct {
	Attribute   string `yaml:"attribute"`
	PrefersDark bool   `yaml:"prefers_dark"`
}

// RectConfig is a content rectangle in viewport fractions.
type RectConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// ContentConfig describes the page content the scene avoids.
type ContentConfig struct {
	Rects     []RectConfig `yaml:"rects"`
	MinWidth  float64      `yaml:"min_width"`
	MinHeight float64      `yaml:"min_height"`
}

// CursorConfig holds insect swarming parameters.
type CursorConfig struct {
	Radius          float64 `yaml:"radius"`
	Attraction      float64 `yaml:"attraction"`
	OrbitMinRadius  float64 `yaml:"orbit_min_radius"`
	OrbitMaxRadius  float64 `yaml:"orbit_max_radius"`
	OrbitSpeed      float64 `yaml:"orbit_speed"`
	SpeedMultiplier float64 `yaml:"speed_multiplier"`
	WaterClearance  float64 `yaml:"water_clearance"`
}

// InsectsConfig holds dragonfly parameters.
type InsectsConfig struct {
	MinCount         int          `yaml:"min_count"`
	MaxCount         int          `yaml:"max_count"`
	MinSize          float64      `yaml:"min_size"`
	SizeRange        float64      `yaml:"size_range"`
	Speed            float64      `yaml:"speed"`             // units per frame
	RetargetDistance float64      `yaml:"retarget_distance"`
	RetargetChance   float64      `yaml:"retarget_chance"`   // per frame
	UpperBias        float64      `yaml:"upper_bias"`        // chance to stay in the upper half
	MoveMargin       float64      `yaml:"move_margin"`
	SpawnMargin      float64      `yaml:"spawn_margin"`
	SpawnAttempts    int          `yaml:"spawn_attempts"`
	Cursor           CursorConfig `yaml:"cursor"`
}

// SeaStarsConfig holds starfish parameters.
type SeaStarsConfig struct {
	MinCount    int     `yaml:"min_count"`
	MaxCount    int     `yaml:"max_count"`
	MinSize     float64 `yaml:"min_size"`
	SizeRange   float64 `yaml:"size_range"`
	MinDistance float64 `yaml:"min_distance"`
	Attempts    int     `yaml:"attempts"`
}

// FloralConfig holds vine parameters.
type FloralConfig struct {
	Mode          string  `yaml:"mode"`      // auto, procedural, svg, none
	SVGAsset      string  `yaml:"svg_asset"` // file path, or "builtin"
	GrowthSpeed   float64 `yaml:"growth_speed"`
	MainPoints    int     `yaml:"main_points"`
	ContentMargin float64 `yaml:"content_margin"`
	SubBranchProb float64 `yaml:"sub_branch_chance"`
	FadeDelay     float64 `yaml:"fade_delay"`     // seconds
	FadeFrequency float64 `yaml:"fade_frequency"` // Hz
	FillOpacity   float64 `yaml:"fill_opacity"`
}

// SoundTypeConfig holds one sound category.
type SoundTypeConfig struct {
	Enabled            bool    `yaml:"enabled"`
	Volume             float64 `yaml:"volume"`
	Type               string  `yaml:"type"` // interval or continuous
	MinIntervalMS      int     `yaml:"min_interval_ms"`
	MaxIntervalMS      int     `yaml:"max_interval_ms"`
	DurationMS         int     `yaml:"duration_ms"`
	Repeats            int     `yaml:"repeats"` // chirps, croaks, notes per burst
	GapMS              int     `yaml:"gap_ms"`
	BaseFrequency      float64 `yaml:"base_frequency"`
	FrequencyVariation float64 `yaml:"frequency_variation"`
}

// Interval types.
const (
	SoundInterval   = "interval"
	SoundContinuous = "continuous"
)

// SoundsConfig lists every sound category.
type SoundsConfig struct {
	Cricket        SoundTypeConfig `yaml:"cricket"`
	RainBackground SoundTypeConfig `yaml:"rain_background"`
	Rain           SoundTypeConfig `yaml:"rain"`
	Mosquito       SoundTypeConfig `yaml:"mosquito"`
	Toad           SoundTypeConfig `yaml:"toad"`
	Songbird       SoundTypeConfig `yaml:"songbird"`
	Owl            SoundTypeConfig `yaml:"owl"`
}

// NamedSound pairs a category name with its config.
type NamedSound struct {
	Name string
	SoundTypeConfig
}

// Ordered returns the categories in a stable order.
func (s SoundsConfig) Ordered() []NamedSound {
	return []NamedSound{
		{"cricket", s.Cricket},
		{"rain_background", s.RainBackground},
		{"rain", s.Rain},
		{"mosquito", s.Mosquito},
		{"toad", s.Toad},
		{"songbird", s.Songbird},
		{"owl", s.Owl},
	}
}

// SoundConfig holds audio output parameters.
type SoundConfig struct {
	Muted        bool         `yaml:"muted"`
	MasterVolume float64      `yaml:"master_volume"`
	RampMS       int          `yaml:"ramp_ms"`
	SampleRate   int          `yaml:"sample_rate"`
	BufferMS     int          `yaml:"buffer_ms"`
	Types        SoundsConfig `yaml:"types"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // seconds of scene frames per stats row
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	FrameDT        float64       // 1 / Screen.TargetFPS
	ResizeDebounce time.Duration // Scene.ResizeDebounceMS
	CursorTimeout  time.Duration // Scene.CursorTimeoutMS
	SoundRamp      time.Duration // Sound.RampMS
	StatsFrames    int           // Telemetry.StatsWindow in frames
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults. Panics if they fail to parse.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

func (c *Config) validate() error {
	for _, s := range c.Sound.Types.Ordered() {
		if s.Type != SoundInterval && s.Type != SoundContinuous {
			return fmt.Errorf("sound %s: unknown type %q", s.Name, s.Type)
		}
		if s.Type == SoundInterval && s.MaxIntervalMS < s.MinIntervalMS {
			return fmt.Errorf("sound %s: max_interval_ms below min_interval_ms", s.Name)
		}
	}
	switch c.Floral.Mode {
	case "auto", "procedural", "svg", "none":
	default:
		return fmt.Errorf("floral: unknown mode %q", c.Floral.Mode)
	}
	if c.Insects.MaxCount < c.Insects.MinCount || c.SeaStars.MaxCount < c.SeaStars.MinCount {
		return fmt.Errorf("max_count below min_count")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	fps := c.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	c.Derived.FrameDT = 1 / float64(fps)
	c.Derived.ResizeDebounce = time.Duration(c.Scene.ResizeDebounceMS) * time.Millisecond
	c.Derived.CursorTimeout = time.Duration(c.Scene.CursorTimeoutMS) * time.Millisecond
	c.Derived.SoundRamp = time.Duration(c.Sound.RampMS) * time.Millisecond
	c.Derived.StatsFrames = int(c.Telemetry.StatsWindow * float64(fps))
	if c.Derived.StatsFrames < 1 {
		c.Derived.StatsFrames = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
