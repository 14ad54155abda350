// Package config loads the tiling configuration used by the blockwise CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/blockwise/internal/blocks"
	"github.com/born-ml/blockwise/internal/logging"
	"github.com/born-ml/blockwise/internal/metrics"
	"github.com/born-ml/blockwise/internal/pad"
	"github.com/born-ml/blockwise/internal/parallel"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// PadConfig selects the overlap border. At most one of Width, the
// Before/After pair and PerAxis may be set.
type PadConfig struct {
	// Width pads every axis by the same amount on both sides.
	Width int `yaml:"width"`

	// Before and After pad every axis asymmetrically.
	Before int `yaml:"before"`
	After  int `yaml:"after"`

	// PerAxis lists one (before, after) pair per axis.
	PerAxis []pad.Width `yaml:"perAxis"`
}

// Config is the tiling configuration.
type Config struct {
	// NBlocks is the number of blocks per axis. A single entry applies to
	// every spatial axis.
	NBlocks []int `yaml:"nblocks"`

	// Mode is "copy" or "view".
	Mode string `yaml:"mode"`

	Pad PadConfig `yaml:"pad"`

	// Policy is the border fill policy, one of the numpy.pad mode names.
	Policy string `yaml:"policy"`

	// ConstantValue fills the border under the constant policy.
	ConstantValue float64 `yaml:"constantValue"`

	// EndValue is where linear_ramp ends.
	EndValue float64 `yaml:"endValue"`

	// StatLength limits maximum, minimum, mean and median to this many
	// interior elements per side (0 = whole axis).
	StatLength int `yaml:"statLength"`

	// ReflectType is "even" or "odd" for reflect and symmetric.
	ReflectType string `yaml:"reflectType"`

	// Workers bounds the goroutines used to extract, assemble and write
	// blocks. 1 disables parallelism.
	Workers int `yaml:"workers"`

	// PermissiveCoverage stacks even when blocks leave gaps or overlap.
	PermissiveCoverage bool `yaml:"permissiveCoverage"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"logLevel"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		NBlocks:     []int{1},
		Mode:        blocks.Copy.String(),
		Policy:      string(pad.Constant),
		ReflectType: string(pad.Even),
		Workers:     runtime.NumCPU(),
		LogLevel:    "info",
	}
}

// SetDefaults fills in missing values from DefaultConfig.
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if len(cfg.NBlocks) == 0 {
		cfg.NBlocks = defaults.NBlocks
	}
	if cfg.Mode == "" {
		cfg.Mode = defaults.Mode
	}
	if cfg.Policy == "" {
		cfg.Policy = defaults.Policy
	}
	if cfg.ReflectType == "" {
		cfg.ReflectType = defaults.ReflectType
	}
	if cfg.Workers == 0 {
		cfg.Workers = defaults.Workers
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
}

// Load reads a YAML configuration file, applies defaults and validates it.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	SetDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency. Shape-dependent checks
// (block counts against axis lengths, per-axis lengths against the rank)
// happen when the configuration is applied to an array.
func (cfg *Config) Validate() error {
	if len(cfg.NBlocks) == 0 {
		return fmt.Errorf("%w: nblocks must not be empty", ErrInvalidConfig)
	}
	for i, n := range cfg.NBlocks {
		if n < 1 {
			return fmt.Errorf("%w: nblocks[%d] must be >= 1, got %d", ErrInvalidConfig, i, n)
		}
	}

	mode, err := blocks.ParseMode(cfg.Mode)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := pad.ParsePolicy(cfg.Policy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch pad.ReflectType(cfg.ReflectType) {
	case pad.Even, pad.Odd:
	default:
		return fmt.Errorf("%w: reflectType must be even or odd, got %q", ErrInvalidConfig, cfg.ReflectType)
	}

	p := cfg.Pad
	set := 0
	if p.Width != 0 {
		set++
	}
	if p.Before != 0 || p.After != 0 {
		set++
	}
	if len(p.PerAxis) > 0 {
		set++
	}
	if set > 1 {
		return fmt.Errorf("%w: pad accepts only one of width, before/after and perAxis", ErrInvalidConfig)
	}
	if p.Width < 0 || p.Before < 0 || p.After < 0 {
		return fmt.Errorf("%w: pad amounts must be non-negative", ErrInvalidConfig)
	}
	for i, w := range p.PerAxis {
		if w.Before < 0 || w.After < 0 {
			return fmt.Errorf("%w: pad.perAxis[%d] must be non-negative, got (%d, %d)", ErrInvalidConfig, i, w.Before, w.After)
		}
	}
	if mode == blocks.View && !allZero(p) {
		return fmt.Errorf("%w: view mode requires zero padding", ErrInvalidConfig)
	}

	if cfg.StatLength < 0 {
		return fmt.Errorf("%w: statLength must be >= 0, got %d", ErrInvalidConfig, cfg.StatLength)
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("%w: workers must be >= 1, got %d", ErrInvalidConfig, cfg.Workers)
	}
	return nil
}

func allZero(p PadConfig) bool {
	if p.Width != 0 || p.Before != 0 || p.After != 0 {
		return false
	}
	for _, w := range p.PerAxis {
		if !w.IsZero() {
			return false
		}
	}
	return true
}

// BlockCounts returns the block request for an array with spatial split
// axes followed by extra axes that are kept whole, such as the colour
// channel of an image.
func (cfg *Config) BlockCounts(spatial, extra int) blocks.NBlocks {
	if len(cfg.NBlocks) == 1 && extra == 0 {
		return blocks.Uniform(cfg.NBlocks[0])
	}
	return blocks.PerAxis(appendOnes(cfg.SpatialCounts(spatial), extra)...)
}

// SpatialCounts expands a single NBlocks entry across ndim axes.
func (cfg *Config) SpatialCounts(ndim int) []int {
	if len(cfg.NBlocks) == 1 {
		counts := make([]int, ndim)
		for i := range counts {
			counts[i] = cfg.NBlocks[0]
		}
		return counts
	}
	return append([]int(nil), cfg.NBlocks...)
}

// PadWidth returns the configured border, leaving the extra trailing axes
// unpadded.
func (cfg *Config) PadWidth(spatial, extra int) blocks.PadWidth {
	p := cfg.Pad
	var widths []pad.Width
	switch {
	case len(p.PerAxis) > 0:
		widths = append(widths, p.PerAxis...)
	case p.Before != 0 || p.After != 0:
		if extra == 0 {
			return blocks.PadPair(p.Before, p.After)
		}
		widths = repeat(pad.Width{Before: p.Before, After: p.After}, spatial)
	case p.Width != 0:
		if extra == 0 {
			return blocks.PadAll(p.Width)
		}
		widths = repeat(pad.Width{Before: p.Width, After: p.Width}, spatial)
	default:
		return blocks.NoPad()
	}
	for i := 0; i < extra; i++ {
		widths = append(widths, pad.Width{})
	}
	return blocks.PadPerAxis(widths...)
}

// Params returns the fill policy and its arguments.
func (cfg *Config) Params() (pad.Policy, pad.Params) {
	return pad.Policy(cfg.Policy), pad.Params{
		ConstantValues: [][2]float64{{cfg.ConstantValue, cfg.ConstantValue}},
		EndValues:      [][2]float64{{cfg.EndValue, cfg.EndValue}},
		StatLength:     [][2]int{{cfg.StatLength, cfg.StatLength}},
		ReflectType:    pad.ReflectType(cfg.ReflectType),
	}
}

// Parallel returns the worker configuration.
func (cfg *Config) Parallel() parallel.Config {
	pc := parallel.DefaultConfig()
	pc.NumWorkers = cfg.Workers
	pc.Enabled = cfg.Workers > 1
	return pc
}

// SplitOptions converts the configuration into Split options. extra is the
// number of trailing axes that are kept whole.
func (cfg *Config) SplitOptions(spatial, extra int, logger logging.Logger, m metrics.Collector) []blocks.Option {
	mode, _ := blocks.ParseMode(cfg.Mode)
	policy, params := cfg.Params()
	return []blocks.Option{
		blocks.WithMode(mode),
		blocks.WithPadWidth(cfg.PadWidth(spatial, extra)),
		blocks.WithPolicy(policy, params),
		blocks.WithParallel(cfg.Parallel()),
		blocks.WithLogger(logger),
		blocks.WithMetrics(m),
	}
}

// StackOptions converts the configuration into Stack options.
func (cfg *Config) StackOptions(spatial, extra int, logger logging.Logger, m metrics.Collector) []blocks.Option {
	opts := []blocks.Option{
		blocks.WithPadWidth(cfg.PadWidth(spatial, extra)),
		blocks.WithParallel(cfg.Parallel()),
		blocks.WithLogger(logger),
		blocks.WithMetrics(m),
	}
	if cfg.PermissiveCoverage {
		opts = append(opts, blocks.WithPermissiveCoverage())
	}
	return opts
}

func repeat(w pad.Width, n int) []pad.Width {
	widths := make([]pad.Width, n)
	for i := range widths {
		widths[i] = w
	}
	return widths
}

func appendOnes(counts []int, n int) []int {
	for i := 0; i < n; i++ {
		counts = append(counts, 1)
	}
	return counts
}
