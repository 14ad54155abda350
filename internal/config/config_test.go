package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/blockwise/internal/blocks"
	"github.com/born-ml/blockwise/internal/logging"
	"github.com/born-ml/blockwise/internal/metrics"
	"github.com/born-ml/blockwise/internal/pad"
	"github.com/born-ml/blockwise/internal/tensor"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []int{1}, cfg.NBlocks)
	assert.Equal(t, "copy", cfg.Mode)
	assert.Equal(t, "constant", cfg.Policy)
	assert.Positive(t, cfg.Workers)
}

func TestConfig_YAML(t *testing.T) {
	yamlConfig := `
nblocks: [2, 3]
mode: copy
pad:
  before: 2
  after: 3
policy: linear_ramp
endValue: 9
statLength: 4
reflectType: odd
workers: 2
permissiveCoverage: true
logLevel: debug
`
	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte(yamlConfig), &cfg))
	SetDefaults(&cfg)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []int{2, 3}, cfg.NBlocks)
	assert.Equal(t, 2, cfg.Pad.Before)
	assert.Equal(t, 3, cfg.Pad.After)
	assert.Equal(t, "linear_ramp", cfg.Policy)
	assert.Equal(t, 9.0, cfg.EndValue)
	assert.True(t, cfg.PermissiveCoverage)
	assert.Equal(t, "debug", cfg.LogLevel)

	policy, params := cfg.Params()
	assert.Equal(t, pad.LinearRamp, policy)
	assert.Equal(t, [][2]float64{{9, 9}}, params.EndValues)
	assert.Equal(t, [][2]int{{4, 4}}, params.StatLength)
	assert.Equal(t, pad.Odd, params.ReflectType)

	pc := cfg.Parallel()
	assert.True(t, pc.Enabled)
	assert.Equal(t, 2, pc.NumWorkers)
}

func TestConfig_DefaultsWithPartialYAML(t *testing.T) {
	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte("nblocks: [4]\n"), &cfg))
	SetDefaults(&cfg)

	assert.Equal(t, []int{4}, cfg.NBlocks)
	assert.Equal(t, "copy", cfg.Mode)
	assert.Equal(t, "even", cfg.ReflectType)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiling.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nblocks: [2]\npad:\n  width: 1\npolicy: edge\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "edge", cfg.Policy)
	assert.Equal(t, 1, cfg.Pad.Width)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("policy: sideways\n"), 0o600))
	_, err = Load(bad)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, pad.ErrUnknownPolicy)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty nblocks", func(c *Config) { c.NBlocks = nil }},
		{"zero nblocks", func(c *Config) { c.NBlocks = []int{2, 0} }},
		{"unknown mode", func(c *Config) { c.Mode = "alias" }},
		{"unknown policy", func(c *Config) { c.Policy = "sideways" }},
		{"unknown reflect type", func(c *Config) { c.ReflectType = "mirror" }},
		{"two pad forms", func(c *Config) { c.Pad = PadConfig{Width: 1, Before: 2} }},
		{"negative pad", func(c *Config) { c.Pad.Width = -1 }},
		{"negative per-axis pad", func(c *Config) { c.Pad.PerAxis = []pad.Width{{Before: -1}} }},
		{"view with pad", func(c *Config) { c.Mode = "view"; c.Pad.Width = 2 }},
		{"negative stat length", func(c *Config) { c.StatLength = -1 }},
		{"no workers", func(c *Config) { c.Workers = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	cfg := DefaultConfig()
	cfg.Mode = "view"
	cfg.Pad.PerAxis = []pad.Width{{}, {}}
	assert.NoError(t, cfg.Validate(), "explicit zero padding is allowed in view mode")
}

func TestBlockCountsAndPadWidth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NBlocks = []int{3}
	cfg.Pad.Width = 2

	assert.Equal(t, blocks.Uniform(3).String(), cfg.BlockCounts(2, 0).String())
	assert.Equal(t, blocks.PerAxis(3, 3, 1).String(), cfg.BlockCounts(2, 1).String())
	assert.Equal(t, blocks.PadAll(2).String(), cfg.PadWidth(2, 0).String())
	assert.Equal(t,
		blocks.PadPerAxis(pad.Width{2, 2}, pad.Width{2, 2}, pad.Width{}).String(),
		cfg.PadWidth(2, 1).String())

	cfg.Pad = PadConfig{Before: 1, After: 4}
	assert.Equal(t, blocks.PadPair(1, 4).String(), cfg.PadWidth(2, 0).String())

	cfg.Pad = PadConfig{}
	assert.Equal(t, blocks.NoPad().String(), cfg.PadWidth(2, 1).String())
}

// TestSplitOptions drives a split and stack through the configuration.
func TestSplitOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NBlocks = []int{2, 2}
	cfg.Pad.Width = 1
	cfg.Policy = "reflect"

	a := tensor.MustArange[uint8](tensor.Shape{6, 8, 3})
	res, err := blocks.Split(a, cfg.BlockCounts(2, 1),
		cfg.SplitOptions(2, 1, logging.NewNop(), metrics.NewNop())...)
	require.NoError(t, err)
	require.Len(t, res.Blocks, 4)
	assert.Equal(t, tensor.Shape{5, 6, 3}, res.Blocks[0].Data.Shape())

	out, _, err := blocks.StackBlocks(res.Blocks, cfg.StackOptions(2, 1, logging.NewNop(), metrics.NewNop())...)
	require.NoError(t, err)
	assert.True(t, out.Equal(a))
}
