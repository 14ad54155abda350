package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/blockwise/internal/config"
	"github.com/born-ml/blockwise/internal/imgproc"
	"github.com/born-ml/blockwise/internal/tensor"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// writeTestImage saves a 12×17 RGB image with a flat 241 border.
func writeTestImage(t *testing.T, dir string) (string, *tensor.Array[uint8]) {
	t.Helper()
	img, err := tensor.Full(tensor.Shape{12, 17, 3}, uint8(241))
	require.NoError(t, err)
	for r := 1; r < 11; r++ {
		for c := 1; c < 16; c++ {
			for ch := 0; ch < 3; ch++ {
				img.Set(uint8((r*31+c*7+ch*50)%256), r, c, ch)
			}
		}
	}
	path := filepath.Join(dir, "input.png")
	require.NoError(t, imgproc.Save(path, img))
	return path, img
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "blockwise "+version+"\n", out)
}

func TestSplitStack(t *testing.T) {
	dir := t.TempDir()
	in, img := writeTestImage(t, dir)
	tiles := filepath.Join(dir, "tiles")
	restored := filepath.Join(dir, "restored.png")

	out, err := run(t, "split", "--in", in, "--out", tiles, "--nblocks", "2,3", "--pad", "2", "--policy", "reflect", "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 6 tiles")

	m, err := readManifest(tiles)
	require.NoError(t, err)
	require.Len(t, m.Tiles, 6)
	assert.Equal(t, tensor.Shape{12, 17, 3}, m.Source.Shape)
	assert.Equal(t, []int{2, 3, 1}, m.NBlocks)
	assert.Equal(t, "reflect", m.Policy)

	tile, err := imgproc.Load(filepath.Join(tiles, m.Tiles[0].File))
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{10, 10, 3}, tile.Shape())

	out, err = run(t, "stack", "--dir", tiles, "--out", restored)
	require.NoError(t, err)
	assert.Contains(t, out, "stacked 6 tiles")

	got, err := imgproc.Load(restored)
	require.NoError(t, err)
	assert.True(t, got.Equal(img))
}

func TestStackDetectsCorruptTile(t *testing.T) {
	dir := t.TempDir()
	in, _ := writeTestImage(t, dir)
	tiles := filepath.Join(dir, "tiles")

	_, err := run(t, "split", "--in", in, "--out", tiles, "--nblocks", "2")
	require.NoError(t, err)

	m, err := readManifest(tiles)
	require.NoError(t, err)
	blank, err := tensor.Zeros[uint8](tensor.Shape{6, 9, 3})
	require.NoError(t, err)
	require.NoError(t, imgproc.Save(filepath.Join(tiles, m.Tiles[1].File), blank))

	_, err = run(t, "stack", "--dir", tiles, "--out", filepath.Join(dir, "bad.png"))
	assert.Error(t, err)
}

func TestRoundTripWithConfig(t *testing.T) {
	dir := t.TempDir()
	in, _ := writeTestImage(t, dir)

	cfgPath := filepath.Join(dir, "tiling.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("nblocks: [3]\npad:\n  before: 1\n  after: 4\npolicy: edge\n"), 0o600))
	metricsPath := filepath.Join(dir, "metrics.prom")

	out, err := run(t, "roundtrip", "--in", in, "--config", cfgPath, "--metrics-file", metricsPath)
	require.NoError(t, err)
	assert.Contains(t, out, "round trip ok: 9 blocks")

	raw, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "blockwise_split_calls_total")
	assert.Contains(t, string(raw), "blockwise_stack_calls_total")
}

func TestRoundTripRejectsViewWithPadding(t *testing.T) {
	dir := t.TempDir()
	in, _ := writeTestImage(t, dir)
	cfgPath := filepath.Join(dir, "view.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("mode: view\n"), 0o600))

	_, err := run(t, "roundtrip", "--in", in, "--config", cfgPath, "--pad", "1")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	out, err := run(t, "roundtrip", "--in", in, "--config", cfgPath, "--nblocks", "4,5")
	require.NoError(t, err)
	assert.Contains(t, out, "round trip ok: 20 blocks")
}

func TestBorder(t *testing.T) {
	dir := t.TempDir()
	in, _ := writeTestImage(t, dir)

	out, err := run(t, "border", in)
	require.NoError(t, err)
	assert.Equal(t, "241 241 241\n", out)
}

func TestFuseAndMatchHist(t *testing.T) {
	dir := t.TempDir()
	in, _ := writeTestImage(t, dir)
	small := filepath.Join(dir, "small.png")
	require.NoError(t, imgproc.Save(small, tensor.MustArange[uint8](tensor.Shape{5, 20})))

	fused := filepath.Join(dir, "fused.png")
	_, err := run(t, "fuse", in, small, "--out", fused)
	require.NoError(t, err)
	f, err := imgproc.Load(fused)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{12, 20, 3}, f.Shape())

	matched := filepath.Join(dir, "matched.png")
	_, err = run(t, "matchhist", "--ref", in, "--in", in, "--out", matched, "--bins", "64")
	require.NoError(t, err)
	m, err := imgproc.Load(matched)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{12, 17, 3}, m.Shape())
}
