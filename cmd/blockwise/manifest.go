package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/blockwise/internal/blocks"
	"github.com/born-ml/blockwise/internal/checksum"
	"github.com/born-ml/blockwise/internal/imgproc"
	"github.com/born-ml/blockwise/internal/pad"
	"github.com/born-ml/blockwise/internal/parallel"
	"github.com/born-ml/blockwise/internal/tensor"
)

const (
	manifestName    = "plan.yaml"
	manifestVersion = 1
)

// manifest records how a directory of tiles was produced so that stack can
// reassemble and verify it.
type manifest struct {
	Version  int          `yaml:"version"`
	Source   sourceInfo   `yaml:"source"`
	NBlocks  []int        `yaml:"nblocks"`
	PadWidth []pad.Width  `yaml:"padWidth"`
	Policy   string       `yaml:"policy"`
	Tiles    []tileRecord `yaml:"tiles"`
}

type sourceInfo struct {
	Shape    tensor.Shape `yaml:"shape"`
	Checksum string       `yaml:"checksum"`
}

type tileRecord struct {
	File     string       `yaml:"file"`
	Slice    tensor.Slice `yaml:"slice"`
	Checksum string       `yaml:"checksum"`
}

// writeTiles saves every block as a PNG in dir and writes the manifest.
func writeTiles(ctx context.Context, a *app, dir string, src *tensor.Array[uint8], res *blocks.Result[uint8]) (*manifest, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	srcSum, err := checksum.Sum(src)
	if err != nil {
		return nil, err
	}

	tiles := make([]tileRecord, len(res.Blocks))
	err = parallel.ForErr(ctx, len(res.Blocks), func(_ context.Context, i int) error {
		b := res.Blocks[i]
		name := fmt.Sprintf("tile_%04d.png", i)
		if err := imgproc.Save(filepath.Join(dir, name), b.Data); err != nil {
			return err
		}
		sum, err := checksum.Sum(b.Data)
		if err != nil {
			return err
		}
		tiles[i] = tileRecord{File: name, Slice: b.Slice, Checksum: checksum.Format(sum)}
		return nil
	}, a.cfg.Parallel())
	if err != nil {
		return nil, err
	}

	m := &manifest{
		Version:  manifestVersion,
		Source:   sourceInfo{Shape: src.Shape(), Checksum: checksum.Format(srcSum)},
		NBlocks:  res.NBlocks,
		PadWidth: res.PadWidth,
		Policy:   a.cfg.Policy,
		Tiles:    tiles,
	}
	raw, err := yaml.Marshal(m)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, manifestName), raw, 0o644); err != nil {
		return nil, err
	}
	return m, nil
}

// readManifest loads the manifest of a tile directory.
func readManifest(dir string) (*manifest, error) {
	raw, err := os.ReadFile(filepath.Join(dir, manifestName))
	if err != nil {
		return nil, err
	}
	var m manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", manifestName, err)
	}
	if m.Version != manifestVersion {
		return nil, fmt.Errorf("unsupported manifest version %d", m.Version)
	}
	if len(m.Tiles) == 0 {
		return nil, fmt.Errorf("%s lists no tiles", manifestName)
	}
	return &m, nil
}

// readTiles loads and verifies every tile listed in m.
func readTiles(ctx context.Context, a *app, dir string, m *manifest) ([]*tensor.Array[uint8], error) {
	arrays := make([]*tensor.Array[uint8], len(m.Tiles))
	err := parallel.ForErr(ctx, len(m.Tiles), func(_ context.Context, i int) error {
		t := m.Tiles[i]
		arr, err := imgproc.Load(filepath.Join(dir, t.File))
		if err != nil {
			return err
		}
		want, err := checksum.Parse(t.Checksum)
		if err != nil {
			return err
		}
		if err := checksum.Verify(arr, want); err != nil {
			return fmt.Errorf("tile %s: %w", t.File, err)
		}
		arrays[i] = arr
		return nil
	}, a.cfg.Parallel())
	if err != nil {
		return nil, err
	}
	return arrays, nil
}
