package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/born-ml/blockwise/internal/blocks"
	"github.com/born-ml/blockwise/internal/checksum"
	"github.com/born-ml/blockwise/internal/imgproc"
	"github.com/born-ml/blockwise/internal/tensor"
)

// Images are rows×cols or rows×cols×channels; only rows and cols are split.
const spatialAxes = 2

func newSplitCmd(gf *globalFlags) *cobra.Command {
	tf := &tilingFlags{}
	var in, out string

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split an image into tiles and write them with a plan.yaml manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd, gf, tf)
			if err != nil {
				return err
			}
			img, err := imgproc.Load(in)
			if err != nil {
				return err
			}
			res, err := splitImage(a, img)
			if err != nil {
				return err
			}
			m, err := writeTiles(cmd.Context(), a, out, img, res)
			if err != nil {
				return err
			}

			a.logger.Info("tiles written", "dir", out, "tiles", len(m.Tiles), "working_shape", res.Working.Shape())
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d tiles to %s\n", len(m.Tiles), out)
			return a.finish()
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "Input image")
	cmd.Flags().StringVar(&out, "out", "", "Output directory")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	addTilingFlags(cmd, tf)
	return cmd
}

func newStackCmd(gf *globalFlags) *cobra.Command {
	var dir, out string
	var permissive bool

	cmd := &cobra.Command{
		Use:   "stack",
		Short: "Reassemble a tile directory written by split",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd, gf, nil)
			if err != nil {
				return err
			}
			m, err := readManifest(dir)
			if err != nil {
				return err
			}
			arrays, err := readTiles(cmd.Context(), a, dir, m)
			if err != nil {
				return err
			}

			plan := make([]tensor.Slice, len(m.Tiles))
			for i, t := range m.Tiles {
				plan[i] = t.Slice
			}
			opts := []blocks.Option{
				blocks.WithPadWidth(blocks.PadPerAxis(m.PadWidth...)),
				blocks.WithShape(m.Source.Shape),
				blocks.WithParallel(a.cfg.Parallel()),
				blocks.WithLogger(a.logger),
				blocks.WithMetrics(a.metrics),
			}
			if permissive || a.cfg.PermissiveCoverage {
				opts = append(opts, blocks.WithPermissiveCoverage())
			}
			img, _, err := blocks.Stack(arrays, plan, opts...)
			if err != nil {
				return err
			}

			if !permissive {
				want, err := checksum.Parse(m.Source.Checksum)
				if err != nil {
					return err
				}
				if err := checksum.Verify(img, want); err != nil {
					return fmt.Errorf("stacked image: %w", err)
				}
			}
			if err := imgproc.Save(out, img); err != nil {
				return err
			}

			a.logger.Info("image stacked", "out", out, "shape", img.Shape(), "tiles", len(arrays))
			fmt.Fprintf(cmd.OutOrStdout(), "stacked %d tiles into %s\n", len(arrays), out)
			return a.finish()
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Tile directory containing plan.yaml")
	cmd.Flags().StringVar(&out, "out", "", "Output image")
	cmd.Flags().BoolVar(&permissive, "permissive", false, "Stack even when tiles leave gaps or overlap, skipping verification")
	_ = cmd.MarkFlagRequired("dir")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newRoundTripCmd(gf *globalFlags) *cobra.Command {
	tf := &tilingFlags{}
	var in string

	cmd := &cobra.Command{
		Use:   "roundtrip",
		Short: "Split and stack an image in memory and check the result is identical",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd, gf, tf)
			if err != nil {
				return err
			}
			img, err := imgproc.Load(in)
			if err != nil {
				return err
			}
			res, err := splitImage(a, img)
			if err != nil {
				return err
			}
			extra := img.Ndim() - spatialAxes
			out, _, err := blocks.StackBlocks(res.Blocks, a.cfg.StackOptions(spatialAxes, extra, a.logger, a.metrics)...)
			if err != nil {
				return err
			}

			want, err := checksum.Sum(img)
			if err != nil {
				return err
			}
			if err := checksum.Verify(out, want); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "round trip ok: %d blocks, shape %v, checksum %s\n",
				len(res.Blocks), out.Shape(), checksum.Format(want))
			return a.finish()
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "Input image")
	_ = cmd.MarkFlagRequired("in")
	addTilingFlags(cmd, tf)
	return cmd
}

func splitImage(a *app, img *tensor.Array[uint8]) (*blocks.Result[uint8], error) {
	extra := img.Ndim() - spatialAxes
	return blocks.Split(img, a.cfg.BlockCounts(spatialAxes, extra),
		a.cfg.SplitOptions(spatialAxes, extra, a.logger, a.metrics)...)
}
