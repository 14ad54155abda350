package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/born-ml/blockwise/internal/imgproc"
	"github.com/born-ml/blockwise/internal/tensor"
)

func newFuseCmd(gf *globalFlags) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "fuse A B",
		Short: "Write a false-colour composite of two images",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, gf, nil)
			if err != nil {
				return err
			}
			first, err := imgproc.Load(args[0])
			if err != nil {
				return err
			}
			second, err := imgproc.Load(args[1])
			if err != nil {
				return err
			}
			fused, err := imgproc.Fuse(first, second)
			if err != nil {
				return err
			}
			if err := imgproc.Save(out, fused); err != nil {
				return err
			}
			a.logger.Info("images fused", "out", out, "shape", fused.Shape())
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Output image")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newMatchHistCmd(gf *globalFlags) *cobra.Command {
	var ref, in, out, maskPath, refMaskPath string
	var bins int

	cmd := &cobra.Command{
		Use:   "matchhist",
		Short: "Match the histogram of an image to a reference image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd, gf, nil)
			if err != nil {
				return err
			}
			refImg, err := imgproc.Load(ref)
			if err != nil {
				return err
			}
			img, err := imgproc.Load(in)
			if err != nil {
				return err
			}

			opts := []imgproc.MatchOption{imgproc.WithBins(bins)}
			if maskPath != "" {
				mask, err := loadMask(maskPath)
				if err != nil {
					return err
				}
				opts = append(opts, imgproc.WithMask(mask))
			}
			if refMaskPath != "" {
				mask, err := loadMask(refMaskPath)
				if err != nil {
					return err
				}
				opts = append(opts, imgproc.WithRefMask(mask))
			}

			matched, err := imgproc.MatchHist(imgproc.AsFloat64(refImg), imgproc.AsFloat64(img), opts...)
			if err != nil {
				return err
			}
			if err := imgproc.Save(out, imgproc.ToUint8(matched)); err != nil {
				return err
			}
			a.logger.Info("histogram matched", "out", out, "bins", bins)
			return nil
		},
	}
	cmd.Flags().StringVar(&ref, "ref", "", "Reference image")
	cmd.Flags().StringVar(&in, "in", "", "Image to correct")
	cmd.Flags().StringVar(&out, "out", "", "Output image")
	cmd.Flags().StringVar(&maskPath, "mask", "", "Mask of the image to correct (white = used)")
	cmd.Flags().StringVar(&refMaskPath, "ref-mask", "", "Mask of the reference image (white = used)")
	cmd.Flags().IntVar(&bins, "bins", imgproc.DefaultBins, "Histogram bins")
	for _, name := range []string{"ref", "in", "out"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newBorderCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "border IMAGE",
		Short: "Print the typical border intensity of each channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := setup(cmd, gf, nil); err != nil {
				return err
			}
			img, err := imgproc.Load(args[0])
			if err != nil {
				return err
			}
			typical, err := imgproc.TypicalBorderIntensity(imgproc.AsFloat64(img))
			if err != nil {
				return err
			}
			parts := make([]string, len(typical))
			for i, v := range typical {
				parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(parts, " "))
			return nil
		},
	}
}

// loadMask reads an image and treats pixels brighter than mid-gray as set.
func loadMask(path string) (*tensor.Array[bool], error) {
	img, err := imgproc.Load(path)
	if err != nil {
		return nil, err
	}
	gray, err := imgproc.Gray(img)
	if err != nil {
		return nil, err
	}
	src := gray.Data()
	data := make([]bool, len(src))
	for i, v := range src {
		data[i] = v > 127
	}
	return tensor.FromSlice(data, gray.Shape())
}
