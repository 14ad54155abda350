// Command blockwise splits images into overlapping tiles and stacks them
// back together.
//
// Usage:
//
//	blockwise split --in slide.png --out tiles --nblocks 2,3 --pad 8 --policy reflect
//	blockwise stack --dir tiles --out restored.png
//	blockwise roundtrip --in slide.png --nblocks 4 --pad 2
//	blockwise fuse left.png right.png --out fused.png
//	blockwise matchhist --ref right.png --in left.png --out matched.png
//	blockwise border slide.png
//
// Settings can also come from a YAML file given with --config; flags
// override the file.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/born-ml/blockwise/internal/config"
	"github.com/born-ml/blockwise/internal/logging"
	"github.com/born-ml/blockwise/internal/metrics"
)

const version = "v0.1.0-dev"

// globalFlags are shared by every command.
type globalFlags struct {
	configPath  string
	logLevel    string
	workers     int
	metricsFile string
}

// tilingFlags override the tiling configuration.
type tilingFlags struct {
	nblocks    []int
	pad        int
	padBefore  int
	padAfter   int
	policy     string
	constant   float64
	permissive bool
}

// app holds what a command needs once flags are parsed.
type app struct {
	cfg      config.Config
	logger   logging.Logger
	registry *prometheus.Registry
	metrics  metrics.Collector
	gf       *globalFlags
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	gf := &globalFlags{}
	root := &cobra.Command{
		Use:           "blockwise",
		Short:         "Split images into overlapping tiles and stack them back",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&gf.configPath, "config", "", "YAML tiling configuration")
	root.PersistentFlags().StringVar(&gf.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().IntVar(&gf.workers, "workers", 0, "Worker goroutines (default: number of CPUs)")
	root.PersistentFlags().StringVar(&gf.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")

	root.AddCommand(
		newSplitCmd(gf),
		newStackCmd(gf),
		newRoundTripCmd(gf),
		newFuseCmd(gf),
		newMatchHistCmd(gf),
		newBorderCmd(gf),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "blockwise %s\n", version)
		},
	}
}

func addTilingFlags(cmd *cobra.Command, tf *tilingFlags) {
	cmd.Flags().IntSliceVar(&tf.nblocks, "nblocks", nil, "Blocks per spatial axis: N or rows,cols")
	cmd.Flags().IntVar(&tf.pad, "pad", 0, "Border width on both sides of every spatial axis")
	cmd.Flags().IntVar(&tf.padBefore, "pad-before", 0, "Border width before every spatial axis")
	cmd.Flags().IntVar(&tf.padAfter, "pad-after", 0, "Border width after every spatial axis")
	cmd.Flags().StringVar(&tf.policy, "policy", "", "Border fill policy (constant, edge, reflect, ...)")
	cmd.Flags().Float64Var(&tf.constant, "constant", 0, "Fill value of the constant policy")
	cmd.Flags().BoolVar(&tf.permissive, "permissive", false, "Stack even when tiles leave gaps or overlap")
}

// setup loads the configuration, applies flag overrides and builds the
// logger and metrics collector.
func setup(cmd *cobra.Command, gf *globalFlags, tf *tilingFlags) (*app, error) {
	cfg := config.DefaultConfig()
	if gf.configPath != "" {
		loaded, err := config.Load(gf.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if gf.logLevel != "" {
		cfg.LogLevel = gf.logLevel
	}
	if gf.workers != 0 {
		cfg.Workers = gf.workers
	}
	if tf != nil {
		if err := applyTilingFlags(cmd, &cfg, tf); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: logging.ParseLevel(cfg.LogLevel)})
	reg := prometheus.NewRegistry()
	return &app{
		cfg:      cfg,
		logger:   logging.NewSlog(slog.New(handler)),
		registry: reg,
		metrics:  metrics.NewPrometheus(reg, "blockwise"),
		gf:       gf,
	}, nil
}

func applyTilingFlags(cmd *cobra.Command, cfg *config.Config, tf *tilingFlags) error {
	flags := cmd.Flags()
	if flags.Changed("nblocks") {
		cfg.NBlocks = tf.nblocks
	}
	if flags.Changed("pad") {
		cfg.Pad = config.PadConfig{Width: tf.pad}
	}
	if flags.Changed("pad-before") || flags.Changed("pad-after") {
		cfg.Pad = config.PadConfig{Before: tf.padBefore, After: tf.padAfter}
	}
	if flags.Changed("policy") {
		cfg.Policy = tf.policy
	}
	if flags.Changed("constant") {
		cfg.ConstantValue = tf.constant
	}
	if flags.Changed("permissive") {
		cfg.PermissiveCoverage = tf.permissive
	}
	return nil
}

// finish writes the metrics file if one was requested.
func (a *app) finish() error {
	if a.gf.metricsFile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.gf.metricsFile, a.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
