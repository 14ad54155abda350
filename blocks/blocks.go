// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package blocks splits N-dimensional arrays into a grid of blocks, with an
// optional overlapping border, and stacks them back into the original array.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/blockwise/blocks"
//	    "github.com/born-ml/blockwise/pad"
//	    "github.com/born-ml/blockwise/tensor"
//	)
//
//	func main() {
//	    a := tensor.MustArange[float32](tensor.Shape{5, 10})
//
//	    res, err := blocks.Split(a, blocks.PerAxis(1, 4),
//	        blocks.WithPadWidth(blocks.PadPair(2, 3)),
//	        blocks.WithPolicy(pad.Reflect, pad.Params{}))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // ... process res.Blocks independently ...
//
//	    out, _, err := blocks.StackBlocks(res.Blocks, blocks.WithPadWidth(blocks.PadPair(2, 3)))
//	}
//
// # Views and Copies
//
// WithMode(View) returns blocks that alias the source array and requires
// zero padding. The default Copy mode returns independent blocks.
package blocks

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/born-ml/blockwise/internal/blocks"
	"github.com/born-ml/blockwise/internal/logging"
	"github.com/born-ml/blockwise/internal/metrics"
	"github.com/born-ml/blockwise/internal/parallel"
	"github.com/born-ml/blockwise/internal/pad"
	"github.com/born-ml/blockwise/internal/tensor"
)

// Mode selects whether blocks alias the source or own their data.
type Mode = blocks.Mode

// Extraction modes.
const (
	Copy = blocks.Copy
	View = blocks.View
)

// NBlocks is the requested number of blocks, uniform or per axis.
type NBlocks = blocks.NBlocks

// PadWidth is the requested border around every block.
type PadWidth = blocks.PadWidth

// Option configures Split or Stack.
type Option = blocks.Option

// Block is one extracted sub-array.
type Block[T tensor.DType] = blocks.Block[T]

// Result is the outcome of Split.
type Result[T tensor.DType] = blocks.Result[T]

// ParamError describes which parameter failed validation.
type ParamError = blocks.ParamError

// Logger receives debug logs from Split and Stack.
type Logger = logging.Logger

// Collector receives Split and Stack metrics.
type Collector = metrics.Collector

// ParallelConfig controls the worker fan-out of Split and Stack.
type ParallelConfig = parallel.Config

// Errors.
var (
	ErrShapeMismatch      = blocks.ErrShapeMismatch
	ErrConfiguration      = blocks.ErrConfiguration
	ErrCountMismatch      = blocks.ErrCountMismatch
	ErrIncompleteCoverage = blocks.ErrIncompleteCoverage
)

// Split partitions a into blocks. See WithMode, WithPadWidth and WithPolicy.
func Split[T tensor.DType](a *tensor.Array[T], nblocks NBlocks, opts ...Option) (*Result[T], error) {
	return blocks.Split(a, nblocks, opts...)
}

// Stack reassembles blocks from their slice descriptors and returns the
// array together with the unpadded descriptors.
func Stack[T tensor.DType](arrays []*tensor.Array[T], plan []tensor.Slice, opts ...Option) (*tensor.Array[T], []tensor.Slice, error) {
	return blocks.Stack(arrays, plan, opts...)
}

// StackBlocks reassembles the blocks of a Split result.
func StackBlocks[T tensor.DType](bs []*Block[T], opts ...Option) (*tensor.Array[T], []tensor.Slice, error) {
	return blocks.StackBlocks(bs, opts...)
}

// PartitionAxis divides an axis of the given length into n contiguous cells.
func PartitionAxis(length, n int) ([]tensor.Range, error) {
	return blocks.PartitionAxis(length, n)
}

// ParseMode maps "copy" and "view" to a Mode.
func ParseMode(name string) (Mode, error) {
	return blocks.ParseMode(name)
}

// Uniform requests n blocks along every axis.
func Uniform(n int) NBlocks { return blocks.Uniform(n) }

// PerAxis requests counts[d] blocks along axis d.
func PerAxis(counts ...int) NBlocks { return blocks.PerAxis(counts...) }

// NoPad requests no border.
func NoPad() PadWidth { return blocks.NoPad() }

// PadAll requests n elements before and after every axis.
func PadAll(n int) PadWidth { return blocks.PadAll(n) }

// PadPair requests before and after elements on every axis.
func PadPair(before, after int) PadWidth { return blocks.PadPair(before, after) }

// PadPerAxis requests widths[d] along axis d.
func PadPerAxis(widths ...pad.Width) PadWidth { return blocks.PadPerAxis(widths...) }

// WithMode selects view or copy extraction.
func WithMode(m Mode) Option { return blocks.WithMode(m) }

// WithPadWidth sets the border added around every block.
func WithPadWidth(p PadWidth) Option { return blocks.WithPadWidth(p) }

// WithPolicy sets how the border is filled.
func WithPolicy(policy pad.Policy, params pad.Params) Option {
	return blocks.WithPolicy(policy, params)
}

// WithParallel sets the worker fan-out.
func WithParallel(cfg ParallelConfig) Option { return blocks.WithParallel(cfg) }

// WithLogger sets the logger.
func WithLogger(l Logger) Option { return blocks.WithLogger(l) }

// WithMetrics sets the metrics collector.
func WithMetrics(m Collector) Option { return blocks.WithMetrics(m) }

// WithShape fixes the shape Stack must produce.
func WithShape(shape tensor.Shape) Option { return blocks.WithShape(shape) }

// WithPermissiveCoverage lets Stack accept gaps and overlaps.
func WithPermissiveCoverage() Option { return blocks.WithPermissiveCoverage() }

// NewSlogLogger adapts a slog logger for WithLogger.
func NewSlogLogger(l *slog.Logger) Logger { return logging.NewSlog(l) }

// NewPrometheusCollector returns a collector registering its metrics with
// reg under namespace on first use.
func NewPrometheusCollector(reg prometheus.Registerer, namespace string) Collector {
	return metrics.NewPrometheus(reg, namespace)
}

// DefaultParallelConfig returns the default worker fan-out.
func DefaultParallelConfig() ParallelConfig { return parallel.DefaultConfig() }
