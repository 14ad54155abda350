package blocks

import (
	"fmt"

	"github.com/born-ml/blockwise/internal/logging"
	"github.com/born-ml/blockwise/internal/metrics"
	"github.com/born-ml/blockwise/internal/pad"
	"github.com/born-ml/blockwise/internal/parallel"
	"github.com/born-ml/blockwise/internal/tensor"
)

// Mode selects how Split materializes blocks.
type Mode int

// Extraction modes.
const (
	// Copy gives every block independently owned storage.
	Copy Mode = iota
	// View makes every block alias the working array.
	View
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Copy:
		return "copy"
	case View:
		return "view"
	default:
		return "unknown"
	}
}

// ParseMode maps "copy" and "view" to a Mode.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "copy", "":
		return Copy, nil
	case "view":
		return View, nil
	default:
		return Copy, paramErr(ErrConfiguration, "mode", -1, "unknown mode %q", name)
	}
}

// NBlocks is the requested number of blocks, uniform or per axis.
type NBlocks struct {
	counts  []int
	uniform bool
}

// Uniform requests n blocks along every axis.
func Uniform(n int) NBlocks {
	return NBlocks{counts: []int{n}, uniform: true}
}

// PerAxis requests counts[d] blocks along axis d.
func PerAxis(counts ...int) NBlocks {
	return NBlocks{counts: append([]int(nil), counts...)}
}

// String formats the request.
func (n NBlocks) String() string {
	if n.uniform {
		return fmt.Sprintf("%d", n.counts[0])
	}
	return fmt.Sprintf("%v", n.counts)
}

type padKind int

const (
	padNone padKind = iota
	padAll
	padPair
	padPerAxis
)

// PadWidth is the requested border around every block.
// The zero value means no padding.
type PadWidth struct {
	kind   padKind
	widths []pad.Width
}

// NoPad requests no border.
func NoPad() PadWidth {
	return PadWidth{}
}

// PadAll requests n elements before and after every axis.
func PadAll(n int) PadWidth {
	return PadWidth{kind: padAll, widths: []pad.Width{{Before: n, After: n}}}
}

// PadPair requests before elements before and after elements after every axis.
func PadPair(before, after int) PadWidth {
	return PadWidth{kind: padPair, widths: []pad.Width{{Before: before, After: after}}}
}

// PadPerAxis requests widths[d] along axis d.
func PadPerAxis(widths ...pad.Width) PadWidth {
	return PadWidth{kind: padPerAxis, widths: append([]pad.Width(nil), widths...)}
}

// String formats the request.
func (p PadWidth) String() string {
	switch p.kind {
	case padAll:
		return fmt.Sprintf("%d", p.widths[0].Before)
	case padPair:
		return fmt.Sprintf("(%d, %d)", p.widths[0].Before, p.widths[0].After)
	case padPerAxis:
		return fmt.Sprintf("%v", p.widths)
	default:
		return "0"
	}
}

// options holds the settings shared by Split and Stack.
type options struct {
	mode       Mode
	pad        PadWidth
	policy     pad.Policy
	params     pad.Params
	parallel   parallel.Config
	logger     logging.Logger
	metrics    metrics.Collector
	permissive bool
	shape      tensor.Shape
}

// Option configures Split or Stack. Options irrelevant to a call are ignored.
type Option func(*options)

func newOptions(opts []Option) *options {
	o := &options{
		mode:     Copy,
		policy:   pad.Constant,
		parallel: parallel.DefaultConfig(),
		logger:   logging.NewNop(),
		metrics:  metrics.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithMode selects View or Copy extraction (Split). Default Copy.
func WithMode(m Mode) Option {
	return func(o *options) { o.mode = m }
}

// WithPadWidth sets the border added around every block (Split) or stripped
// from every block (Stack). Default no padding.
func WithPadWidth(p PadWidth) Option {
	return func(o *options) { o.pad = p }
}

// WithPolicy sets the fill policy and its parameters, forwarded verbatim to
// pad.Pad (Split). Default constant zero.
func WithPolicy(policy pad.Policy, params pad.Params) Option {
	return func(o *options) {
		o.policy = policy
		o.params = params
	}
}

// WithParallel sets the worker configuration for copying blocks.
func WithParallel(cfg parallel.Config) Option {
	return func(o *options) { o.parallel = cfg }
}

// WithLogger sets the logger. Default no-op.
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics sets the metrics collector. Default no-op.
func WithMetrics(m metrics.Collector) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithShape makes Stack verify the derived output shape against shape.
func WithShape(shape tensor.Shape) Option {
	return func(o *options) { o.shape = shape.Clone() }
}

// WithPermissiveCoverage makes Stack accept block sets that leave cells
// uncovered or overlap. Uncovered cells keep the zero value and later blocks
// overwrite earlier ones.
func WithPermissiveCoverage() Option {
	return func(o *options) { o.permissive = true }
}
