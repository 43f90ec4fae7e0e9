// Package driver wires the per-function pipeline together for the CLI:
// read program, build blocks, CFG, dominators, SSA conversion, optimization,
// JSON out. Functions are processed strictly one at a time, in source order.
package driver

import (
	"fmt"
	"io"
	"os"

	"github.com/junaire/brandy/internal/bril"
	"github.com/junaire/brandy/internal/cfg"
	"github.com/junaire/brandy/internal/diag"
	"github.com/junaire/brandy/internal/dom"
	"github.com/junaire/brandy/internal/observ"
	"github.com/junaire/brandy/internal/opt"
	"github.com/junaire/brandy/internal/ssa"
	"github.com/junaire/brandy/internal/trace"
)

// Options configures one driver run.
type Options struct {
	// Input is the program file path; empty means stdin.
	Input string

	// Pass toggles; all enabled by default via DefaultOptions.
	SSA      bool
	CSE      bool
	CopyProp bool
	DIE      bool

	MaxDiagnostics int
	Tracer         trace.Tracer
}

// DefaultOptions enables the whole pipeline.
func DefaultOptions() Options {
	return Options{
		SSA:            true,
		CSE:            true,
		CopyProp:       true,
		DIE:            true,
		MaxDiagnostics: 100,
		Tracer:         trace.Nop,
	}
}

// Result carries the diagnostics and timings of a run.
type Result struct {
	Bag   *diag.Bag
	Timer *observ.Timer
}

// OpenInput opens the configured input stream. The caller closes it.
func OpenInput(path string) (io.ReadCloser, error) {
	if path == "" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

// Run executes the pipeline over every function and writes one JSON line
// per function to w. A malformed function is reported and skipped; a broken
// analysis invariant aborts the whole run.
func Run(opts Options, in io.Reader, w io.Writer) (*Result, error) {
	res := &Result{
		Bag:   diag.NewBag(opts.MaxDiagnostics),
		Timer: observ.NewTimer(),
	}
	reporter := diag.BagReporter{Bag: res.Bag}

	raws, err := bril.ReadProgram(in)
	if err != nil {
		diag.ReportError(reporter, diag.IRMissingFunctions, diag.Pos{}, err.Error())
		return res, err
	}

	for _, raw := range raws {
		fn, err := runFunction(opts, reporter, res.Timer, raw)
		if err != nil {
			return res, err
		}
		if fn == nil {
			continue
		}
		if err := bril.WriteFunction(w, fn); err != nil {
			return res, fmt.Errorf("write function: %w", err)
		}
	}
	return res, nil
}

// runFunction runs one function through the pipeline. It returns (nil, nil)
// for malformed input, which is reported and skipped, and a hard error only
// for invariant violations.
func runFunction(opts Options, r diag.Reporter, timer *observ.Timer, raw map[string]any) (*bril.Function, error) {
	name, _ := raw["name"].(string)

	// step times one phase and traces it under the same name.
	step := func(phase string) func() {
		idx := timer.Begin(name, phase)
		done := trace.Span(opts.Tracer, name, phase)
		return func() {
			done()
			timer.End(idx)
		}
	}

	finish := step("build")
	fn, err := bril.BuildFunction(raw)
	finish()
	if err != nil {
		diag.ReportError(r, diag.IRBadInstr, diag.Pos{Function: name}, err.Error())
		return nil, nil
	}
	trace.Point(opts.Tracer, name, "build", fmt.Sprintf("%d blocks", len(fn.Blocks)))
	if err := bril.Validate(fn); err != nil {
		diag.ReportWarning(r, diag.AnBrokenInvariant, diag.Pos{Function: name}, err.Error())
	}

	finish = step("cfg")
	g, err := cfg.Build(fn)
	finish()
	if err != nil {
		diag.ReportError(r, diag.IRUnknownTarget, diag.Pos{Function: name}, err.Error())
		return nil, nil
	}

	if opts.SSA {
		finish = step("dom")
		info, err := dom.Compute(g)
		finish()
		if err != nil {
			diag.ReportError(r, diag.AnIdomResidual, diag.Pos{Function: name}, err.Error())
			return nil, fmt.Errorf("dominator invariant: %w", err)
		}

		finish = step("ssa")
		ssa.Convert(fn, g, info, r)
		finish()
	}

	finish = step("opt")
	err = opt.Optimize(fn, opt.Options{
		NoCSE:      !opts.CSE,
		NoCopyProp: !opts.CopyProp,
		NoDIE:      !opts.DIE,
	})
	finish()
	if err != nil {
		diag.ReportError(r, diag.AnBrokenInvariant, diag.Pos{Function: name}, err.Error())
		return nil, fmt.Errorf("optimize %s: %w", name, err)
	}

	return fn, nil
}

// FunctionAnalysis bundles the analyses for one function, for the dump
// subcommands.
type FunctionAnalysis struct {
	Fn   *bril.Function
	G    *cfg.CFG
	Info *dom.Info

	// Raw is the function's original JSON object, used as the cache key.
	Raw map[string]any
}

// Analyze builds the CFG and dominator info for every well-formed function
// without transforming anything.
func Analyze(opts Options, in io.Reader) ([]FunctionAnalysis, *Result, error) {
	res := &Result{
		Bag:   diag.NewBag(opts.MaxDiagnostics),
		Timer: observ.NewTimer(),
	}
	reporter := diag.BagReporter{Bag: res.Bag}

	raws, err := bril.ReadProgram(in)
	if err != nil {
		diag.ReportError(reporter, diag.IRMissingFunctions, diag.Pos{}, err.Error())
		return nil, res, err
	}

	var out []FunctionAnalysis
	for _, raw := range raws {
		name, _ := raw["name"].(string)
		fn, err := bril.BuildFunction(raw)
		if err != nil {
			diag.ReportError(reporter, diag.IRBadInstr, diag.Pos{Function: name}, err.Error())
			continue
		}
		g, err := cfg.Build(fn)
		if err != nil {
			diag.ReportError(reporter, diag.IRUnknownTarget, diag.Pos{Function: name}, err.Error())
			continue
		}
		info, err := dom.Compute(g)
		if err != nil {
			diag.ReportError(reporter, diag.AnIdomResidual, diag.Pos{Function: name}, err.Error())
			return out, res, fmt.Errorf("dominator invariant: %w", err)
		}
		out = append(out, FunctionAnalysis{Fn: fn, G: g, Info: info, Raw: raw})
	}
	return out, res, nil
}
