// Package ssa converts a function to static single assignment form with
// Cytron-style φ placement over the dominance frontier followed by a
// recursive rename walk of the dominator tree.
package ssa

import (
	"github.com/junaire/brandy/internal/bril"
	"github.com/junaire/brandy/internal/cfg"
	"github.com/junaire/brandy/internal/diag"
	"github.com/junaire/brandy/internal/dom"
)

// Convert rewrites fn into SSA form in place. Uses with no visible
// definition become the __undef sentinel and are reported as warnings
// through r.
func Convert(fn *bril.Function, g *cfg.CFG, info *dom.Info, r diag.Reporter) {
	c := &converter{
		fn:         fn,
		g:          g,
		info:       info,
		reporter:   r,
		phis:       placePhis(fn, info),
		counters:   make(map[string]int),
		stack:      make(map[string][]string),
		phiArgs:    make(map[*bril.Block]map[string][]phiArg),
		phiDests:   make(map[*bril.Block]map[string]string),
		phiRenamed: make(map[*bril.Instr]map[int]bool),
		types:      collectTypes(fn),
	}

	// Function parameters are defined on entry; they seed the stacks under
	// their own names.
	for _, arg := range fn.Args {
		c.stack[arg] = []string{arg}
	}

	if entry := fn.Entry(); entry != nil {
		c.rename(entry)
	}
	c.insertPhis()
}
