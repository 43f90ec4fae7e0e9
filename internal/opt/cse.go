package opt

import (
	"sort"
	"strings"

	"github.com/junaire/brandy/internal/bril"
	"github.com/junaire/brandy/internal/cfg"
	"github.com/junaire/brandy/internal/dom"
)

// CSE rewrites dominated recomputations of an expression into id copies of
// the dominating result. Identity is (op, args), with args compared as a
// multiset for the commutative + and *. CSE rebuilds the CFG and dominator
// info itself; earlier passes may have invalidated them.
func CSE(fn *bril.Function) error {
	g, err := cfg.Build(fn)
	if err != nil {
		return err
	}
	info, err := dom.Compute(g)
	if err != nil {
		return err
	}

	classes := make(map[string][]*bril.Instr)
	var order []string
	for _, bb := range fn.Blocks {
		for _, in := range bb.Instrs {
			if !in.HasOp() || !in.HasArgs() || !in.HasDest() {
				continue
			}
			op := in.Op()
			if op == "phi" || sideEffecting[op] {
				continue
			}
			key := identityKey(op, in.Args())
			if _, seen := classes[key]; !seen {
				order = append(order, key)
			}
			classes[key] = append(classes[key], in)
		}
	}

	for _, key := range order {
		instrs := classes[key]
		if len(instrs) < 2 {
			continue
		}
		for i := 0; i < len(instrs); i++ {
			for j := i + 1; j < len(instrs); j++ {
				a, b := instrs[i], instrs[j]
				if info.Dominates(a, b) {
					b.SetOp("id")
					b.SetArgs([]string{a.Dest()})
				}
			}
		}
	}
	return nil
}

// identityKey folds commutative argument order away by sorting.
func identityKey(op string, args []string) string {
	if op == "+" || op == "*" {
		sorted := append([]string(nil), args...)
		sort.Strings(sorted)
		args = sorted
	}
	return op + "\x00" + strings.Join(args, "\x00")
}
