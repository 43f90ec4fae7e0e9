// Package testkit carries the cross-cutting IR invariant checks shared by
// the package test suites.
package testkit

import (
	"fmt"
	"reflect"

	"github.com/junaire/brandy/internal/bril"
	"github.com/junaire/brandy/internal/cfg"
	"github.com/junaire/brandy/internal/dom"
)

// CheckBlockPartition verifies that the concatenation of block instruction
// lists equals the original instruction stream with labels stripped.
func CheckBlockPartition(original []any, fn *bril.Function) error {
	var want []map[string]any
	for _, entry := range original {
		obj, ok := entry.(map[string]any)
		if !ok {
			return fmt.Errorf("original stream holds a non-object entry")
		}
		if _, isLabel := obj["label"]; isLabel {
			continue
		}
		want = append(want, obj)
	}

	var got []map[string]any
	for _, bb := range fn.Blocks {
		for _, in := range bb.Instrs {
			got = append(got, in.Fields)
		}
	}

	if len(got) != len(want) {
		return fmt.Errorf("partition dropped or added instructions: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if !reflect.DeepEqual(got[i], want[i]) {
			return fmt.Errorf("instruction %d differs: got %v, want %v", i, got[i], want[i])
		}
	}
	return nil
}

// CheckCFGInversion verifies succ/pred are exact inverses, counted with
// multiplicity.
func CheckCFGInversion(g *cfg.CFG) error {
	count := func(s []*bril.Block, b *bril.Block) int {
		n := 0
		for _, cur := range s {
			if cur == b {
				n++
			}
		}
		return n
	}
	for _, a := range g.Fn.Blocks {
		for _, b := range g.Fn.Blocks {
			fwd := count(g.Succs(a), b)
			rev := count(g.Preds(b), a)
			if fwd != rev {
				return fmt.Errorf("edge %s->%s: %d in succs, %d in preds", a.Name, b.Name, fwd, rev)
			}
		}
	}
	return nil
}

// CheckDomFixpoint verifies dom[b] = (∩ over preds) ∪ {b} for every
// non-entry block with predecessors.
func CheckDomFixpoint(info *dom.Info) error {
	fn := info.G.Fn
	for _, bb := range fn.Blocks {
		if bb == fn.Entry() {
			continue
		}
		preds := info.G.Preds(bb)
		if len(preds) == 0 {
			continue
		}

		want := blockSet(info.Dom[preds[0]])
		for _, p := range preds[1:] {
			pdom := blockSet(info.Dom[p])
			for d := range want {
				if !pdom[d] {
					delete(want, d)
				}
			}
		}
		want[bb] = true

		got := blockSet(info.Dom[bb])
		if len(got) != len(want) {
			return fmt.Errorf("block %s: dominator set not at fixpoint", bb.Name)
		}
		for d := range want {
			if !got[d] {
				return fmt.Errorf("block %s: dominator set missing %s", bb.Name, d.Name)
			}
		}
	}
	return nil
}

// CheckIdom verifies every reachable non-entry block has exactly one
// immediate dominator drawn from its strict dominators.
func CheckIdom(info *dom.Info) error {
	fn := info.G.Fn
	reachable := blockSet(info.RPO)
	for _, bb := range fn.Blocks {
		if bb == fn.Entry() || !reachable[bb] {
			continue
		}
		idom := info.IDom[bb]
		if idom == nil {
			return fmt.Errorf("block %s: no immediate dominator", bb.Name)
		}
		if idom == bb {
			return fmt.Errorf("block %s: immediate dominator is itself", bb.Name)
		}
		if !blockSet(info.Dom[bb])[idom] {
			return fmt.Errorf("block %s: idom %s is not a dominator", bb.Name, idom.Name)
		}
	}
	return nil
}

// CheckFrontier verifies y ∈ df[x] iff x dominates some predecessor of y
// and does not strictly dominate y.
func CheckFrontier(info *dom.Info) error {
	fn := info.G.Fn
	for _, x := range fn.Blocks {
		inDF := blockSet(info.Frontier[x])
		for _, y := range fn.Blocks {
			domsPred := false
			for _, p := range info.G.Preds(y) {
				if blockSet(info.Dom[p])[x] {
					domsPred = true
					break
				}
			}
			strictly := x != y && blockSet(info.Dom[y])[x]
			want := domsPred && !strictly
			if want != inDF[y] {
				return fmt.Errorf("df[%s]: %s membership is %v, want %v", x.Name, y.Name, inDF[y], want)
			}
		}
	}
	return nil
}

// CheckSSASingleAssignment verifies every dest in the function is unique.
func CheckSSASingleAssignment(fn *bril.Function) error {
	seen := make(map[string]string)
	for _, bb := range fn.Blocks {
		for _, in := range bb.Instrs {
			if !in.HasDest() {
				continue
			}
			dest := in.Dest()
			if prev, dup := seen[dest]; dup {
				return fmt.Errorf("dest %s assigned in both %s and %s", dest, prev, bb.Name)
			}
			seen[dest] = bb.Name
		}
	}
	return nil
}

// CheckUseDominatesDef verifies the definition of every name used by a
// non-φ instruction dominates the use. Function arguments and the __undef
// sentinel are defined at entry and skipped.
func CheckUseDominatesDef(fn *bril.Function, info *dom.Info) error {
	args := make(map[string]bool, len(fn.Args))
	for _, a := range fn.Args {
		args[a] = true
	}
	defs := make(map[string]*bril.Instr)
	for _, bb := range fn.Blocks {
		for _, in := range bb.Instrs {
			if in.HasDest() {
				defs[in.Dest()] = in
			}
		}
	}

	for _, bb := range fn.Blocks {
		for _, in := range bb.Instrs {
			if !in.HasArgs() || in.Op() == "phi" {
				continue
			}
			for _, a := range in.Args() {
				if a == bril.UndefName || args[a] {
					continue
				}
				def := defs[a]
				if def == nil {
					return fmt.Errorf("block %s: use of %s has no definition", bb.Name, a)
				}
				if !info.Dominates(def, in) {
					return fmt.Errorf("block %s: definition of %s does not dominate its use", bb.Name, a)
				}
			}
		}
	}
	return nil
}

func blockSet(s []*bril.Block) map[*bril.Block]bool {
	out := make(map[*bril.Block]bool, len(s))
	for _, bb := range s {
		out[bb] = true
	}
	return out
}
