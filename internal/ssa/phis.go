package ssa

import (
	"sort"

	"github.com/junaire/brandy/internal/bril"
	"github.com/junaire/brandy/internal/dom"
)

// defBlocks collects, per variable, the ordered list of blocks assigning it.
func defBlocks(fn *bril.Function) (map[string][]*bril.Block, []string) {
	defs := make(map[string][]*bril.Block)
	for _, bb := range fn.Blocks {
		for _, in := range bb.Instrs {
			if !in.HasDest() {
				continue
			}
			v := in.Dest()
			if !containsBlock(defs[v], bb) {
				defs[v] = append(defs[v], bb)
			}
		}
	}

	vars := make([]string, 0, len(defs))
	for v := range defs {
		vars = append(vars, v)
	}
	sort.Strings(vars)
	return defs, vars
}

// placePhis computes which blocks need a φ for which variables. A φ is
// itself a definition, so newly chosen blocks re-enter the worklist until
// the set closes.
func placePhis(fn *bril.Function, info *dom.Info) map[*bril.Block][]string {
	defs, vars := defBlocks(fn)

	need := make(map[*bril.Block]map[string]bool)
	for _, v := range vars {
		work := append([]*bril.Block(nil), defs[v]...)
		for i := 0; i < len(work); i++ {
			for _, f := range info.Frontier[work[i]] {
				if need[f] == nil {
					need[f] = make(map[string]bool)
				}
				if need[f][v] {
					continue
				}
				need[f][v] = true
				if !containsBlock(work, f) {
					work = append(work, f)
				}
			}
		}
	}

	out := make(map[*bril.Block][]string, len(need))
	for bb, set := range need {
		list := make([]string, 0, len(set))
		for v := range set {
			list = append(list, v)
		}
		sort.Strings(list)
		out[bb] = list
	}
	return out
}

func containsBlock(s []*bril.Block, b *bril.Block) bool {
	for _, bb := range s {
		if bb == b {
			return true
		}
	}
	return false
}
