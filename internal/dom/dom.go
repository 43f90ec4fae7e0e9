// Package dom computes dominator information for a control-flow graph:
// full dominator sets, immediate dominators, dominance frontiers and the
// dominator tree.
package dom

import (
	"fmt"

	"github.com/junaire/brandy/internal/bril"
	"github.com/junaire/brandy/internal/cfg"
)

// Relation maps a block to an ordered list of related blocks. Slices keep a
// deterministic order so successive runs agree.
type Relation map[*bril.Block][]*bril.Block

// Info carries every dominance artifact computed for one CFG. It borrows the
// CFG's blocks and is valid only while the function is.
type Info struct {
	G *cfg.CFG

	// RPO is the reverse postorder of the reachable blocks.
	RPO []*bril.Block

	// Dom[b] is the full set of blocks dominating b, including b, in
	// reverse-postorder.
	Dom Relation

	// IDom[b] is b's immediate dominator; the entry has none.
	IDom map[*bril.Block]*bril.Block

	// Frontier[b] is b's dominance frontier.
	Frontier Relation

	// Tree[b] lists b's children in the dominator tree.
	Tree Relation
}

// Compute runs the four dominance sub-passes in order. It fails only on a
// corrupt dominator set (more than one immediate-dominator candidate left).
func Compute(g *cfg.CFG) (*Info, error) {
	info := &Info{
		G:        g,
		Dom:      make(Relation, len(g.Fn.Blocks)),
		IDom:     make(map[*bril.Block]*bril.Block, len(g.Fn.Blocks)),
		Frontier: make(Relation, len(g.Fn.Blocks)),
		Tree:     make(Relation, len(g.Fn.Blocks)),
	}
	info.computeDominators()
	if err := info.computeImmediateDominators(); err != nil {
		return nil, fmt.Errorf("function %s: %w", g.Fn.Name, err)
	}
	info.computeFrontier()
	info.computeTree()
	return info, nil
}

// computeDominators solves the iterative dataflow problem over reverse
// postorder. Sets only shrink toward the fixpoint, so the sweep count is
// bounded by the loop nesting depth plus one.
func (info *Info) computeDominators() {
	fn := info.G.Fn
	entry := fn.Entry()
	if entry == nil {
		return
	}
	info.RPO = reversePostorder(info.G)

	for _, bb := range fn.Blocks {
		if bb == entry || bb.Name == bril.EntryBlockName {
			continue
		}
		info.Dom[bb] = append([]*bril.Block(nil), info.RPO...)
	}
	info.Dom[entry] = []*bril.Block{entry}

	// Reachable blocks in RPO first, then any block the entry cannot reach,
	// in layout order. An unreachable block has no predecessors inside the
	// reachable region; one with no predecessors at all collapses to {b} on
	// its first visit.
	order := append([]*bril.Block(nil), info.RPO...)
	inRPO := make(map[*bril.Block]bool, len(info.RPO))
	for _, bb := range info.RPO {
		inRPO[bb] = true
	}
	for _, bb := range fn.Blocks {
		if !inRPO[bb] {
			order = append(order, bb)
		}
	}

	for changed := true; changed; {
		changed = false
		for _, bb := range order {
			if bb == entry {
				continue
			}
			var next []*bril.Block
			preds := info.G.Preds(bb)
			if len(preds) > 0 {
				next = append(next, info.Dom[preds[0]]...)
				for _, p := range preds[1:] {
					next = intersect(next, info.Dom[p])
				}
			}
			if !contains(next, bb) {
				next = append(next, bb)
			}
			if !sameBlocks(next, info.Dom[bb]) {
				info.Dom[bb] = next
				changed = true
			}
		}
	}
}

// computeImmediateDominators picks, for each block, the strict dominator that
// strictly dominates no other strict dominator: the closest one.
func (info *Info) computeImmediateDominators() error {
	for _, bb := range info.G.Fn.Blocks {
		cands := remove(info.Dom[bb], bb)
		switch len(cands) {
		case 0:
			// Entry, or an unreachable block dominating only itself.
			continue
		case 1:
			info.IDom[bb] = cands[0]
			continue
		}

		// Everything that strictly dominates one of the candidates cannot be
		// the immediate dominator.
		dominated := make(map[*bril.Block]bool)
		for _, d := range cands {
			for _, x := range info.Dom[d] {
				if x != d {
					dominated[x] = true
				}
			}
		}
		var residual []*bril.Block
		for _, d := range cands {
			if !dominated[d] {
				residual = append(residual, d)
			}
		}
		if len(residual) > 1 {
			return fmt.Errorf("block %s: %d immediate-dominator candidates", bb.Name, len(residual))
		}
		if len(residual) == 1 {
			info.IDom[bb] = residual[0]
		}
	}
	return nil
}

// intersect keeps the elements of a that also occur in b, preserving a's
// order.
func intersect(a, b []*bril.Block) []*bril.Block {
	inB := make(map[*bril.Block]bool, len(b))
	for _, bb := range b {
		inB[bb] = true
	}
	out := a[:0:0]
	for _, bb := range a {
		if inB[bb] {
			out = append(out, bb)
		}
	}
	return out
}

func remove(s []*bril.Block, b *bril.Block) []*bril.Block {
	out := s[:0:0]
	for _, bb := range s {
		if bb != b {
			out = append(out, bb)
		}
	}
	return out
}

func contains(s []*bril.Block, b *bril.Block) bool {
	for _, bb := range s {
		if bb == b {
			return true
		}
	}
	return false
}

func sameBlocks(a, b []*bril.Block) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// invert flips a relation: out[y] lists every x with y in rel[x], in block
// layout order.
func invert(fn *bril.Function, rel Relation) Relation {
	out := make(Relation, len(rel))
	for _, x := range fn.Blocks {
		for _, y := range rel[x] {
			out[y] = append(out[y], x)
		}
	}
	return out
}

// reversePostorder numbers the blocks reachable from the entry over
// successor edges.
func reversePostorder(g *cfg.CFG) []*bril.Block {
	entry := g.Fn.Entry()
	if entry == nil {
		return nil
	}

	var order []*bril.Block
	seen := make(map[*bril.Block]bool, len(g.Fn.Blocks))
	var walk func(b *bril.Block)
	walk = func(b *bril.Block) {
		if seen[b] {
			return
		}
		seen[b] = true
		for _, succ := range g.Succs(b) {
			walk(succ)
		}
		order = append(order, b)
	}
	walk(entry)

	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}
