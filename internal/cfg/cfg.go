// Package cfg derives per-function control-flow graphs from built Bril
// functions. Edge order follows terminator label order; a block without a
// terminator falls through to the textually next block.
package cfg

import (
	"fmt"

	"github.com/junaire/brandy/internal/bril"
)

// CFG holds the successor and predecessor edges for one function. The maps
// are exact inverses of each other, counted with multiplicity. CFG borrows
// the function's blocks and is valid only while the function is.
type CFG struct {
	Fn *bril.Function

	succs map[*bril.Block][]*bril.Block
	preds map[*bril.Block][]*bril.Block
}

// Succs returns b's successors in terminator label order.
func (g *CFG) Succs(b *bril.Block) []*bril.Block {
	return g.succs[b]
}

// Preds returns b's predecessors in edge insertion order.
func (g *CFG) Preds(b *bril.Block) []*bril.Block {
	return g.preds[b]
}

func (g *CFG) addEdge(from, to *bril.Block) {
	g.succs[from] = append(g.succs[from], to)
	g.preds[to] = append(g.preds[to], from)
}

// Build computes the CFG of a built function. No block is added or removed.
func Build(f *bril.Function) (*CFG, error) {
	g := &CFG{
		Fn:    f,
		succs: make(map[*bril.Block][]*bril.Block, len(f.Blocks)),
		preds: make(map[*bril.Block][]*bril.Block, len(f.Blocks)),
	}

	for i, bb := range f.Blocks {
		if len(bb.Instrs) == 0 {
			return nil, fmt.Errorf("function %s: block %s is empty", f.Name, bb.Name)
		}
		last := bb.Instrs[len(bb.Instrs)-1]
		if !last.HasOp() {
			return nil, fmt.Errorf("function %s: block %s ends without an op", f.Name, bb.Name)
		}

		term := bb.Terminator()
		switch {
		case term == nil:
			// Fall through, unless this is the last block.
			if i+1 < len(f.Blocks) {
				g.addEdge(bb, f.Blocks[i+1])
			}
		case term.Op() == "ret":
			// No successors.
		default:
			for _, dst := range term.Labels() {
				succ := f.Block(dst)
				if succ == nil {
					return nil, fmt.Errorf("function %s: block %s: unknown %s target %q", f.Name, bb.Name, term.Op(), dst)
				}
				g.addEdge(bb, succ)
			}
		}
	}

	return g, nil
}
