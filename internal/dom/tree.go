package dom

import "github.com/junaire/brandy/internal/bril"

// computeTree derives dominator-tree children from the strictly-dominates
// relation: a's children are the blocks a strictly dominates that no other
// block strictly dominated by a also strictly dominates.
func (info *Info) computeTree() {
	fn := info.G.Fn

	strict := invert(fn, info.Dom)
	for _, bb := range fn.Blocks {
		strict[bb] = remove(strict[bb], bb)
	}

	for _, a := range fn.Blocks {
		twice := make(map[*bril.Block]bool)
		for _, b := range strict[a] {
			for _, d := range strict[b] {
				twice[d] = true
			}
		}
		for _, b := range strict[a] {
			if !twice[b] {
				info.Tree[a] = append(info.Tree[a], b)
			}
		}
	}
}

// DominatesBlock reports whether y is a strict descendant of x in the
// dominator tree, following the tree transitively.
func (info *Info) DominatesBlock(x, y *bril.Block) bool {
	for _, child := range info.Tree[x] {
		if child == y || info.DominatesBlock(child, y) {
			return true
		}
	}
	return false
}

// Dominates reports whether instruction a dominates instruction b. Within a
// block this is textual order; across blocks, dominator-tree descent.
func (info *Info) Dominates(a, b *bril.Instr) bool {
	x, y := a.Parent, b.Parent
	if x == nil || y == nil {
		return false
	}
	if x == y {
		ai, bi := x.Index(a), x.Index(b)
		return ai >= 0 && bi >= 0 && ai < bi
	}
	return info.DominatesBlock(x, y)
}
