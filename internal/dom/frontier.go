package dom

import "github.com/junaire/brandy/internal/bril"

// computeFrontier inverts the dominator relation to enumerate, per block x,
// the successors of everything x dominates, then keeps those x does not
// strictly dominate. y is in x's frontier iff x dominates a predecessor of y
// without strictly dominating y itself.
func (info *Info) computeFrontier() {
	dominated := invert(info.G.Fn, info.Dom)

	for _, x := range info.G.Fn.Blocks {
		isDominated := make(map[*bril.Block]bool, len(dominated[x]))
		for _, y := range dominated[x] {
			isDominated[y] = true
		}

		seen := make(map[*bril.Block]bool)
		for _, y := range dominated[x] {
			for _, succ := range info.G.Succs(y) {
				if seen[succ] {
					continue
				}
				seen[succ] = true
				if !isDominated[succ] || succ == x {
					info.Frontier[x] = append(info.Frontier[x], succ)
				}
			}
		}
	}
}
