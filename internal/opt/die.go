package opt

import "github.com/junaire/brandy/internal/bril"

// DIE deletes instructions whose destination is never read anywhere in the
// function. Side-effecting instructions are pinned regardless of their
// destination. Single pass; id chains left behind by CSE are already
// collapsed by CopyProp, so one sweep catches them.
func DIE(fn *bril.Function) {
	uses := make(map[string]bool)
	for _, bb := range fn.Blocks {
		for _, in := range bb.Instrs {
			for _, a := range in.Args() {
				uses[a] = true
			}
		}
	}

	for _, bb := range fn.Blocks {
		kept := bb.Instrs[:0]
		for _, in := range bb.Instrs {
			if in.HasDest() && !uses[in.Dest()] && !sideEffecting[in.Op()] {
				continue
			}
			kept = append(kept, in)
		}
		bb.Instrs = kept
	}
}
