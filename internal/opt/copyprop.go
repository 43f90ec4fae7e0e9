package opt

import "github.com/junaire/brandy/internal/bril"

// CopyProp collapses intra-block id chains. Scanning a block builds
// equivalence classes of names linked by x = id y; afterwards every id in a
// class reads the class's founding source directly.
//
// TODO: lift to SSA-global once callers always run it after ssa.Convert.
func CopyProp(fn *bril.Function) {
	for _, bb := range fn.Blocks {
		var classes [][]string
		defs := make(map[string]*bril.Instr)

		for _, in := range bb.Instrs {
			if !in.HasOp() || !in.HasDest() || in.Op() != "id" {
				continue
			}
			args := in.Args()
			if len(args) == 0 {
				continue
			}
			src, dest := args[0], in.Dest()
			defs[dest] = in

			joined := false
			for i, class := range classes {
				if containsName(class, src) {
					classes[i] = append(class, dest)
					joined = true
					break
				}
			}
			if !joined {
				classes = append(classes, []string{src, dest})
			}
		}

		for _, class := range classes {
			if len(class) < 2 {
				continue
			}
			canonical := class[0]
			for _, member := range class[1:] {
				if in := defs[member]; in != nil {
					in.SetArgs([]string{canonical})
				}
			}
		}
	}
}

func containsName(s []string, name string) bool {
	for _, cur := range s {
		if cur == name {
			return true
		}
	}
	return false
}
