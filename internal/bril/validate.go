package bril

import (
	"errors"
	"fmt"
)

// Validate checks the invariants a built function must satisfy:
// unique block names, a consistent name index, no label markers inside
// block bodies, and at most one terminator per block in final position.
func Validate(f *Function) error {
	if f == nil {
		return nil
	}
	var errs []error

	seen := make(map[string]bool, len(f.Blocks))
	for _, bb := range f.Blocks {
		if seen[bb.Name] {
			errs = append(errs, fmt.Errorf("block %s: duplicate name", bb.Name))
		}
		seen[bb.Name] = true

		if f.byName[bb.Name] != bb {
			errs = append(errs, fmt.Errorf("block %s: name index mismatch", bb.Name))
		}

		for i, in := range bb.Instrs {
			if in.IsLabel() {
				errs = append(errs, fmt.Errorf("block %s: label marker at instr %d", bb.Name, i))
				continue
			}
			if in.Parent != bb {
				errs = append(errs, fmt.Errorf("block %s: instr %d has wrong parent", bb.Name, i))
			}
			if in.HasOp() && in.IsTerminator() && i != len(bb.Instrs)-1 {
				errs = append(errs, fmt.Errorf("block %s: terminator %s at instr %d is not last", bb.Name, in.Op(), i))
			}
		}
	}
	return errors.Join(errs...)
}
