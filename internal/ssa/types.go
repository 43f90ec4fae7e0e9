package ssa

import "github.com/junaire/brandy/internal/bril"

// collectTypes maps each original variable to a type annotation gathered
// from function arguments and typed definitions, before any renaming.
func collectTypes(fn *bril.Function) map[string]any {
	types := fn.ArgTypes()
	for _, bb := range fn.Blocks {
		for _, in := range bb.Instrs {
			if !in.HasDest() {
				continue
			}
			if ty := in.Type(); ty != nil {
				if _, seen := types[in.Dest()]; !seen {
					types[in.Dest()] = ty
				}
			}
		}
	}
	return types
}

// typeOf resolves a φ's type from the original variable's collected type,
// falling back to int when nothing annotated it.
func (c *converter) typeOf(v string) any {
	if ty, ok := c.types[v]; ok {
		return ty
	}
	return "int"
}
