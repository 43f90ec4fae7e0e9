package bril

import (
	"fmt"
)

// BuildFunction partitions one function's instruction stream into basic
// blocks. A record with "op" is an instruction; a record with "label" names
// the block that starts there; anything else is malformed IR.
//
// A terminator seals the current block. A label seals any non-empty current
// block and opens a new one, so consecutive labels yield consecutive blocks
// and a label right after a terminator starts cleanly. Blocks without a
// leading label get a synthetic bb.N name.
func BuildFunction(raw map[string]any) (*Function, error) {
	fn := &Function{
		raw:    raw,
		byName: make(map[string]*Block),
	}
	fn.Name, _ = raw["name"].(string)

	if args, ok := raw["args"].([]any); ok {
		for _, a := range args {
			obj, ok := a.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("function %s: malformed argument", fn.Name)
			}
			name, _ := obj["name"].(string)
			fn.Args = append(fn.Args, name)
		}
	}

	instrs, _ := raw["instrs"].([]any)

	var blocks []*Block
	cur := &Block{}
	for idx, entry := range instrs {
		obj, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("function %s: instrs[%d] is not an object", fn.Name, idx)
		}
		in := NewInstr(obj, nil)
		switch {
		case in.HasOp():
			cur.Append(in)
			if in.IsTerminator() {
				blocks = append(blocks, cur)
				cur = &Block{}
			}
		case in.IsLabel():
			if len(cur.Instrs) > 0 {
				blocks = append(blocks, cur)
				cur = &Block{}
			}
			cur.Append(in)
		default:
			return nil, fmt.Errorf("function %s: instrs[%d] has neither op nor label", fn.Name, idx)
		}
	}
	if len(cur.Instrs) > 0 {
		blocks = append(blocks, cur)
	}

	// Name every block: a leading label is consumed, the rest get fresh
	// synthetic names.
	next := 1
	for _, bb := range blocks {
		if len(bb.Instrs) > 0 && bb.Instrs[0].IsLabel() {
			bb.Name = bb.Instrs[0].Label()
			bb.Instrs = bb.Instrs[1:]
		} else {
			bb.Name = fmt.Sprintf("bb.%d", next)
			next++
		}
		if _, dup := fn.byName[bb.Name]; dup {
			return nil, fmt.Errorf("function %s: duplicate block name %q", fn.Name, bb.Name)
		}
		fn.byName[bb.Name] = bb
		fn.Blocks = append(fn.Blocks, bb)
	}

	return fn, nil
}
