package ssa

import (
	"fmt"
	"strconv"

	"github.com/junaire/brandy/internal/bril"
	"github.com/junaire/brandy/internal/cfg"
	"github.com/junaire/brandy/internal/diag"
	"github.com/junaire/brandy/internal/dom"
)

type phiArg struct {
	pred *bril.Block
	name string
}

type converter struct {
	fn       *bril.Function
	g        *cfg.CFG
	info     *dom.Info
	reporter diag.Reporter

	phis     map[*bril.Block][]string
	counters map[string]int
	stack    map[string][]string

	phiArgs  map[*bril.Block]map[string][]phiArg
	phiDests map[*bril.Block]map[string]string

	// phiRenamed guards pre-existing φ operand slots against a second
	// substitution when a predecessor reaches the block over duplicate
	// edges.
	phiRenamed map[*bril.Instr]map[int]bool

	types map[string]any
}

// pushFresh mints the next SSA name for an original variable and makes it
// the visible definition.
func (c *converter) pushFresh(v string) string {
	n := c.counters[v]
	c.counters[v]++
	fresh := v + "." + strconv.Itoa(n)
	c.stack[v] = append(c.stack[v], fresh)
	return fresh
}

// top returns the visible SSA name for v, or the __undef sentinel.
func (c *converter) top(v string, pos diag.Pos) string {
	if s := c.stack[v]; len(s) > 0 {
		return s[len(s)-1]
	}
	diag.ReportWarning(c.reporter, diag.AnRenameUndef, pos,
		fmt.Sprintf("use of %s has no reaching definition", v))
	return bril.UndefName
}

// rename walks b and then its dominator-tree children. The stack snapshot is
// a shallow map copy: children only push, so the parent's slice headers stay
// valid across the restore.
func (c *converter) rename(b *bril.Block) {
	saved := make(map[string][]string, len(c.stack))
	for v, s := range c.stack {
		saved[v] = s
	}

	for _, v := range c.phis[b] {
		if c.phiDests[b] == nil {
			c.phiDests[b] = make(map[string]string)
		}
		c.phiDests[b][v] = c.pushFresh(v)
	}

	for idx, in := range b.Instrs {
		// A φ already present in the input reads one value per
		// predecessor; its operands are substituted when the matching
		// predecessor is processed, not here.
		if in.Op() == "phi" {
			if in.HasDest() {
				in.SetDest(c.pushFresh(in.Dest()))
			}
			continue
		}
		if in.HasArgs() {
			args := in.Args()
			renamed := make([]string, len(args))
			for i, a := range args {
				renamed[i] = c.top(a, diag.Pos{Function: c.fn.Name, Block: b.Name, Instr: idx})
			}
			in.SetArgs(renamed)
		}
		if in.HasDest() {
			in.SetDest(c.pushFresh(in.Dest()))
		}
	}

	for _, s := range c.g.Succs(b) {
		c.renameIncomingPhis(b, s)
		for _, v := range c.phis[s] {
			if c.phiArgs[s] == nil {
				c.phiArgs[s] = make(map[string][]phiArg)
			}
			name := bril.UndefName
			if stack := c.stack[v]; len(stack) > 0 {
				name = stack[len(stack)-1]
			}
			c.phiArgs[s][v] = append(c.phiArgs[s][v], phiArg{pred: b, name: name})
		}
	}

	for _, child := range c.info.Tree[b] {
		c.rename(child)
	}

	c.stack = saved
}

// renameIncomingPhis substitutes the operand slots of s's pre-existing φs
// that belong to predecessor b, using b's visible definitions.
func (c *converter) renameIncomingPhis(b, s *bril.Block) {
	for _, in := range s.Instrs {
		if in.Op() != "phi" || !in.HasArgs() {
			continue
		}
		labels := in.Labels()
		args := in.Args()
		changed := false
		for i, l := range labels {
			if l != b.Name || i >= len(args) {
				continue
			}
			if c.phiRenamed[in] == nil {
				c.phiRenamed[in] = make(map[int]bool)
			}
			if c.phiRenamed[in][i] {
				continue
			}
			c.phiRenamed[in][i] = true
			if stack := c.stack[args[i]]; len(stack) > 0 {
				args[i] = stack[len(stack)-1]
			} else {
				args[i] = bril.UndefName
			}
			changed = true
		}
		if changed {
			in.SetArgs(args)
		}
	}
}

// insertPhis materializes the recorded φs at the top of each block. labels
// and args stay paired pointwise per incoming predecessor.
func (c *converter) insertPhis() {
	for _, bb := range c.fn.Blocks {
		args := c.phiArgs[bb]
		if len(args) == 0 {
			continue
		}
		var phis []*bril.Instr
		for _, v := range c.phis[bb] {
			pairs, ok := args[v]
			if !ok {
				continue
			}
			labels := make([]string, len(pairs))
			names := make([]string, len(pairs))
			for i, p := range pairs {
				labels[i] = p.pred.Name
				names[i] = p.name
			}
			fields := map[string]any{
				"op":     "phi",
				"dest":   c.phiDests[bb][v],
				"type":   c.typeOf(v),
				"labels": labels,
				"args":   names,
			}
			phis = append(phis, bril.NewInstr(fields, bb))
		}
		bb.PrependAll(phis)
	}
}
