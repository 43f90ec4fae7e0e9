package opt_test

import (
	"testing"

	"github.com/junaire/brandy/internal/opt"
)

func TestDIE_DeletesUnused(t *testing.T) {
	fn := build(t, `{"functions":[{"name":"main","instrs":[
		{"op":"const","dest":"a","value":1},
		{"op":"const","dest":"dead","value":2},
		{"op":"print","args":["a"]},
		{"op":"ret"}]}]}`)

	opt.DIE(fn)

	instrs := fn.Blocks[0].Instrs
	if len(instrs) != 3 {
		t.Fatalf("got %d instructions, want 3", len(instrs))
	}
	for _, in := range instrs {
		if in.HasDest() && in.Dest() == "dead" {
			t.Error("unused const survived")
		}
	}
}

func TestDIE_PinsSideEffects(t *testing.T) {
	fn := build(t, `{"functions":[{"name":"main","instrs":[
		{"op":"const","dest":"a","value":1},
		{"op":"call","dest":"unused","funcs":["log"],"args":["a"]},
		{"op":"print","args":["a"]},
		{"op":"ret"}]}]}`)

	opt.DIE(fn)

	found := false
	for _, in := range fn.Blocks[0].Instrs {
		if in.Op() == "call" {
			found = true
		}
	}
	if !found {
		t.Error("call with unused dest must not be deleted")
	}
}

func TestDIE_CrossBlockUses(t *testing.T) {
	fn := build(t, `{"functions":[{"name":"main","instrs":[
		{"label":"a"},
		{"op":"const","dest":"x","value":1},
		{"op":"jmp","labels":["b"]},
		{"label":"b"},
		{"op":"print","args":["x"]},
		{"op":"ret"}]}]}`)

	opt.DIE(fn)

	if len(fn.Block("a").Instrs) != 2 {
		t.Error("def used in another block must survive")
	}
}

func TestOptimize_CleansUpAfterCSE(t *testing.T) {
	fn := build(t, `{"functions":[{"name":"main","instrs":[
		{"op":"const","dest":"a","value":1},
		{"op":"const","dest":"b","value":2},
		{"op":"add","dest":"x","args":["a","b"]},
		{"op":"add","dest":"y","args":["a","b"]},
		{"op":"print","args":["y"]},
		{"op":"ret"}]}]}`)

	if err := opt.Optimize(fn, opt.Options{}); err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	// CSE turns the second add into an id of x. CopyProp leaves that id
	// reading x and the print still reads y, so DIE keeps the id: only the
	// shape changes, and no second add remains.
	adds := 0
	for _, in := range fn.Blocks[0].Instrs {
		if in.Op() == "add" {
			adds++
		}
	}
	if adds != 1 {
		t.Errorf("got %d adds, want 1", adds)
	}
}

func TestOptimize_Toggles(t *testing.T) {
	src := `{"functions":[{"name":"main","instrs":[
		{"op":"const","dest":"a","value":1},
		{"op":"const","dest":"dead","value":2},
		{"op":"print","args":["a"]},
		{"op":"ret"}]}]}`

	fn := build(t, src)
	if err := opt.Optimize(fn, opt.Options{NoDIE: true}); err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if len(fn.Blocks[0].Instrs) != 4 {
		t.Error("NoDIE must keep the dead const")
	}

	fn = build(t, src)
	if err := opt.Optimize(fn, opt.Options{}); err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if len(fn.Blocks[0].Instrs) != 3 {
		t.Error("default pipeline must drop the dead const")
	}
}
