package opt_test

import (
	"strings"
	"testing"

	"github.com/junaire/brandy/internal/bril"
	"github.com/junaire/brandy/internal/opt"
)

func build(t *testing.T, src string) *bril.Function {
	t.Helper()
	raws, err := bril.ReadProgram(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadProgram: %v", err)
	}
	fn, err := bril.BuildFunction(raws[0])
	if err != nil {
		t.Fatalf("BuildFunction: %v", err)
	}
	return fn
}

func TestCSE_SameBlock(t *testing.T) {
	fn := build(t, `{"functions":[{"name":"main","instrs":[
		{"op":"const","dest":"a","value":1},
		{"op":"const","dest":"b","value":2},
		{"op":"add","dest":"x","args":["a","b"]},
		{"op":"add","dest":"y","args":["a","b"]},
		{"op":"print","args":["x"]},
		{"op":"print","args":["y"]},
		{"op":"ret"}]}]}`)

	if err := opt.CSE(fn); err != nil {
		t.Fatalf("CSE: %v", err)
	}

	second := fn.Blocks[0].Instrs[3]
	if second.Op() != "id" {
		t.Fatalf("second add: got op %q, want id", second.Op())
	}
	if args := second.Args(); len(args) != 1 || args[0] != "x" {
		t.Fatalf("second add args: got %v, want [x]", second.Args())
	}
	if second.Dest() != "y" {
		t.Errorf("dest must be preserved: got %q", second.Dest())
	}

	first := fn.Blocks[0].Instrs[2]
	if first.Op() != "add" {
		t.Errorf("dominating add must stay: got %q", first.Op())
	}
}

func TestCSE_Commutative(t *testing.T) {
	fn := build(t, `{"functions":[{"name":"main","instrs":[
		{"op":"const","dest":"a","value":1},
		{"op":"const","dest":"b","value":2},
		{"op":"mul","dest":"x","args":["a","b"]},
		{"op":"mul","dest":"y","args":["b","a"]},
		{"op":"sub","dest":"p","args":["a","b"]},
		{"op":"sub","dest":"q","args":["b","a"]},
		{"op":"print","args":["x"]},
		{"op":"print","args":["y"]},
		{"op":"print","args":["p"]},
		{"op":"print","args":["q"]},
		{"op":"ret"}]}]}`)

	// The Bril arithmetic opcodes are spelled out; only + and * compare
	// their arguments as a multiset.
	mulFn := build(t, `{"functions":[{"name":"main","instrs":[
		{"op":"const","dest":"a","value":1},
		{"op":"const","dest":"b","value":2},
		{"op":"*","dest":"x","args":["a","b"]},
		{"op":"*","dest":"y","args":["b","a"]},
		{"op":"print","args":["x"]},
		{"op":"print","args":["y"]},
		{"op":"ret"}]}]}`)

	if err := opt.CSE(fn); err != nil {
		t.Fatalf("CSE: %v", err)
	}
	if err := opt.CSE(mulFn); err != nil {
		t.Fatalf("CSE: %v", err)
	}

	if got := fn.Blocks[0].Instrs[3].Op(); got != "mul" {
		t.Errorf("mul is not in the commutative set: got %q", got)
	}
	if got := fn.Blocks[0].Instrs[5].Op(); got != "sub" {
		t.Errorf("swapped sub args must not merge: got %q", got)
	}
	if got := mulFn.Blocks[0].Instrs[3].Op(); got != "id" {
		t.Errorf("commutative * must merge swapped args: got %q", got)
	}
}

func TestCSE_AcrossDominance(t *testing.T) {
	dominated := build(t, `{"functions":[{"name":"main","instrs":[
		{"label":"a"},
		{"op":"const","dest":"p","value":1},
		{"op":"const","dest":"q","value":2},
		{"op":"add","dest":"x","args":["p","q"]},
		{"op":"jmp","labels":["c"]},
		{"label":"c"},
		{"op":"add","dest":"y","args":["p","q"]},
		{"op":"print","args":["x"]},
		{"op":"print","args":["y"]},
		{"op":"ret"}]}]}`)

	if err := opt.CSE(dominated); err != nil {
		t.Fatalf("CSE: %v", err)
	}
	later := dominated.Block("c").Instrs[0]
	if later.Op() != "id" {
		t.Fatalf("dominated add: got %q, want id", later.Op())
	}
	if args := later.Args(); args[0] != "x" {
		t.Fatalf("dominated add args: got %v", args)
	}

	// Sibling branches do not dominate one another: no rewrite.
	siblings := build(t, `{"functions":[{"name":"main","instrs":[
		{"label":"a"},
		{"op":"const","dest":"p","value":1},
		{"op":"const","dest":"q","value":2},
		{"op":"br","args":["p"],"labels":["l","r"]},
		{"label":"l"},
		{"op":"add","dest":"x","args":["p","q"]},
		{"op":"ret"},
		{"label":"r"},
		{"op":"add","dest":"y","args":["p","q"]},
		{"op":"ret"}]}]}`)

	if err := opt.CSE(siblings); err != nil {
		t.Fatalf("CSE: %v", err)
	}
	if got := siblings.Block("l").Instrs[0].Op(); got != "add" {
		t.Errorf("left add rewritten without dominance: got %q", got)
	}
	if got := siblings.Block("r").Instrs[0].Op(); got != "add" {
		t.Errorf("right add rewritten without dominance: got %q", got)
	}
}

func TestCSE_SkipsSideEffects(t *testing.T) {
	fn := build(t, `{"functions":[{"name":"main","instrs":[
		{"op":"const","dest":"a","value":1},
		{"op":"call","dest":"x","funcs":["rand"],"args":["a"]},
		{"op":"call","dest":"y","funcs":["rand"],"args":["a"]},
		{"op":"print","args":["x"]},
		{"op":"print","args":["y"]},
		{"op":"ret"}]}]}`)

	if err := opt.CSE(fn); err != nil {
		t.Fatalf("CSE: %v", err)
	}
	if got := fn.Blocks[0].Instrs[2].Op(); got != "call" {
		t.Errorf("calls must not merge: got %q", got)
	}
}
