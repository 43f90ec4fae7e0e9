package ssa_test

import (
	"strings"
	"testing"

	"github.com/junaire/brandy/internal/bril"
	"github.com/junaire/brandy/internal/cfg"
	"github.com/junaire/brandy/internal/diag"
	"github.com/junaire/brandy/internal/dom"
	"github.com/junaire/brandy/internal/ssa"
	"github.com/junaire/brandy/internal/testkit"
)

func convert(t *testing.T, src string) (*bril.Function, *dom.Info, *diag.Bag) {
	t.Helper()
	raws, err := bril.ReadProgram(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadProgram: %v", err)
	}
	fn, err := bril.BuildFunction(raws[0])
	if err != nil {
		t.Fatalf("BuildFunction: %v", err)
	}
	g, err := cfg.Build(fn)
	if err != nil {
		t.Fatalf("cfg.Build: %v", err)
	}
	info, err := dom.Compute(g)
	if err != nil {
		t.Fatalf("dom.Compute: %v", err)
	}
	bag := diag.NewBag(16)
	ssa.Convert(fn, g, info, diag.BagReporter{Bag: bag})
	return fn, info, bag
}

func checkSSA(t *testing.T, fn *bril.Function, info *dom.Info) {
	t.Helper()
	if err := testkit.CheckSSASingleAssignment(fn); err != nil {
		t.Errorf("single assignment: %v", err)
	}
	if err := testkit.CheckUseDominatesDef(fn, info); err != nil {
		t.Errorf("use dominates def: %v", err)
	}
}

func findPhi(bb *bril.Block) *bril.Instr {
	for _, in := range bb.Instrs {
		if in.Op() == "phi" {
			return in
		}
	}
	return nil
}

func TestConvert_Linear(t *testing.T) {
	fn, info, bag := convert(t, `{"functions":[{"name":"main","instrs":[
		{"op":"const","dest":"x","value":1},
		{"op":"const","dest":"y","value":2},
		{"op":"add","dest":"z","args":["x","y"]},
		{"op":"ret"}]}]}`)

	instrs := fn.Blocks[0].Instrs
	wantDests := []string{"x.0", "y.0", "z.0"}
	for i, want := range wantDests {
		if got := instrs[i].Dest(); got != want {
			t.Errorf("dest %d: got %q, want %q", i, got, want)
		}
	}
	add := instrs[2]
	if args := add.Args(); len(args) != 2 || args[0] != "x.0" || args[1] != "y.0" {
		t.Errorf("add args: got %v", add.Args())
	}
	if findPhi(fn.Blocks[0]) != nil {
		t.Error("straight-line code must not grow a phi")
	}
	if bag.HasWarnings() {
		t.Errorf("unexpected diagnostics: %v", bag.Items())
	}
	checkSSA(t, fn, info)
}

func TestConvert_BranchJoin(t *testing.T) {
	fn, info, _ := convert(t, `{"functions":[{"name":"main","instrs":[
		{"label":"a"},
		{"op":"const","dest":"cond","value":true},
		{"op":"const","dest":"x","value":1},
		{"op":"br","args":["cond"],"labels":["b","c"]},
		{"label":"b"},
		{"op":"const","dest":"x","value":2},
		{"op":"jmp","labels":["c"]},
		{"label":"c"},
		{"op":"id","dest":"y","args":["x"]},
		{"op":"ret"}]}]}`)

	phi := findPhi(fn.Block("c"))
	if phi == nil {
		t.Fatal("join block needs a phi for x")
	}
	if got := phi.Dest(); got != "x.2" {
		t.Errorf("phi dest: got %q, want x.2", got)
	}
	labels, args := phi.Labels(), phi.Args()
	if len(labels) != 2 || len(args) != 2 {
		t.Fatalf("phi arity: labels=%v args=%v", labels, args)
	}
	want := map[string]string{"a": "x.0", "b": "x.1"}
	for i, l := range labels {
		if want[l] != args[i] {
			t.Errorf("phi incoming %s: got %q, want %q", l, args[i], want[l])
		}
	}

	id := fn.Block("c").Instrs[1]
	if got := id.Args(); len(got) != 1 || got[0] != "x.2" {
		t.Errorf("id must read the phi: got %v", got)
	}
	checkSSA(t, fn, info)
}

func TestConvert_Loop(t *testing.T) {
	fn, info, _ := convert(t, `{"functions":[{"name":"main","instrs":[
		{"label":"a"},
		{"op":"const","dest":"x","value":0},
		{"op":"const","dest":"one","value":1},
		{"op":"const","dest":"c","value":true},
		{"op":"jmp","labels":["h"]},
		{"label":"h"},
		{"op":"br","args":["c"],"labels":["b","e"]},
		{"label":"b"},
		{"op":"add","dest":"x","args":["x","one"]},
		{"op":"jmp","labels":["h"]},
		{"label":"e"},
		{"op":"ret","args":["x"]}]}]}`)

	phi := findPhi(fn.Block("h"))
	if phi == nil {
		t.Fatal("loop header needs a phi for x")
	}
	if got := phi.Dest(); got != "x.1" {
		t.Errorf("phi dest: got %q, want x.1", got)
	}
	want := map[string]string{"a": "x.0", "b": "x.2"}
	labels, args := phi.Labels(), phi.Args()
	for i, l := range labels {
		if want[l] != args[i] {
			t.Errorf("phi incoming %s: got %q, want %q", l, args[i], want[l])
		}
	}

	add := fn.Block("b").Instrs[0]
	if got := add.Args(); got[0] != "x.1" {
		t.Errorf("loop body must read the phi: got %v", got)
	}
	if got := add.Dest(); got != "x.2" {
		t.Errorf("loop body dest: got %q, want x.2", got)
	}

	ret := fn.Block("e").Instrs[0]
	if got := ret.Args(); got[0] != "x.1" {
		t.Errorf("exit must read the phi: got %v", got)
	}
	checkSSA(t, fn, info)
}

func TestConvert_FunctionArgs(t *testing.T) {
	fn, info, bag := convert(t, `{"functions":[{"name":"add","args":[
		{"name":"a","type":"int"},{"name":"b","type":"int"}],"instrs":[
		{"op":"add","dest":"c","args":["a","b"],"type":"int"},
		{"op":"ret","args":["c"]}]}]}`)

	add := fn.Blocks[0].Instrs[0]
	if args := add.Args(); args[0] != "a" || args[1] != "b" {
		t.Errorf("parameters must keep their names: got %v", args)
	}
	if bag.HasWarnings() {
		t.Errorf("parameter uses must not warn: %v", bag.Items())
	}
	checkSSA(t, fn, info)
}

func TestConvert_UndefUse(t *testing.T) {
	fn, _, bag := convert(t, `{"functions":[{"name":"main","instrs":[
		{"op":"print","args":["ghost"]},
		{"op":"ret"}]}]}`)

	use := fn.Blocks[0].Instrs[0]
	if got := use.Args(); got[0] != bril.UndefName {
		t.Errorf("undefined use: got %v, want %s", got, bril.UndefName)
	}
	if !bag.HasWarnings() {
		t.Error("undefined use must be reported")
	}
}

func TestConvert_PhiType(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want any
	}{
		{
			name: "inferred_from_def",
			src: `{"functions":[{"name":"main","instrs":[
				{"label":"a"},
				{"op":"const","dest":"f","value":true},
				{"op":"const","dest":"x","value":true,"type":"bool"},
				{"op":"br","args":["f"],"labels":["b","c"]},
				{"label":"b"},
				{"op":"const","dest":"x","value":false,"type":"bool"},
				{"op":"jmp","labels":["c"]},
				{"label":"c"},
				{"op":"print","args":["x"]},
				{"op":"ret"}]}]}`,
			want: "bool",
		},
		{
			name: "fallback_int",
			src: `{"functions":[{"name":"main","instrs":[
				{"label":"a"},
				{"op":"const","dest":"f","value":true},
				{"op":"const","dest":"x","value":1},
				{"op":"br","args":["f"],"labels":["b","c"]},
				{"label":"b"},
				{"op":"const","dest":"x","value":2},
				{"op":"jmp","labels":["c"]},
				{"label":"c"},
				{"op":"print","args":["x"]},
				{"op":"ret"}]}]}`,
			want: "int",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, _, _ := convert(t, tt.src)
			phi := findPhi(fn.Block("c"))
			if phi == nil {
				t.Fatal("join block needs a phi")
			}
			if got := phi.Type(); got != tt.want {
				t.Errorf("phi type: got %v, want %v", got, tt.want)
			}
		})
	}
}
