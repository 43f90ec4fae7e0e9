package diag_test

import (
	"testing"

	"github.com/junaire/brandy/internal/diag"
)

func TestBag_Limit(t *testing.T) {
	bag := diag.NewBag(2)
	for i := 0; i < 3; i++ {
		bag.Add(diag.Diagnostic{Code: diag.IRBadInstr, Severity: diag.SevError})
	}
	if bag.Len() != 2 {
		t.Errorf("got %d diagnostics, want 2", bag.Len())
	}
}

func TestBag_SortAndDedup(t *testing.T) {
	bag := diag.NewBag(8)
	posB := diag.Pos{Function: "f", Block: "b", Instr: 0}
	posA := diag.Pos{Function: "f", Block: "a", Instr: 1}

	bag.Add(diag.Diagnostic{Code: diag.AnRenameUndef, Severity: diag.SevWarning, Primary: posB})
	bag.Add(diag.Diagnostic{Code: diag.IRBadInstr, Severity: diag.SevError, Primary: posA})
	bag.Add(diag.Diagnostic{Code: diag.AnRenameUndef, Severity: diag.SevWarning, Primary: posB})

	bag.Sort()
	bag.Dedup()

	items := bag.Items()
	if len(items) != 2 {
		t.Fatalf("got %d diagnostics after dedup, want 2", len(items))
	}
	if items[0].Primary.Block != "a" {
		t.Errorf("sort order wrong: first is %v", items[0].Primary)
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Error("severity queries wrong")
	}
}

func TestCode_String(t *testing.T) {
	if got := diag.IRBadInstr.String(); got != "BRD1002" {
		t.Errorf("got %q", got)
	}
}

func TestPos_String(t *testing.T) {
	tests := []struct {
		pos  diag.Pos
		want string
	}{
		{diag.Pos{}, "<program>"},
		{diag.Pos{Function: "main"}, "main"},
		{diag.Pos{Function: "main", Block: "b", Instr: 3}, "main/b/3"},
	}
	for _, tt := range tests {
		if got := tt.pos.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}
