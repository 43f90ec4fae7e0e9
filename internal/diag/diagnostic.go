package diag

import "fmt"

// Pos names a place in the IR. Block and Instr are optional: a whole-program
// diagnostic leaves Function empty, a function-level one leaves Block empty,
// and Instr is meaningful only with a Block.
type Pos struct {
	Function string
	Block    string
	Instr    int
}

func (p Pos) String() string {
	switch {
	case p.Function == "":
		return "<program>"
	case p.Block == "":
		return p.Function
	default:
		return fmt.Sprintf("%s/%s/%d", p.Function, p.Block, p.Instr)
	}
}

type Note struct {
	Pos Pos
	Msg string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  Pos
	Notes    []Note
}

// WithNote returns a copy of the diagnostic with an extra note attached.
func (d Diagnostic) WithNote(pos Pos, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Pos: pos, Msg: msg})
	return d
}
