package bril

// UndefName is the sentinel substituted for a use with no visible definition.
const UndefName = "__undef"

// Instr is one Bril instruction or label marker. It wraps the decoded JSON
// object so unknown fields survive a round-trip; accessors read and mutate
// the map in place. Parent is the owning block.
type Instr struct {
	Fields map[string]any
	Parent *Block
}

// NewInstr wraps a decoded JSON object.
func NewInstr(fields map[string]any, parent *Block) *Instr {
	return &Instr{Fields: fields, Parent: parent}
}

func (i *Instr) HasOp() bool {
	_, ok := i.Fields["op"]
	return ok
}

// Op returns the opcode, or "" for a bare label.
func (i *Instr) Op() string {
	return stringField(i.Fields, "op")
}

// IsLabel reports whether this record is a label marker rather than a real
// instruction.
func (i *Instr) IsLabel() bool {
	_, ok := i.Fields["label"]
	return ok
}

func (i *Instr) Label() string {
	return stringField(i.Fields, "label")
}

// IsTerminator reports whether the instruction ends a basic block.
func (i *Instr) IsTerminator() bool {
	switch i.Op() {
	case "jmp", "br", "ret":
		return true
	}
	return false
}

func (i *Instr) HasDest() bool {
	_, ok := i.Fields["dest"]
	return ok
}

func (i *Instr) Dest() string {
	return stringField(i.Fields, "dest")
}

func (i *Instr) SetDest(dest string) {
	i.Fields["dest"] = dest
}

func (i *Instr) HasArgs() bool {
	_, ok := i.Fields["args"]
	return ok
}

// Args returns the argument names. The slice is freshly allocated; use
// SetArgs to write back.
func (i *Instr) Args() []string {
	return stringsField(i.Fields, "args")
}

func (i *Instr) SetArgs(args []string) {
	i.Fields["args"] = args
}

// Labels returns the branch targets of a jmp or br.
func (i *Instr) Labels() []string {
	return stringsField(i.Fields, "labels")
}

// Type returns the raw type annotation, or nil if the instruction has none.
func (i *Instr) Type() any {
	return i.Fields["type"]
}

func (i *Instr) SetOp(op string) {
	i.Fields["op"] = op
}

func stringField(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

// stringsField tolerates both the decoder's []any and the []string written
// back by SetArgs.
func stringsField(fields map[string]any, key string) []string {
	switch v := fields[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
