package bril

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Dump writes a human-readable listing of the function: header with argument
// names, then each block's name and instructions as compact JSON.
func Dump(w io.Writer, f *Function) error {
	if w == nil || f == nil {
		return nil
	}
	header := f.Name
	if len(f.Args) > 0 {
		header += " (" + strings.Join(f.Args, " ") + ")"
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	for _, bb := range f.Blocks {
		fmt.Fprintf(w, ".%s:\n", bb.Name)
		for _, in := range bb.Instrs {
			data, err := json.Marshal(in.Fields)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "  %s\n", data)
		}
	}
	return nil
}
