package bril

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrMissingFunctions marks a program document without a "functions" array.
var ErrMissingFunctions = errors.New(`program has no "functions" array`)

// ReadProgram decodes a Bril program document and returns its raw function
// objects in source order. Numbers are kept as json.Number so literals
// round-trip unchanged.
func ReadProgram(r io.Reader) ([]map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode program: %w", err)
	}
	raw, ok := doc["functions"].([]any)
	if !ok {
		return nil, ErrMissingFunctions
	}

	out := make([]map[string]any, 0, len(raw))
	for i, fn := range raw {
		obj, ok := fn.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("functions[%d] is not an object", i)
		}
		out = append(out, obj)
	}
	return out, nil
}

// WriteFunction emits one {"functions":[f]} document on a single line.
func WriteFunction(w io.Writer, f *Function) error {
	doc := map[string]any{"functions": []any{f.ToJSON()}}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode function %s: %w", f.Name, err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
