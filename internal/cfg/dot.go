package cfg

import (
	"fmt"
	"io"
)

// WriteDot renders the graph in Graphviz DOT form: one boxed node per block,
// blue edges for successors and red edges for predecessors.
func WriteDot(w io.Writer, g *CFG) error {
	if _, err := fmt.Fprintf(w, "digraph %q {\n", g.Fn.Name); err != nil {
		return err
	}
	fmt.Fprintln(w, "node [shape=box, style=filled]")

	for _, bb := range g.Fn.Blocks {
		fmt.Fprintf(w, "%q\n", bb.Name)
	}
	for _, bb := range g.Fn.Blocks {
		for _, succ := range g.Succs(bb) {
			fmt.Fprintf(w, "%q -> %q [color=\"blue\"]\n", bb.Name, succ.Name)
		}
	}
	for _, bb := range g.Fn.Blocks {
		for _, pred := range g.Preds(bb) {
			fmt.Fprintf(w, "%q -> %q [color=\"red\"]\n", bb.Name, pred.Name)
		}
	}

	_, err := fmt.Fprintln(w, "}")
	return err
}
