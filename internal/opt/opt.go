// Package opt holds the SSA-friendly rewrites: dominance-aware
// common-subexpression elimination, intra-block copy propagation and dead
// instruction elimination.
package opt

import (
	"github.com/junaire/brandy/internal/bril"
)

// sideEffecting lists opcodes whose instructions must survive even when
// their destination is never read.
var sideEffecting = map[string]bool{
	"print": true,
	"call":  true,
	"store": true,
	"free":  true,
	"alloc": true,
}

// Options toggles individual passes off; the zero value runs everything.
type Options struct {
	NoCSE      bool
	NoCopyProp bool
	NoDIE      bool
}

// Optimize runs the cleanup pipeline in order: CSE introduces id copies,
// CopyProp collapses the chains, DIE sweeps what is left unread.
func Optimize(fn *bril.Function, opts Options) error {
	if !opts.NoCSE {
		if err := CSE(fn); err != nil {
			return err
		}
	}
	if !opts.NoCopyProp {
		CopyProp(fn)
	}
	if !opts.NoDIE {
		DIE(fn)
	}
	return nil
}
