// Package diag carries the pipeline's diagnostics: coded, severity-ranked
// findings anchored to an IR position (function, block, instruction index)
// rather than to source text, since the input is a JSON instruction stream.
package diag
