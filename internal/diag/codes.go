package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Malformed IR: user-visible, aborts the offending function.
	IRInfo             Code = 1000
	IRMissingFunctions Code = 1001
	IRBadInstr         Code = 1002
	IRDuplicateBlock   Code = 1003
	IREmptyBlock       Code = 1004
	IRUnknownTarget    Code = 1005
	IRNoTerminatorOp   Code = 1006

	// Analysis invariants: a bug in the pipeline. Reported as errors they
	// halt the run; AnRenameUndef and post-build validation findings are
	// warnings and the run continues.
	AnInfo            Code = 2000
	AnIdomResidual    Code = 2001
	AnMissingPred     Code = 2002
	AnRenameUndef     Code = 2003
	AnBrokenInvariant Code = 2004

	// IO and usage.
	IOInfo       Code = 3000
	IOBadInput   Code = 3001
	IOBadUsage   Code = 3002
	IOWriteError Code = 3003
)

func (c Code) String() string {
	return fmt.Sprintf("BRD%04d", uint16(c))
}
