// Package metrics formats the static lowering report printed by
// `bfvm run --metrics`: how many tokens went in, how many IR ops came out,
// and the byte size of each representation.
package metrics

import (
	"fmt"
	"unsafe"

	"github.com/dustin/go-humanize"

	"bfvm/internal/ir"
)

// Lowering is a point-in-time measurement of one lowering pass: the
// original token count (one byte per token in the decoded source) against
// the resulting IR op count.
type Lowering struct {
	OriginalTokens int
	IROps          int
}

// Measure builds a Lowering report from a decoded token count and the
// resulting program.
func Measure(originalTokens int, prog *ir.Program) Lowering {
	return Lowering{OriginalTokens: originalTokens, IROps: len(prog.Code)}
}

// OriginalBytes is the size of the decoded token stream: one byte per token.
func (l Lowering) OriginalBytes() int { return l.OriginalTokens }

// IRBytes is the size of the emitted IR array.
func (l Lowering) IRBytes() int { return l.IROps * int(unsafe.Sizeof(ir.Instr{})) }

// String renders the single metrics line: original token count, IR op
// count, and the byte size of each.
func (l Lowering) String() string {
	return fmt.Sprintf("%s tokens (%s) -> %s IR ops (%s)",
		humanize.Comma(int64(l.OriginalTokens)), humanize.Bytes(uint64(l.OriginalBytes())),
		humanize.Comma(int64(l.IROps)), humanize.Bytes(uint64(l.IRBytes())),
	)
}
