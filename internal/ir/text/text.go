// Package text renders an ir.Program as a human-readable instruction
// listing, one line per slot, for the `bfvm run --ir` and `bfvm check`
// commands.
package text

import (
	"fmt"
	"io"

	"bfvm/internal/ir"
)

// Write prints prog to w, one instruction per line, annotating FWD/REW
// pairs with their resolved jump target so a reader doesn't have to do the
// index arithmetic by hand.
func Write(w io.Writer, prog *ir.Program) error {
	for i, in := range prog.Code {
		line := fmt.Sprintf("%4d  %-8s val=%-6d off=%-4d buf=%-4d", i, in.Cmd, in.Val, in.Off, in.Buf)
		if in.Cmd == ir.FWD || in.Cmd == ir.REW {
			line += fmt.Sprintf("  -> %d", i+int(in.Val))
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
