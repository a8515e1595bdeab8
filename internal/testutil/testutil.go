// Package testutil holds small comparison helpers shared across the
// module's test files: tape diffing and IR equality.
package testutil

import (
	"fmt"

	"bfvm/internal/ir"
)

// DiffTape returns a description of the first index where got and want
// differ, or "" if they're equal over want's length.
func DiffTape(got, want []int32) string {
	for i, w := range want {
		if i >= len(got) {
			return fmt.Sprintf("tape too short: got %d cells, want at least %d", len(got), len(want))
		}
		if got[i] != w {
			return fmt.Sprintf("tape[%d]: got %d, want %d", i, got[i], w)
		}
	}
	return ""
}

// EqualIR reports whether two programs are instruction-for-instruction
// identical.
func EqualIR(a, b *ir.Program) bool {
	if len(a.Code) != len(b.Code) {
		return false
	}
	for i := range a.Code {
		if a.Code[i] != b.Code[i] {
			return false
		}
	}
	return true
}
