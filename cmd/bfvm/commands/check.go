package commands

import (
	"fmt"
	"os"

	"bfvm/internal/ir/text"
	"bfvm/internal/lower"
)

// Check lowers a program and prints its IR without executing it, for
// inspecting what the optimizer did to a given source file.
func Check(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: bfvm check <file>")
		return -1
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, "bfvm check:", err)
		return -1
	}
	prog, _, err := lower.Lower(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bfvm check:", err)
		return -1
	}
	text.Write(os.Stdout, prog)
	return 0
}
