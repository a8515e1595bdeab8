package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"bfvm/internal/ir"
	"bfvm/internal/lower"
	"bfvm/internal/vm"
)

// Repl runs an interactive loop over one persistent tape: each line is
// lowered and executed on its own, but the VM's tape and pointer carry over
// between lines — only the front end (program, pc) resets; the backend
// (tape, sp) persists.
func Repl(args []string) int {
	interactive := isatty.IsTerminal(os.Stdin.Fd())
	if interactive {
		fmt.Println("bfvm repl — one persistent tape, Ctrl-D to exit")
	}

	empty := &ir.Program{Code: []ir.Instr{{Cmd: ir.EOP}}}
	putByte := func(b byte) { os.Stdout.Write([]byte{b}) }
	getByte := func() (byte, bool) { return 0, false }
	machine := vm.New(empty, vm.DefaultConfig(), nil, putByte, getByte)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Print("> ")
		}
		if !scanner.Scan() {
			if interactive {
				fmt.Println()
			}
			return 0
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		prog, input, err := lower.Lower([]byte(line))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		machine.Prog = prog
		machine.PC = 0
		if len(input) > 0 {
			idx := 0
			getByte = func() (byte, bool) {
				if idx >= len(input) {
					return 0, false
				}
				b := input[idx]
				idx++
				return b, true
			}
			machine.GetByte = getByte
		}

		for {
			pc, _, runErr := machine.Run(1 << 20)
			if runErr != nil {
				fmt.Fprintln(os.Stderr, runErr)
				break
			}
			if pc == -1 {
				break
			}
		}
		if interactive {
			fmt.Printf("\n[sp=%d tape[sp]=%d]\n", machine.SP, machine.Tape[machine.SP])
		}
	}
}
