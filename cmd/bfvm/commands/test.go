package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bfvm/internal/lower"
	"bfvm/internal/vm"
)

// Test runs every <name>.bf in dir against its sibling <name>.expected,
// collecting every result and reporting a pass/fail tally rather than
// stopping at the first failure.
func Test(args []string) int {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.bf"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "bfvm test:", err)
		return -1
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stderr, "bfvm test: no .bf files found in", dir)
		return -1
	}

	passed, failed := 0, 0
	for _, path := range matches {
		name := strings.TrimSuffix(filepath.Base(path), ".bf")
		ok, detail := runCase(path)
		if ok {
			passed++
			fmt.Printf("PASS  %s\n", name)
		} else {
			failed++
			fmt.Printf("FAIL  %s: %s\n", name, detail)
		}
	}

	fmt.Printf("\n%d passed, %d failed\n", passed, failed)
	if failed > 0 {
		return -1
	}
	return 0
}

func runCase(path string) (bool, string) {
	src, err := os.ReadFile(path)
	if err != nil {
		return false, err.Error()
	}
	expectedPath := strings.TrimSuffix(path, ".bf") + ".expected"
	want, err := os.ReadFile(expectedPath)
	if err != nil {
		return false, "no .expected file: " + err.Error()
	}

	prog, input, err := lower.Lower(src)
	if err != nil {
		return false, err.Error()
	}

	// input is the caller-supplied pre-buffer the VM itself drains before
	// ever calling GetByte; once exhausted there is no further source of
	// input for a test fixture, so GetByte only ever reports EOF.
	var out bytes.Buffer
	machine := vm.New(prog, vm.DefaultConfig(), input, func(b byte) { out.WriteByte(b) }, func() (byte, bool) {
		return 0, false
	})
	for {
		pc, _, err := machine.Run(1 << 24)
		if err != nil {
			return false, err.Error()
		}
		if pc == -1 {
			break
		}
	}

	if !bytes.Equal(out.Bytes(), want) {
		return false, fmt.Sprintf("got %q, want %q", out.String(), string(want))
	}
	return true, ""
}
