package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"bfvm/internal/lower"
	"bfvm/internal/vm"
)

// Bench runs a program to completion N times (default 10) and reports
// instruction throughput. Output is discarded; once any `!` input buffer is
// drained, input always reads EOF.
func Bench(args []string) int {
	var file string
	iters := 10
	for _, a := range args {
		if strings.HasPrefix(a, "--iters=") {
			n, err := strconv.Atoi(strings.TrimPrefix(a, "--iters="))
			if err != nil {
				fmt.Fprintln(os.Stderr, "bfvm bench: --iters:", err)
				return -1
			}
			iters = n
			continue
		}
		file = a
	}
	if file == "" {
		fmt.Fprintln(os.Stderr, "usage: bfvm bench <file> [--iters=N]")
		return -1
	}

	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bfvm bench:", err)
		return -1
	}
	prog, input, err := lower.Lower(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bfvm bench:", err)
		return -1
	}

	cfg := vm.DefaultConfig()
	started := time.Now()
	var total uint64
	for i := 0; i < iters; i++ {
		machine := vm.New(prog, cfg, input, func(byte) {}, func() (byte, bool) { return 0, false })
		for {
			pc, _, err := machine.Run(1 << 24)
			total += 1 << 24
			if err != nil {
				fmt.Fprintln(os.Stderr, "bfvm bench:", err)
				return -1
			}
			if pc == -1 {
				break
			}
		}
	}
	elapsed := time.Since(started)
	fmt.Printf("%d runs in %s (%.0f instructions/sec upper bound)\n", iters, elapsed, float64(total)/elapsed.Seconds())
	return 0
}
