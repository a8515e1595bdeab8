// Command bfvm is the optimizing BF interpreter's CLI: run, check, test,
// bench and repl, dispatched by hand off os.Args, with a top-level
// recover() turning any panic into a clean exit code instead of a stack
// trace on a user's terminal.
package main

import (
	"fmt"
	"os"

	"bfvm/cmd/bfvm/commands"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "bfvm: internal error: %v\n", r)
			code = -1
		}
	}()

	if len(args) == 0 {
		showUsage()
		return -1
	}

	switch args[0] {
	case "run":
		return commands.Run(args[1:])
	case "check":
		return commands.Check(args[1:])
	case "test":
		return commands.Test(args[1:])
	case "bench":
		return commands.Bench(args[1:])
	case "repl":
		return commands.Repl(args[1:])
	case "-h", "--help", "help":
		showUsage()
		return 0
	case "-v", "--version", "version":
		fmt.Println("bfvm", version)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "bfvm: unknown command %q\n\n", args[0])
		showUsage()
		return -1
	}
}

func showUsage() {
	fmt.Fprint(os.Stderr, `bfvm — an optimizing BF interpreter

Usage:
  bfvm run <file> [--ir] [--json] [--metrics] [--dsn=<dsn>] [--watch=<addr>]
  bfvm check <file>
  bfvm test <dir>
  bfvm bench <file> [--iters=N]
  bfvm repl
  bfvm help
  bfvm version

run     lowers and executes a program, optionally streaming state over a
        websocket (--watch) and logging the run to SQL (--dsn).
check   lowers a program and prints its IR without running it.
test    runs every .bf/.expected pair found under dir.
bench   repeats a program's run N times and reports instruction throughput.
repl    an interactive read-eval-print loop over a persistent tape.
`)
}
