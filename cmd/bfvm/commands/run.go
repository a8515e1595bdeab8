// Package commands implements each bfvm subcommand.
package commands

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"bfvm/internal/config"
	"bfvm/internal/ir/jsonenc"
	"bfvm/internal/ir/text"
	"bfvm/internal/liveview"
	"bfvm/internal/lower"
	"bfvm/internal/metrics"
	"bfvm/internal/runlog"
	"bfvm/internal/vm"
)

type runFlags struct {
	file      string
	showIR    bool
	showJSON  bool
	showStats bool
	dsn       string
	watchAddr string
	budget    int
}

func parseRunFlags(args []string) (runFlags, error) {
	f := runFlags{budget: 1 << 20}
	for _, a := range args {
		switch {
		case a == "--ir":
			f.showIR = true
		case a == "--json":
			f.showJSON = true
		case a == "--metrics":
			f.showStats = true
		case strings.HasPrefix(a, "--dsn="):
			f.dsn = strings.TrimPrefix(a, "--dsn=")
		case strings.HasPrefix(a, "--watch="):
			f.watchAddr = strings.TrimPrefix(a, "--watch=")
		case strings.HasPrefix(a, "--budget="):
			n, err := strconv.Atoi(strings.TrimPrefix(a, "--budget="))
			if err != nil {
				return f, fmt.Errorf("--budget: %w", err)
			}
			f.budget = n
		case strings.HasPrefix(a, "-") && a != "-":
			return f, fmt.Errorf("unknown flag %q", a)
		default:
			f.file = a
		}
	}
	return f, nil
}

// Run lowers and executes the named program. With no file argument (or
// "-"), the program is read from stdin.
func Run(args []string) int {
	f, err := parseRunFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bfvm run:", err)
		return -1
	}

	var src []byte
	if f.file == "" || f.file == "-" {
		src, err = io.ReadAll(os.Stdin)
	} else {
		src, err = os.ReadFile(f.file)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "bfvm run:", err)
		return -1
	}

	prog, input, err := lower.Lower(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bfvm run:", err)
		return -1
	}

	if f.showIR {
		text.Write(os.Stdout, prog)
	}
	if f.showJSON {
		jsonenc.Encode(os.Stdout, prog)
	}
	if f.showStats {
		report := metrics.Measure(lower.TokenCount(src), prog)
		fmt.Fprintln(os.Stderr, report.String())
	}

	var watcher *liveview.Server
	if f.watchAddr != "" {
		watcher = liveview.NewServer()
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", watcher.Handler)
		go http.ListenAndServe(f.watchAddr, mux)
		fmt.Fprintf(os.Stderr, "bfvm run: streaming state on ws://%s/ws\n", f.watchAddr)
	}

	cfg := config.Default()
	started := time.Now()

	machine := vm.New(prog, cfg.VMConfig(), input,
		func(b byte) { os.Stdout.Write([]byte{b}) },
		func() (byte, bool) {
			buf := make([]byte, 1)
			n, _ := os.Stdin.Read(buf)
			return buf[0], n == 1
		},
	)

	var runErr error
	for {
		pc, _, stepErr := machine.Run(f.budget)
		if watcher != nil {
			watcher.Broadcast(liveview.Frame{PC: pc, SP: machine.SP, Halted: pc == -1, Tape: machine.Tape})
		}
		if stepErr != nil {
			runErr = stepErr
			break
		}
		if pc == -1 {
			break
		}
	}

	if f.dsn != "" {
		name := f.file
		if name == "" {
			name = "-"
		}
		if store, err := runlog.Open("", f.dsn); err == nil {
			store.Insert(name, started, machine.Steps, runErr)
			store.Close()
		} else {
			fmt.Fprintln(os.Stderr, "bfvm run: runlog:", err)
		}
	}

	if runErr != nil {
		fmt.Fprintln(os.Stderr, "bfvm run:", runErr)
		return -1
	}
	return 0
}
