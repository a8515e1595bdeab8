package lower

import (
	"bytes"
	"testing"

	"bfvm/internal/token"
	"bfvm/internal/vm"
)

// naiveRun is a byte-at-a-time reference interpreter over a raw decoded
// token stream, bypassing the IR and every peephole rewrite entirely. It
// exists only to cross-check the optimizing pipeline's output; nothing
// outside this test uses it.
func naiveRun(t *testing.T, program, input []byte) []byte {
	t.Helper()
	const tapeSize = 65536
	tape := make([]byte, tapeSize)
	sp := 0
	inPos := 0
	var out bytes.Buffer

	// precompute matching bracket targets, same closed-form a real
	// implementation would use, just without any of the fusion/strength
	// reduction this package performs on top.
	match := make([]int, len(program))
	var stack []int
	for i, b := range program {
		switch b {
		case '[':
			stack = append(stack, i)
		case ']':
			if len(stack) == 0 {
				t.Fatalf("naiveRun: unmatched ']' at %d", i)
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			match[open] = i
			match[i] = open
		}
	}
	if len(stack) != 0 {
		t.Fatalf("naiveRun: unmatched '[' at %d", stack[len(stack)-1])
	}

	pc := 0
	for pc < len(program) {
		switch program[pc] {
		case '>':
			sp++
			if sp >= tapeSize {
				t.Fatalf("naiveRun: pointer out of range at pc=%d", pc)
			}
		case '<':
			sp--
			if sp < 0 {
				t.Fatalf("naiveRun: pointer out of range at pc=%d", pc)
			}
		case '+':
			tape[sp]++
		case '-':
			tape[sp]--
		case '.':
			out.WriteByte(tape[sp])
		case ',':
			if inPos < len(input) {
				tape[sp] = input[inPos]
				inPos++
			} else {
				tape[sp] = 0
			}
		case '[':
			if tape[sp] == 0 {
				pc = match[pc]
			}
		case ']':
			if tape[sp] != 0 {
				pc = match[pc]
			}
		}
		pc++
	}
	out.WriteByte('\n')
	return out.Bytes()
}

// optimizedRun lowers src and runs it to completion, feeding GET from the
// `!`-declared pre-buffer when src has one and from fallbackInput otherwise.
func optimizedRun(t *testing.T, src, fallbackInput []byte) []byte {
	t.Helper()
	prog, declared, err := Lower(src)
	if err != nil {
		t.Fatal(err)
	}
	in := fallbackInput
	if len(declared) > 0 {
		in = declared
	}
	idx := 0
	getByte := func() (byte, bool) {
		if idx >= len(in) {
			return 0, false
		}
		b := in[idx]
		idx++
		return b, true
	}
	var out []byte
	machine := vm.New(prog, vm.DefaultConfig(), nil, func(b byte) { out = append(out, b) }, getByte)
	for {
		pc, _, runErr := machine.Run(1 << 20)
		if runErr != nil {
			t.Fatal(runErr)
		}
		if pc == -1 {
			break
		}
	}
	return out
}

// TestSemanticEquivalence runs a table of BF programs, each well within the
// 4 KiB source / 1 KiB input bound, through both the optimizing pipeline
// and naiveRun, and requires byte-identical output.
func TestSemanticEquivalence(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		input string
	}{
		{"empty", "", ""},
		{"literal output", "+++++++++++++++++++++++++++++++++++++++++++++++++.", ""},
		{"multiply loop", "++++++++[>++++++++<-]>+.", ""},
		{"nested multiply loop", "+++[>[-]>[->+<]<<-].", ""},
		{"scan idiom", "+>+>+>[-]<<<[>]>.", ""},
		{"echo input", ",[.,]", "hello"},
		{"wraparound", "-.", ""},
		{"copy to two cells", "++[>+>+<<-]>>.<.", ""},
		{"comment and bang noise", "++. ; trailing comment\n!ignored", ""},
		{"decrement past zero twice", "--.", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			program, declared := token.Decode([]byte(tc.src))
			fallback := []byte(tc.input)
			effective := fallback
			if len(declared) > 0 {
				effective = declared
			}

			want := naiveRun(t, program, effective)
			got := optimizedRun(t, []byte(tc.src), fallback)

			if !bytes.Equal(got, want) {
				t.Fatalf("%s: optimized %q != naive reference %q", tc.name, got, want)
			}
		})
	}
}
