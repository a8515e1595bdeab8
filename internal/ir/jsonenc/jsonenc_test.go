package jsonenc

import (
	"testing"

	"bfvm/internal/ir"
)

func TestRoundTrip(t *testing.T) {
	prog := &ir.Program{Code: []ir.Instr{
		{Cmd: ir.VAL, Val: 5, Off: 1},
		{Cmd: ir.VAL_MZ, Val: 3, Buf: 2},
		{Cmd: ir.EOP},
	}}
	data, err := Marshal(prog)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Code) != len(prog.Code) {
		t.Fatalf("got %d instructions, want %d", len(got.Code), len(prog.Code))
	}
	for i := range prog.Code {
		if got.Code[i] != prog.Code[i] {
			t.Fatalf("instr %d: got %+v, want %+v", i, got.Code[i], prog.Code[i])
		}
	}
}
