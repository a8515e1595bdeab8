// Package jsonenc serializes an ir.Program to and from JSON, for the
// `bfvm run --json` flag and for golden-file comparisons in tests.
package jsonenc

import (
	"encoding/json"
	"io"

	"bfvm/internal/ir"
)

// instr mirrors ir.Instr with exported, stable field names independent of
// the in-memory struct's layout, and Cmd rendered as its string name so
// the format stays readable (and stable) across opcode renumbering.
type instr struct {
	Cmd string `json:"cmd"`
	Val int32  `json:"val"`
	Off int16  `json:"off"`
	Buf int16  `json:"buf"`
}

var byName = func() map[string]ir.OpCode {
	m := make(map[string]ir.OpCode)
	for op := ir.NOOP; op <= ir.EOP; op++ {
		m[op.String()] = op
	}
	return m
}()

// Marshal encodes prog as a JSON array of instructions.
func Marshal(prog *ir.Program) ([]byte, error) {
	out := make([]instr, len(prog.Code))
	for i, in := range prog.Code {
		out[i] = instr{Cmd: in.Cmd.String(), Val: in.Val, Off: in.Off, Buf: in.Buf}
	}
	return json.Marshal(out)
}

// Encode writes prog to w as JSON.
func Encode(w io.Writer, prog *ir.Program) error {
	out := make([]instr, len(prog.Code))
	for i, in := range prog.Code {
		out[i] = instr{Cmd: in.Cmd.String(), Val: in.Val, Off: in.Off, Buf: in.Buf}
	}
	return json.NewEncoder(w).Encode(out)
}

// Unmarshal decodes a JSON array of instructions produced by Marshal.
func Unmarshal(data []byte) (*ir.Program, error) {
	var in []instr
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	code := make([]ir.Instr, len(in))
	for i, e := range in {
		op, ok := byName[e.Cmd]
		if !ok {
			op = ir.NOOP
		}
		code[i] = ir.Instr{Cmd: op, Val: e.Val, Off: e.Off, Buf: e.Buf}
	}
	return &ir.Program{Code: code}, nil
}
