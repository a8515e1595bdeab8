// Package vm executes a lowered ir.Program against a bounded tape, in
// caller-controlled instruction slices so a long-running program can be
// paused, inspected, and resumed.
package vm

import (
	"bfvm/internal/bferr"
	"bfvm/internal/ir"
)

// Width is a cell's bit width.
type Width int

const (
	Width8  Width = 8
	Width16 Width = 16
	Width32 Width = 32
)

// Config bounds a VM's tape and cell arithmetic.
type Config struct {
	TapeSize int
	Width    Width
	Signed   bool
}

// DefaultConfig matches the classic BF machine: 65536 unsigned byte cells.
func DefaultConfig() Config {
	return Config{TapeSize: 65536, Width: Width8, Signed: false}
}

// VM holds one program's execution state. PutByte and GetByte are the only
// I/O surface; GetByte's bool return is never consulted by the VM itself
// (whatever byte it returns is stored verbatim) but lets a caller track its
// own end-of-input bookkeeping.
type VM struct {
	Prog *ir.Program
	Tape []int32
	SP   int
	PC   int
	// Steps counts instructions actually dispatched across every Run call,
	// for callers that want a true executed-instruction count rather than
	// the budget ceiling passed to Run.
	Steps uint64
	cfg   Config
	input []byte
	inPos int

	PutByte func(b byte)
	GetByte func() (byte, bool)
}

// New builds a VM ready to run prog from pc=0, sp=0. input pre-seeds bytes
// consumed by GET before GetByte is ever called.
func New(prog *ir.Program, cfg Config, input []byte, putByte func(byte), getByte func() (byte, bool)) *VM {
	return &VM{
		Prog:    prog,
		Tape:    make([]int32, cfg.TapeSize),
		SP:      0,
		PC:      0,
		cfg:     cfg,
		input:   input,
		PutByte: putByte,
		GetByte: getByte,
	}
}

func (vm *VM) mask(v int32) int32 {
	switch vm.cfg.Width {
	case Width8:
		v &= 0xFF
		if vm.cfg.Signed && v&0x80 != 0 {
			v -= 0x100
		}
	case Width16:
		v &= 0xFFFF
		if vm.cfg.Signed && v&0x8000 != 0 {
			v -= 0x10000
		}
	}
	return v
}

func (vm *VM) nextByte() byte {
	if vm.inPos < len(vm.input) {
		b := vm.input[vm.inPos]
		vm.inPos++
		return b
	}
	b, _ := vm.GetByte()
	return b
}

func (vm *VM) inBounds(sp int) bool {
	return sp >= 0 && sp < len(vm.Tape)
}

// Run dispatches at most budget instructions starting from the VM's
// current pc/sp, in strict (primary effect, pointer delta, bounds check)
// order per instruction. It returns the pc/sp to resume from: pc == -1
// means the program halted (hit EOP). A MemoryException leaves pc/sp
// positioned at the faulting instruction.
func (vm *VM) Run(budget int) (int, int, error) {
	pc := vm.PC
	sp := vm.SP
	code := vm.Prog.Code

	for steps := 0; steps < budget; steps++ {
		in := code[pc]
		at := pc
		vm.Steps++

		switch in.Cmd {
		case ir.EOP:
			vm.PutByte('\n')
			vm.PC, vm.SP = -1, sp
			return -1, sp, nil

		case ir.NOOP:
			sp += int(in.Off)
			pc++

		case ir.VAL:
			vm.Tape[sp] = vm.mask(vm.Tape[sp] + in.Val)
			sp += int(in.Off)
			pc++

		case ir.PUT:
			vm.PutByte(byte(vm.Tape[sp]))
			sp += int(in.Off)
			pc++

		case ir.GET:
			vm.Tape[sp] = vm.mask(int32(vm.nextByte()))
			sp += int(in.Off)
			pc++

		case ir.FWD:
			if vm.Tape[sp] == 0 {
				pc += int(in.Val)
			} else {
				vm.Tape[sp] = vm.mask(vm.Tape[sp] + int32(in.Buf))
				sp += int(in.Off)
				pc++
			}

		case ir.REW:
			if vm.Tape[sp] != 0 {
				pc += int(in.Val)
			} else {
				vm.Tape[sp] = vm.mask(vm.Tape[sp] + int32(in.Buf))
				sp += int(in.Off)
				pc++
			}

		case ir.PTR_S:
			stride := int(in.Val)
			for vm.Tape[sp] != 0 {
				sp += stride
				if !vm.inBounds(sp) {
					vm.PC, vm.SP = pc, sp
					return pc, sp, bferr.NewMemoryException("pointer out of range during scan", pc, sp)
				}
			}
			sp += int(in.Off)
			pc++

		case ir.VAL_MUL, ir.VAL_MZ:
			target := sp + int(in.Buf)
			if !vm.inBounds(target) {
				vm.PC, vm.SP = pc, sp
				return pc, sp, bferr.NewMemoryException("multiply target out of range", pc, sp)
			}
			vm.Tape[target] = vm.mask(vm.Tape[target] + in.Val*vm.Tape[sp])
			if in.Cmd == ir.VAL_MZ {
				vm.Tape[sp] = 0
			}
			sp += int(in.Off)
			pc++

		case ir.VAL_ZERO:
			vm.Tape[sp] = vm.mask(in.Val)
			sp += int(in.Off)
			pc++

		case ir.MUL_MUL:
			target := sp + int(in.Buf)
			if !vm.inBounds(target) {
				vm.PC, vm.SP = pc, sp
				return pc, sp, bferr.NewMemoryException("multiply target out of range", pc, sp)
			}
			vm.Tape[target] = vm.mask(vm.Tape[target] * (in.Val * vm.Tape[sp]))
			sp += int(in.Off)
			pc++
		}

		if !vm.inBounds(sp) {
			vm.PC, vm.SP = at, sp
			return at, sp, bferr.NewMemoryException("pointer out of range", at, sp)
		}
	}

	vm.PC, vm.SP = pc, sp
	return pc, sp, nil
}

// Halted reports whether the VM has already executed EOP.
func (vm *VM) Halted() bool {
	return vm.PC == -1
}
