package lower

import "bfvm/internal/ir"

const (
	flagRead     = 1
	flagModified = 2
	flagSet      = 4
)

// optimizeLoop inspects the loop opened at code[fwdIdx] and closed at
// code[rewIdx], rewriting it in place when it recognizes a multiply/clear
// idiom. code[fwdIdx+1:rewIdx] is the loop body.
//
// When the body is pure VAL deltas (the classic `[->+++<]` shape), the whole
// span fwdIdx..rewIdx is flattened into an equivalent straight-line sequence
// of the same length, padded with NOOP so outer jump arithmetic stays valid.
//
// When the body also carries VAL_MUL/VAL_MZ left behind by an already
// strength-reduced nested loop (`[>[-]<-]` and friends) alongside a
// VAL_ZERO, the loop can't be flattened away — an absolute set doesn't fold
// into a single per-iteration multiplier — so the FWD/REW frame is kept and
// only the body is strengthened in place: the first op touching a given
// target offset survives as MUL_MUL, later ones at the same offset collapse
// to NOOP.
//
// When the body isn't a shape this pass understands, the loop is left
// untouched and runs as an ordinary FWD/REW pair.
func optimizeLoop(code []ir.Instr, fwdIdx, rewIdx int) {
	fwd := code[fwdIdx]
	rew := code[rewIdx]
	body := code[fwdIdx+1 : rewIdx]

	ok, contrib, order, haszero := recognizeMultiplyLoop(body, int32(fwd.Off), int32(fwd.Buf))
	if !ok {
		return
	}

	if haszero {
		strengthenBody(body, int32(fwd.Off))
		return
	}

	span := rewIdx - fwdIdx + 1
	slots := make([]ir.Instr, span)
	for i := range order {
		slots[i] = ir.Instr{Cmd: ir.VAL_MUL, Val: contrib[order[i]], Buf: int16(order[i])}
	}
	for i := len(order); i < span; i++ {
		slots[i] = ir.Instr{Cmd: ir.NOOP}
	}

	if len(order) > 0 && rew.Buf == 0 {
		last := len(order) - 1
		slots[last].Cmd = ir.VAL_MZ
		slots[last].Off = rew.Off
		slots[span-1] = ir.Instr{Cmd: ir.NOOP}
	} else {
		slots[span-1] = ir.Instr{Cmd: ir.VAL_ZERO, Val: int32(rew.Buf), Off: rew.Off}
	}

	copy(code[fwdIdx:rewIdx+1], slots)
}

// recognizeMultiplyLoop walks body with a virtual cell pointer starting at
// fwdOff (the displacement FWD itself applies before the body runs) and
// decides whether every iteration has the same net effect: the counter
// cell (offset 0) decrements by exactly one, every other touched cell is
// incremented by a fixed multiple of the counter's initial value, and the
// pointer ends the iteration back where it started.
//
// VAL_MUL/VAL_MZ body ops — left behind by a nested loop that already
// collapsed — are recognized the same way a plain VAL is: source and target
// are both required non-variant, and the op is rejected if its source is
// the counter cell, since multiplying the very cell this loop counts down
// on would change the iteration count that the rewrite below assumes fixed.
//
// VAL_ZERO is recognized too, and marks haszero: an absolute set can't be
// folded into a per-iteration delta, so optimizeLoop must keep the loop
// frame rather than flatten it. A VAL_ZERO targeting the counter is
// rejected unless its increment is zero, for the same reason.
//
// contrib holds the per-iteration delta for each non-counter offset
// touched by a plain VAL or a VAL_MUL/VAL_MZ's multiply; order lists those
// offsets in first-touched order, for stable, slot-preserving emission.
// Both are meaningful only when haszero is false.
//
// An empty body with fwdOff == 0 is a special case: fwdBuf is the loop's
// entire per-iteration effect on one fixed cell, and since it has no way to
// ever change from one iteration to the next, the loop is always equivalent
// to either never running (already zero) or never terminating. This pass
// treats it as the former, matching the classic `[-]`/`[]` idioms rather
// than preserving a would-be infinite spin. An empty body whose FWD moves
// the pointer tests a different cell each pass, so it is rejected.
func recognizeMultiplyLoop(body []ir.Instr, fwdOff, fwdBuf int32) (bool, map[int32]int32, []int32, bool) {
	if len(body) == 0 {
		if fwdOff != 0 {
			return false, nil, nil, false
		}
		return true, map[int32]int32{}, nil, false
	}

	flags := map[int32]byte{}
	contrib := map[int32]int32{}
	var order []int32
	haszero := false
	counterDelta := fwdBuf
	sp := fwdOff

	touch := func(off, delta int32) bool {
		if flags[off]&7 > 2 {
			return false
		}
		if flags[off] == 0 {
			order = append(order, off)
		}
		flags[off] |= flagModified
		contrib[off] += delta
		return true
	}

	for _, in := range body {
		switch in.Cmd {
		case ir.NOOP:
			// no value effect

		case ir.VAL:
			if sp == 0 {
				counterDelta += in.Val
			} else if !touch(sp, in.Val) {
				return false, nil, nil, false
			}

		case ir.VAL_MUL, ir.VAL_MZ:
			if sp == 0 {
				return false, nil, nil, false
			}
			target := sp + int32(in.Buf)
			if target == 0 {
				return false, nil, nil, false
			}
			flags[sp] |= flagRead
			if !touch(target, in.Val) {
				return false, nil, nil, false
			}

		case ir.VAL_ZERO:
			if sp == 0 && in.Val != 0 {
				return false, nil, nil, false
			}
			if flags[sp]&7 > 2 {
				return false, nil, nil, false
			}
			flags[sp] |= flagSet
			haszero = true

		default:
			// PTR_S, nested FWD/REW, GET, PUT, MUL_MUL: none of these
			// have a fixed per-iteration delta this pass can fold.
			return false, nil, nil, false
		}
		sp += int32(in.Off)
	}

	if sp != 0 || counterDelta != -1 {
		return false, nil, nil, false
	}
	return true, contrib, order, haszero
}

// strengthenBody rewrites body in place once recognizeMultiplyLoop has
// confirmed it's a multiply shape with an unfoldable VAL_ZERO: the first
// VAL_MUL/VAL_MZ touching a given target offset is strength-reduced to
// MUL_MUL, and every later op touching that same offset collapses to NOOP
// since the first one already absorbed it. The loop frame (FWD/REW, body
// length) is left untouched — only individual body slots change, so outer
// jump arithmetic never needs recomputing.
func strengthenBody(body []ir.Instr, fwdOff int32) {
	strengthened := map[int32]bool{}
	sp := fwdOff

	for i := range body {
		in := &body[i]
		if in.Cmd == ir.VAL_MUL || in.Cmd == ir.VAL_MZ {
			target := sp + int32(in.Buf)
			if strengthened[target] {
				*in = ir.Instr{Cmd: ir.NOOP, Off: in.Off}
			} else {
				strengthened[target] = true
				in.Cmd = ir.MUL_MUL
			}
		}
		sp += int32(in.Off)
	}
}
