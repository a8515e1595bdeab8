package lower

// runLimit is the largest absolute value a single fused run may carry. Past
// this the emitter stops folding and leaves the remainder for the next
// instruction; a real program almost never hits it but pathological input
// like a million '+' or '>' in a row must not overflow the int16 Buf and
// Off fields that runs are also folded into.
const runLimit = 126

// foldRun accumulates a signed run of the two given token bytes starting at
// pos, seeded with start (already-consumed amount). It stops at the first
// byte that is neither pos/neg, or when folding one more would push the
// running total's absolute value past runLimit.
func foldRun(src []byte, pos int, posByte, negByte byte, start int32) (int, int32) {
	total := start
	for pos < len(src) {
		var d int32
		switch src[pos] {
		case posByte:
			d = 1
		case negByte:
			d = -1
		default:
			return pos, total
		}
		next := total + d
		if abs32(next) > runLimit {
			return pos, total
		}
		total = next
		pos++
	}
	return pos, total
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
