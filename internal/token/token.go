// Package token decodes raw BF source bytes into a clean instruction stream,
// stripping comments and any byte that is not one of the eight BF tokens.
package token

// Set is the closed set of significant BF bytes, in no particular order.
const Set = "><+-.,[]"

func isToken(b byte) bool {
	switch b {
	case '>', '<', '+', '-', '.', ',', '[', ']':
		return true
	default:
		return false
	}
}

// Decode strips comments (`%` or `;` to end of line) and any non-BF byte
// from src, returning the clean token stream. A single `!` byte ends
// program text; everything after it is returned as the pre-supplied input
// buffer, untouched. Decode never fails: unrecognized bytes are silently
// discarded.
func Decode(src []byte) (program []byte, input []byte) {
	program = make([]byte, 0, len(src))
	for i := 0; i < len(src); i++ {
		b := src[i]
		switch {
		case b == '!':
			return program, src[i+1:]
		case b == '%' || b == ';':
			for i < len(src) && src[i] != '\n' && src[i] != '\r' {
				i++
			}
		case isToken(b):
			program = append(program, b)
		default:
			// silently ignored
		}
	}
	return program, nil
}
