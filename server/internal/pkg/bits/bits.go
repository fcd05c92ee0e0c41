// Package bits converts between codepage text and strings of binary digits.
package bits

import (
	"errors"
	"fmt"
	"strings"

	"GostCipher/server/internal/pkg/codepage"
)

// CodeSize is the width of one encoded symbol in bits
const CodeSize = 8

var (
	ErrLengthMismatch = errors.New("bitstring length mismatch")
	ErrNotBinary      = errors.New("not a binary string")
)

// Bitstring is a sequence of '0' and '1' characters
type Bitstring string

// Len returns the number of bits
func (b Bitstring) Len() int {
	return len(b)
}

// Parse validates untrusted input as a Bitstring of whole codes
func Parse(s string) (Bitstring, error) {
	if len(s)%CodeSize != 0 {
		return "", fmt.Errorf("%w: length %d is not a multiple of %d", ErrNotBinary, len(s), CodeSize)
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '0' && s[i] != '1' {
			return "", fmt.Errorf("%w: invalid digit %q at position %d", ErrNotBinary, s[i], i)
		}
	}
	return Bitstring(s), nil
}

// FromCode encodes a code as 8 zero-padded binary digits
func FromCode(code int) Bitstring {
	var sb strings.Builder
	sb.Grow(CodeSize)
	for i := CodeSize - 1; i >= 0; i-- {
		if code&(1<<i) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return Bitstring(sb.String())
}

// FromText encodes every rune of text through the codepage
func FromText(text string) (Bitstring, error) {
	var sb strings.Builder
	sb.Grow(len(text) * CodeSize)

	pos := 0
	for _, r := range text {
		code, err := codepage.CodeOf(r)
		if err != nil {
			return "", fmt.Errorf("symbol %d: %w", pos, err)
		}
		sb.WriteString(string(FromCode(code)))
		pos++
	}
	return Bitstring(sb.String()), nil
}

// DecimalOf interprets an 8-bit group as an unsigned big-endian integer
func DecimalOf(group Bitstring) (int, error) {
	if len(group) != CodeSize {
		return 0, fmt.Errorf("%w: expected %d bits, got %d", ErrLengthMismatch, CodeSize, len(group))
	}

	value := 0
	for i := 0; i < CodeSize; i++ {
		value <<= 1
		switch group[i] {
		case '1':
			value |= 1
		case '0':
		default:
			return 0, fmt.Errorf("%w: invalid digit %q", ErrNotBinary, group[i])
		}
	}
	return value, nil
}

// ToText decodes consecutive 8-bit groups back to text. Groups equal to
// the padding code are dropped and unmapped codes become the codepage
// sentinel. A trailing group shorter than 8 bits is ignored.
func ToText(b Bitstring) string {
	var sb strings.Builder
	for i := 0; i+CodeSize <= len(b); i += CodeSize {
		code, err := DecimalOf(b[i : i+CodeSize])
		if err != nil || code == codepage.PaddingCode {
			continue
		}
		sb.WriteRune(codepage.SymbolOf(code))
	}
	return sb.String()
}

// Render returns a printable form of arbitrary bits for display only.
// Ciphertext rarely maps onto meaningful symbols, so the result is lossy.
func Render(b Bitstring) string {
	return ToText(b)
}

// Xor returns a bitstring whose bit i is 1 iff a and b differ at i
func Xor(a, b Bitstring) (Bitstring, error) {
	if len(a) != len(b) {
		return "", fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(a), len(b))
	}

	out := make([]byte, len(a))
	for i := 0; i < len(a); i++ {
		if a[i] == b[i] {
			out[i] = '0'
		} else {
			out[i] = '1'
		}
	}
	return Bitstring(out), nil
}
