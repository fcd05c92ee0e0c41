package segment

import (
	"errors"
	"fmt"
	"strings"

	"GostCipher/server/internal/pkg/bits"
)

// ErrEmptyJoin is returned when Join is given no parts
var ErrEmptyJoin = errors.New("nothing to join")

// SplitFixed cuts b into windows of partSize bits. The last window is
// right-padded with zeros, so every part is exactly partSize long and
// there are ceil(len(b)/partSize) of them.
func SplitFixed(b bits.Bitstring, partSize int) []bits.Bitstring {
	if partSize <= 0 {
		panic(fmt.Sprintf("segment: part size must be positive, got %d", partSize))
	}

	parts := make([]bits.Bitstring, 0, (len(b)+partSize-1)/partSize)
	for i := 0; i < len(b); i += partSize {
		end := i + partSize
		if end <= len(b) {
			parts = append(parts, b[i:end])
			continue
		}
		// Pad with zeros
		parts = append(parts, b[i:]+bits.Bitstring(strings.Repeat("0", end-len(b))))
	}
	return parts
}

// Join concatenates parts in order
func Join(parts []bits.Bitstring) (bits.Bitstring, error) {
	if len(parts) == 0 {
		return "", ErrEmptyJoin
	}

	size := 0
	for _, p := range parts {
		size += len(p)
	}

	var sb strings.Builder
	sb.Grow(size)
	for _, p := range parts {
		sb.WriteString(string(p))
	}
	return bits.Bitstring(sb.String()), nil
}
