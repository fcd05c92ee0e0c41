package segment

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"testing/quick"

	"GostCipher/server/internal/pkg/bits"
)

func TestSplitFixed(t *testing.T) {
	tests := []struct {
		name     string
		in       bits.Bitstring
		size     int
		expected []bits.Bitstring
	}{
		{"empty", "", 8, []bits.Bitstring{}},
		{"exact", "0101010111110000", 8, []bits.Bitstring{"01010101", "11110000"}},
		{"padded", "0101010111", 8, []bits.Bitstring{"01010101", "11000000"}},
		{"shorter than part", "1", 4, []bits.Bitstring{"1000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitFixed(tt.in, tt.size)
			if len(got) != len(tt.expected) {
				t.Fatalf("got %d parts, expected %d", len(got), len(tt.expected))
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("part %d = %s, expected %s", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestSplitFixedKeyParts(t *testing.T) {
	key, err := bits.FromText(strings.Repeat("a", 32))
	if err != nil {
		t.Fatalf("FromText failed: %v", err)
	}
	part, _ := bits.FromText("aaaa")

	parts := SplitFixed(key, 32)
	if len(parts) != 8 {
		t.Fatalf("got %d key parts, expected 8", len(parts))
	}
	for i, p := range parts {
		if p != part {
			t.Errorf("key part %d = %s, expected %s", i, p, part)
		}
	}
}

func TestProperty_SplitJoin(t *testing.T) {
	f := func(seed int64) bool {
		r := rand.New(rand.NewSource(seed))
		n := r.Intn(300) + 1
		size := []int{4, 8, 32, 64}[r.Intn(4)]

		raw := make([]byte, n)
		for i := range raw {
			raw[i] = byte('0' + r.Intn(2))
		}
		in := bits.Bitstring(raw)

		parts := SplitFixed(in, size)
		if len(parts) != (n+size-1)/size {
			return false
		}
		for _, p := range parts {
			if len(p) != size {
				return false
			}
		}

		joined, err := Join(parts)
		if err != nil {
			return false
		}
		padded := len(parts) * size
		return joined == in+bits.Bitstring(strings.Repeat("0", padded-n))
	}

	if err := quick.Check(f, &quick.Config{MaxCount: 200}); err != nil {
		t.Errorf("Property test failed: %v", err)
	}
}

func TestJoinEmpty(t *testing.T) {
	if _, err := Join(nil); !errors.Is(err, ErrEmptyJoin) {
		t.Fatalf("expected ErrEmptyJoin, got %v", err)
	}
}
