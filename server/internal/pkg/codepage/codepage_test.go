package codepage

import (
	"errors"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func TestCodeOfASCII(t *testing.T) {
	tests := []struct {
		symbol rune
		code   int
	}{
		{'A', 65},
		{'B', 66},
		{'a', 97},
		{' ', 32},
		{'\n', 10},
		{'~', 126},
		{'{', 123},
	}

	for _, tt := range tests {
		code, err := CodeOf(tt.symbol)
		if err != nil {
			t.Fatalf("CodeOf(%q) failed: %v", tt.symbol, err)
		}
		if code != tt.code {
			t.Errorf("CodeOf(%q) = %d, expected %d", tt.symbol, code, tt.code)
		}
	}
}

func TestExtendedAlphabetMatchesCP866(t *testing.T) {
	if len(extended) != 66 {
		t.Fatalf("extended alphabet has %d entries, expected 66", len(extended))
	}

	for _, e := range extended {
		want := charmap.CodePage866.DecodeByte(byte(e.code))
		if want != e.symbol {
			t.Errorf("code %d maps to %q, CP866 has %q", e.code, e.symbol, want)
		}

		code, err := CodeOf(e.symbol)
		if err != nil {
			t.Fatalf("CodeOf(%q) failed: %v", e.symbol, err)
		}
		if code != e.code {
			t.Errorf("CodeOf(%q) = %d, expected %d", e.symbol, code, e.code)
		}
		if got := SymbolOf(e.code); got != e.symbol {
			t.Errorf("SymbolOf(%d) = %q, expected %q", e.code, got, e.symbol)
		}
	}
}

func TestCodeOfUnknownSymbol(t *testing.T) {
	for _, r := range []rune{'😀', 'ß', '€', '░', 0x7F, 0} {
		if _, err := CodeOf(r); !errors.Is(err, ErrUnknownSymbol) {
			t.Errorf("CodeOf(%U): expected ErrUnknownSymbol, got %v", r, err)
		}
	}
}

func TestSymbolOfUnmappedReturnsSentinel(t *testing.T) {
	for _, code := range []int{PaddingCode, 127, 176, 200, 223, 242, 255, -1, 1000} {
		if got := SymbolOf(code); got != Sentinel {
			t.Errorf("SymbolOf(%d) = %q, expected sentinel %q", code, got, Sentinel)
		}
	}
}

func TestTableIsBijective(t *testing.T) {
	if Size() != 126+66 {
		t.Fatalf("Size() = %d, expected %d", Size(), 126+66)
	}

	prev := -1
	for _, code := range Codes() {
		if code <= prev {
			t.Fatalf("Codes() not strictly ascending at %d", code)
		}
		prev = code

		back, err := CodeOf(SymbolOf(code))
		if err != nil || back != code {
			t.Errorf("code %d does not survive a round trip (got %d, %v)", code, back, err)
		}
	}
}

func TestContains(t *testing.T) {
	if !Contains("Это проверочный текст with english 0123456789 {}.,:-") {
		t.Error("Contains rejected a text made of mapped symbols")
	}
	if Contains("emoji 😀") {
		t.Error("Contains accepted an emoji")
	}
}
