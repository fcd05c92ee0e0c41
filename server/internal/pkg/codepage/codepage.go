package codepage

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownSymbol is returned when a rune has no code in the table
var ErrUnknownSymbol = errors.New("unknown symbol")

const (
	// PaddingCode marks zero padding added by the segmenter. It is kept out
	// of the table, so U+0000 in input text is rejected as an unknown symbol
	// instead of vanishing on decode.
	PaddingCode = 0

	// Sentinel is returned by SymbolOf for codes missing from the table
	Sentinel = '0'

	asciiLimit = 127 // codes 1..126 map onto themselves
)

// extended holds the Cyrillic alphabet at its DOS (CP866) positions.
// These codes are part of the ciphertext format and never change.
var extended = []struct {
	symbol rune
	code   int
}{
	{'А', 128}, {'Б', 129}, {'В', 130}, {'Г', 131},
	{'Д', 132}, {'Е', 133}, {'Ж', 134}, {'З', 135},
	{'И', 136}, {'Й', 137}, {'К', 138}, {'Л', 139},
	{'М', 140}, {'Н', 141}, {'О', 142}, {'П', 143},
	{'Р', 144}, {'С', 145}, {'Т', 146}, {'У', 147},
	{'Ф', 148}, {'Х', 149}, {'Ц', 150}, {'Ч', 151},
	{'Ш', 152}, {'Щ', 153}, {'Ъ', 154}, {'Ы', 155},
	{'Ь', 156}, {'Э', 157}, {'Ю', 158}, {'Я', 159},
	{'а', 160}, {'б', 161}, {'в', 162}, {'г', 163},
	{'д', 164}, {'е', 165}, {'ж', 166}, {'з', 167},
	{'и', 168}, {'й', 169}, {'к', 170}, {'л', 171},
	{'м', 172}, {'н', 173}, {'о', 174}, {'п', 175},
	{'р', 224}, {'с', 225}, {'т', 226}, {'у', 227},
	{'ф', 228}, {'х', 229}, {'ц', 230}, {'ч', 231},
	{'ш', 232}, {'щ', 233}, {'ъ', 234}, {'ы', 235},
	{'ь', 236}, {'э', 237}, {'ю', 238}, {'я', 239},
	{'Ё', 240}, {'ё', 241},
}

var (
	codes   map[rune]int
	symbols map[int]rune
)

func init() {
	codes = make(map[rune]int, asciiLimit+len(extended))
	symbols = make(map[int]rune, asciiLimit+len(extended))

	for i := PaddingCode + 1; i < asciiLimit; i++ {
		codes[rune(i)] = i
		symbols[i] = rune(i)
	}
	for _, e := range extended {
		codes[e.symbol] = e.code
		symbols[e.code] = e.symbol
	}
}

// CodeOf returns the 8-bit code of a symbol
func CodeOf(symbol rune) (int, error) {
	code, ok := codes[symbol]
	if !ok {
		return 0, fmt.Errorf("%w: %q (U+%04X)", ErrUnknownSymbol, symbol, symbol)
	}
	return code, nil
}

// SymbolOf returns the symbol for a code, or Sentinel when the code is unmapped
func SymbolOf(code int) rune {
	if symbol, ok := symbols[code]; ok {
		return symbol
	}
	return Sentinel
}

// Contains reports whether every rune of text has a code
func Contains(text string) bool {
	for _, r := range text {
		if _, ok := codes[r]; !ok {
			return false
		}
	}
	return true
}

// Size returns the number of mapped symbols
func Size() int {
	return len(codes)
}

// Codes returns every mapped code in ascending order
func Codes() []int {
	out := make([]int, 0, len(codes))
	for _, code := range codes {
		out = append(out, code)
	}
	sort.Ints(out)
	return out
}
