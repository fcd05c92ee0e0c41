package encryption

import (
	"fmt"
	"strings"
	"sync"

	"GostCipher/server/internal/pkg/bits"
	"GostCipher/server/internal/pkg/encryption/segment"
)

// scheduleTurn is the first block index that uses the descending branch
// of the key-part schedule
const scheduleTurn = 25

// sBox is the substitution table, indexed by nibble value
var sBox = [16]bits.Bitstring{
	"1011", "1111", "1110", "0100",
	"1101", "1001", "0010", "1010",
	"0011", "0111", "0001", "1100",
	"0000", "0110", "0101", "1000",
}

// GOST is a 32-round Feistel cipher over codepage text. Every 64-bit
// block is transformed with a single key part chosen by its index.
type GOST struct {
	workers int
}

// Option configures a GOST engine
type Option func(*GOST)

// WithWorkers lets the engine transform up to n blocks concurrently.
// Output does not depend on n.
func WithWorkers(n int) Option {
	return func(g *GOST) {
		if n > 0 {
			g.workers = n
		}
	}
}

// NewGOST creates a new engine
func NewGOST(opts ...Option) *GOST {
	g := &GOST{workers: 1}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// BlockSize returns the block size in bits
func (g *GOST) BlockSize() int {
	return GOSTBlockSize
}

// KeySize returns the key size in bits
func (g *GOST) KeySize() int {
	return GOSTKeySize
}

// Name returns the cipher name
func (g *GOST) Name() string {
	return GOSTName
}

// Workers returns the configured concurrency
func (g *GOST) Workers() int {
	return g.workers
}

// Encrypt encrypts text and returns the ciphertext bits
func (g *GOST) Encrypt(text string, key string) (bits.Bitstring, error) {
	plain, err := bits.FromText(text)
	if err != nil {
		return "", err
	}
	keyParts, err := SplitKey(key)
	if err != nil {
		return "", err
	}
	if plain == "" {
		return "", nil
	}

	blocks := segment.SplitFixed(plain, GOSTBlockSize)
	encrypted, err := g.transform(blocks, keyParts, EncryptBlock, false)
	if err != nil {
		return "", err
	}
	return segment.Join(encrypted)
}

// Decrypt decrypts ciphertext bits produced by Encrypt
func (g *GOST) Decrypt(cipherBits bits.Bitstring, key string) (string, error) {
	if _, err := bits.Parse(string(cipherBits)); err != nil {
		return "", err
	}
	keyParts, err := SplitKey(key)
	if err != nil {
		return "", err
	}
	if cipherBits == "" {
		return "", nil
	}

	blocks := segment.SplitFixed(cipherBits, GOSTBlockSize)
	decrypted, err := g.transform(blocks, keyParts, DecryptBlock, true)
	if err != nil {
		return "", err
	}
	plain, err := segment.Join(decrypted)
	if err != nil {
		return "", err
	}
	return bits.ToText(plain), nil
}

type blockFunc func(block, keyPart bits.Bitstring) (bits.Bitstring, error)

// transform applies fn to every block with the key part for its index.
// Blocks are independent; reverse only changes the walk order.
func (g *GOST) transform(blocks, keyParts []bits.Bitstring, fn blockFunc, reverse bool) ([]bits.Bitstring, error) {
	out := make([]bits.Bitstring, len(blocks))

	if g.workers <= 1 || len(blocks) == 1 {
		for n := 0; n < len(blocks); n++ {
			i := n
			if reverse {
				i = len(blocks) - 1 - n
			}
			block, err := fn(blocks[i], keyParts[KeyIndex(i)])
			if err != nil {
				return nil, fmt.Errorf("block %d: %w", i, err)
			}
			out[i] = block
		}
		return out, nil
	}

	errs := make([]error, len(blocks))
	sem := make(chan struct{}, g.workers)
	var wg sync.WaitGroup

	for i := range blocks {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer func() {
				<-sem
				wg.Done()
			}()
			out[i], errs[i] = fn(blocks[i], keyParts[KeyIndex(i)])
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
	}
	return out, nil
}

// SplitKey encodes a key and cuts it into eight 32-bit key parts
func SplitKey(key string) ([]bits.Bitstring, error) {
	keyBits, err := bits.FromText(key)
	if err != nil {
		return nil, fmt.Errorf("key: %w", err)
	}
	if keyBits.Len() != GOSTKeySize {
		return nil, fmt.Errorf("%w: key must be %d symbols (%d bits), got %d bits",
			ErrKeyLength, GOSTKeySymbols, GOSTKeySize, keyBits.Len())
	}
	return segment.SplitFixed(keyBits, GOSTKeyPartSize), nil
}

// KeyIndex selects the key part for the block at position i.
// Indices up to 33 follow the two-branch formula literally; past that the
// descending branch goes negative and is wrapped back into 0..7.
func KeyIndex(i int) int {
	var idx int
	if i < scheduleTurn {
		idx = i % GOSTKeyParts
	} else {
		idx = (GOSTRounds - (i - 1)) % GOSTKeyParts
	}
	if idx < 0 {
		idx += GOSTKeyParts
	}
	return idx
}

// EncryptBlock runs the 32 Feistel rounds over one 64-bit block
func EncryptBlock(block, keyPart bits.Bitstring) (bits.Bitstring, error) {
	l, r, err := splitBlock(block, keyPart)
	if err != nil {
		return "", err
	}

	for i := 0; i < GOSTRounds; i++ {
		t, err := RoundFunction(l, keyPart)
		if err != nil {
			return "", err
		}
		next, err := bits.Xor(t, r)
		if err != nil {
			return "", err
		}
		l, r = next, l
	}

	return l + r, nil
}

// DecryptBlock inverts EncryptBlock for the same key part
func DecryptBlock(block, keyPart bits.Bitstring) (bits.Bitstring, error) {
	l, r, err := splitBlock(block, keyPart)
	if err != nil {
		return "", err
	}

	for i := 0; i < GOSTRounds; i++ {
		l, r = r, l
		t, err := RoundFunction(l, keyPart)
		if err != nil {
			return "", err
		}
		if r, err = bits.Xor(r, t); err != nil {
			return "", err
		}
	}

	return l + r, nil
}

// RoundFunction mixes a half-block with a key part: XOR, nibble
// substitution, then rotation left by 11 bits.
func RoundFunction(half, keyPart bits.Bitstring) (bits.Bitstring, error) {
	x, err := bits.Xor(half, keyPart)
	if err != nil {
		return "", err
	}
	s, err := Substitute(x)
	if err != nil {
		return "", err
	}
	return rotateLeft(s, GOSTRotation), nil
}

// Substitute replaces every 4-bit nibble through the substitution table
func Substitute(b bits.Bitstring) (bits.Bitstring, error) {
	if len(b)%4 != 0 {
		return "", fmt.Errorf("%w: %d bits is not a whole number of nibbles", ErrLengthMismatch, len(b))
	}

	var sb strings.Builder
	sb.Grow(len(b))
	for i := 0; i < len(b); i += 4 {
		n := 0
		for j := i; j < i+4; j++ {
			n <<= 1
			switch b[j] {
			case '1':
				n |= 1
			case '0':
			default:
				return "", fmt.Errorf("%w: invalid digit %q", ErrNotBinary, b[j])
			}
		}
		sb.WriteString(string(sBox[n]))
	}
	return bits.Bitstring(sb.String()), nil
}

func rotateLeft(b bits.Bitstring, n int) bits.Bitstring {
	if len(b) == 0 {
		return b
	}
	n %= len(b)
	return b[n:] + b[:n]
}

func splitBlock(block, keyPart bits.Bitstring) (bits.Bitstring, bits.Bitstring, error) {
	if len(block) != GOSTBlockSize {
		return "", "", fmt.Errorf("%w: block must be %d bits, got %d", ErrLengthMismatch, GOSTBlockSize, len(block))
	}
	if len(keyPart) != GOSTKeyPartSize {
		return "", "", fmt.Errorf("%w: key part must be %d bits, got %d", ErrLengthMismatch, GOSTKeyPartSize, len(keyPart))
	}
	return block[:GOSTHalfBlockSize], block[GOSTHalfBlockSize:], nil
}
