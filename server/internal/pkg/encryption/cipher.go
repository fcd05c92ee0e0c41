package encryption

import "GostCipher/server/internal/pkg/bits"

// SymmetricCipher is the interface the services use to encrypt text
type SymmetricCipher interface {
	// Encrypt encrypts text with the given key
	Encrypt(text string, key string) (bits.Bitstring, error)

	// Decrypt decrypts ciphertext bits with the given key
	Decrypt(cipherBits bits.Bitstring, key string) (string, error)

	// BlockSize returns the block size in bits
	BlockSize() int

	// KeySize returns the required key size in bits
	KeySize() int

	// Name returns the algorithm name
	Name() string
}

const (
	GOSTBlockSize     = 64  // 64-bit blocks
	GOSTHalfBlockSize = 32  // one Feistel half
	GOSTKeySize       = 256 // 32 codepage symbols
	GOSTKeyPartSize   = 32
	GOSTKeyParts      = GOSTKeySize / GOSTKeyPartSize
	GOSTKeySymbols    = GOSTKeySize / bits.CodeSize
	GOSTRounds        = 32
	GOSTRotation      = 11 // left rotation of the round function output

	GOSTName = "GOST-28147-89"
)
