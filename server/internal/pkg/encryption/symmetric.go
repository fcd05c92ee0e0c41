package encryption

import (
	"errors"

	"GostCipher/server/internal/pkg/bits"
	"GostCipher/server/internal/pkg/codepage"
)

var (
	ErrKeyLength = errors.New("invalid key length")

	// Codec failures, re-exported for callers of the engine
	ErrUnknownSymbol  = codepage.ErrUnknownSymbol
	ErrLengthMismatch = bits.ErrLengthMismatch
	ErrNotBinary      = bits.ErrNotBinary
)
