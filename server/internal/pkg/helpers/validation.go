package helpers

import (
	"errors"
	"regexp"
	"unicode/utf8"

	"GostCipher/server/internal/pkg/codepage"
	"GostCipher/server/internal/pkg/encryption"
)

var keyIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)

// ValidateKeyID checks that a keyring identifier is safe to use in URLs and logs
func ValidateKeyID(keyID string) error {
	if keyID == "" {
		return errors.New("key id cannot be empty")
	}
	if !keyIDPattern.MatchString(keyID) {
		return errors.New("key id may only contain letters, digits, '.', '_' and '-'")
	}
	return nil
}

// ValidateKeyShape checks a key before it is encoded:
// exactly 32 symbols, all of them present in the codepage
func ValidateKeyShape(key string) error {
	if n := utf8.RuneCountInString(key); n != encryption.GOSTKeySymbols {
		return encryption.ErrKeyLength
	}
	if !codepage.Contains(key) {
		return encryption.ErrUnknownSymbol
	}
	return nil
}

// ResolveKeySource enforces that a request names exactly one key source
func ResolveKeySource(key, keyID string) error {
	if key != "" && keyID != "" {
		return errors.New("specify either key or key_id, not both")
	}
	return nil
}
