package helpers

import (
	"errors"
	"strings"
	"testing"

	"GostCipher/server/internal/pkg/encryption"
)

func TestValidateKeyID(t *testing.T) {
	valid := []string{"a", "team-a", "key_1.v2", strings.Repeat("k", 64)}
	for _, id := range valid {
		if err := ValidateKeyID(id); err != nil {
			t.Errorf("ValidateKeyID(%q) failed: %v", id, err)
		}
	}

	invalid := []string{"", "with space", "slash/id", "ключ", strings.Repeat("k", 65)}
	for _, id := range invalid {
		if err := ValidateKeyID(id); err == nil {
			t.Errorf("ValidateKeyID(%q) should fail", id)
		}
	}
}

func TestValidateKeyShape(t *testing.T) {
	tests := []struct {
		name string
		key  string
		err  error
	}{
		{"valid", "в ключе обязательно 32 символа .", nil},
		{"too short", "short", encryption.ErrKeyLength},
		{"too long", strings.Repeat("a", 33), encryption.ErrKeyLength},
		{"unknown symbol", strings.Repeat("a", 31) + "€", encryption.ErrUnknownSymbol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKeyShape(tt.key)
			if tt.err == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.err != nil && !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestResolveKeySource(t *testing.T) {
	if err := ResolveKeySource("key", "id"); err == nil {
		t.Error("both key and key id should be rejected")
	}
	if err := ResolveKeySource("key", ""); err != nil {
		t.Errorf("key only: %v", err)
	}
	if err := ResolveKeySource("", ""); err != nil {
		t.Errorf("neither: %v", err)
	}
}

func TestPreview(t *testing.T) {
	if got := Preview("0101", 8); got != "0101" {
		t.Errorf("Preview short = %q", got)
	}
	if got := Preview("0101010101", 4); got != "0101..." {
		t.Errorf("Preview long = %q", got)
	}
}
