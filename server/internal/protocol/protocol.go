package protocol

import (
	"time"
)

// EncryptionAlgorithm names the engine that produced a response
type EncryptionAlgorithm string

// WebSocket operations
const (
	OpEncrypt = "encrypt"
	OpDecrypt = "decrypt"
)

// Error codes returned to clients
const (
	CodeUnknownSymbol  = "unknown_symbol"
	CodeLengthMismatch = "length_mismatch"
	CodeKeyLength      = "key_length"
	CodeNotBinary      = "not_binary"
	CodeUnknownKey     = "unknown_key"
	CodeBadRequest     = "bad_request"
	CodeUnauthorized   = "unauthorized"
	CodeInternal       = "internal"
)

// WebSocket deadlines
const (
	ReadTimeout  = 60 * time.Second
	WriteTimeout = 10 * time.Second
	PingPeriod   = 30 * time.Second
	MaxFrameSize = 1 << 20
)

// EncryptRequest asks for text to be encrypted with a key or a registered key id
type EncryptRequest struct {
	Text  string `json:"text"`
	Key   string `json:"key,omitempty"`
	KeyID string `json:"key_id,omitempty"`
}

// EncryptResponse carries ciphertext bits and a display-only preview
type EncryptResponse struct {
	Algorithm  EncryptionAlgorithm `json:"algorithm"`
	Ciphertext string              `json:"ciphertext"`
	Preview    string              `json:"preview"`
	Blocks     int                 `json:"blocks"`
}

// DecryptRequest asks for ciphertext bits to be decrypted
type DecryptRequest struct {
	Ciphertext string `json:"ciphertext"`
	Key        string `json:"key,omitempty"`
	KeyID      string `json:"key_id,omitempty"`
}

// DecryptResponse carries the recovered text
type DecryptResponse struct {
	Algorithm EncryptionAlgorithm `json:"algorithm"`
	Text      string              `json:"text"`
}

// KeyRequest registers a key under an id
type KeyRequest struct {
	Key string `json:"key"`
}

// KeyResponse acknowledges a keyring change
type KeyResponse struct {
	KeyID  string `json:"key_id"`
	Status string `json:"status"`
}

// CipherInfo describes the cipher parameters
type CipherInfo struct {
	Algorithm  EncryptionAlgorithm `json:"algorithm"`
	BlockSize  int                 `json:"block_size"`
	KeySize    int                 `json:"key_size"`
	KeySymbols int                 `json:"key_symbols"`
	Rounds     int                 `json:"rounds"`
	Workers    int                 `json:"workers"`
}

// CodepageEntry is one row of the symbol table
type CodepageEntry struct {
	Code   int    `json:"code"`
	Symbol string `json:"symbol"`
}

// ErrorResponse is the body of every failed HTTP request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// WebSocketRequest is one complete operation sent over /ws
type WebSocketRequest struct {
	ID         string `json:"id"`
	Op         string `json:"op"`
	Text       string `json:"text,omitempty"`
	Ciphertext string `json:"ciphertext,omitempty"`
	Key        string `json:"key,omitempty"`
	KeyID      string `json:"key_id,omitempty"`
}

// GatewayResponse represents a response sent back to WebSocket clients
type GatewayResponse struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Status    string      `json:"status"` // "success", "error"
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Code      string      `json:"code,omitempty"`
	Timestamp int64       `json:"timestamp"`
}
