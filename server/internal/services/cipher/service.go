package cipher

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"GostCipher/server/internal/pkg/bits"
	"GostCipher/server/internal/pkg/encryption"
	"GostCipher/server/internal/pkg/helpers"
	"GostCipher/server/internal/protocol"
)

var (
	ErrUnknownKey = errors.New("unknown key id")
	ErrNoKey      = errors.New("no key given and no default key configured")
	ErrKeyStore   = errors.New("key store failure")
)

// KeyStore persists the keyring. storage.DB implements it.
type KeyStore interface {
	SaveKey(keyID, key string) error
	DeleteKey(keyID string) error
	LoadKeys() (map[string]string, error)
}

// Service encrypts and decrypts text on behalf of the gateway and keeps
// a keyring so clients can refer to keys by id
type Service struct {
	engine     encryption.SymmetricCipher
	log        *helpers.Logger
	defaultKey string
	store      KeyStore

	// Registered keys; written through to store when one is set
	keys   map[string]string
	keysMu sync.RWMutex
}

// ServiceOption configures a cipher service
type ServiceOption func(*Service)

// WithKeyStore persists registered keys and preloads the ones already stored
func WithKeyStore(store KeyStore) ServiceOption {
	return func(s *Service) {
		s.store = store
	}
}

// NewService creates a cipher service. defaultKey may be empty.
func NewService(engine encryption.SymmetricCipher, defaultKey string, opts ...ServiceOption) (*Service, error) {
	if defaultKey != "" {
		if _, err := encryption.SplitKey(defaultKey); err != nil {
			return nil, fmt.Errorf("default key: %w", err)
		}
	}
	s := &Service{
		engine:     engine,
		log:        helpers.NewLogger("CipherService"),
		defaultKey: defaultKey,
		keys:       make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.store != nil {
		stored, err := s.store.LoadKeys()
		if err != nil {
			return nil, fmt.Errorf("loading keyring: %w", err)
		}
		for id, key := range stored {
			if _, err := encryption.SplitKey(key); err != nil {
				s.log.Warn("skipping stored key", id, err.Error())
				continue
			}
			s.keys[id] = key
		}
		s.log.Info("keyring loaded", len(s.keys))
	}
	return s, nil
}

// Encrypt encrypts text with an explicit key, a registered key id or the default key
func (s *Service) Encrypt(ctx context.Context, req *protocol.EncryptRequest) (*protocol.EncryptResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := s.resolveKey(req.Key, req.KeyID)
	if err != nil {
		return nil, err
	}

	ciphertext, err := s.engine.Encrypt(req.Text, key)
	if err != nil {
		s.log.Warn("encrypt rejected", err.Error())
		return nil, err
	}

	blocks := ciphertext.Len() / s.engine.BlockSize()
	s.log.Debug("encrypted", fmt.Sprintf("symbols=%d blocks=%d key_id=%q ciphertext_start=%s",
		len([]rune(req.Text)), blocks, req.KeyID, helpers.Preview(string(ciphertext), 32)))

	return &protocol.EncryptResponse{
		Algorithm:  protocol.EncryptionAlgorithm(s.engine.Name()),
		Ciphertext: string(ciphertext),
		Preview:    bits.Render(ciphertext),
		Blocks:     blocks,
	}, nil
}

// Decrypt decrypts ciphertext bits with an explicit key, a registered key id or the default key
func (s *Service) Decrypt(ctx context.Context, req *protocol.DecryptRequest) (*protocol.DecryptResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := s.resolveKey(req.Key, req.KeyID)
	if err != nil {
		return nil, err
	}

	cipherBits, err := bits.Parse(req.Ciphertext)
	if err != nil {
		return nil, err
	}

	text, err := s.engine.Decrypt(cipherBits, key)
	if err != nil {
		s.log.Warn("decrypt rejected", err.Error())
		return nil, err
	}

	s.log.Debug("decrypted", fmt.Sprintf("bits=%d key_id=%q", cipherBits.Len(), req.KeyID))

	return &protocol.DecryptResponse{
		Algorithm: protocol.EncryptionAlgorithm(s.engine.Name()),
		Text:      text,
	}, nil
}

// RegisterKey stores a key under id, replacing any previous key
func (s *Service) RegisterKey(id, key string) error {
	if err := helpers.ValidateKeyID(id); err != nil {
		return err
	}
	if _, err := encryption.SplitKey(key); err != nil {
		return err
	}

	s.keysMu.Lock()
	defer s.keysMu.Unlock()

	if s.store != nil {
		if err := s.store.SaveKey(id, key); err != nil {
			return fmt.Errorf("%w: saving key %s: %v", ErrKeyStore, id, err)
		}
	}
	s.keys[id] = key

	s.log.Info("key registered", id)
	return nil
}

// RemoveKey deletes a registered key
func (s *Service) RemoveKey(id string) error {
	s.keysMu.Lock()
	defer s.keysMu.Unlock()

	if _, ok := s.keys[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, id)
	}
	if s.store != nil {
		if err := s.store.DeleteKey(id); err != nil {
			return fmt.Errorf("%w: deleting key %s: %v", ErrKeyStore, id, err)
		}
	}
	delete(s.keys, id)

	s.log.Info("key removed", id)
	return nil
}

// KeyIDs lists registered key ids in sorted order
func (s *Service) KeyIDs() []string {
	s.keysMu.RLock()
	defer s.keysMu.RUnlock()

	ids := make([]string, 0, len(s.keys))
	for id := range s.keys {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Info describes the engine parameters
func (s *Service) Info() protocol.CipherInfo {
	workers := 1
	if w, ok := s.engine.(interface{ Workers() int }); ok {
		workers = w.Workers()
	}
	return protocol.CipherInfo{
		Algorithm:  protocol.EncryptionAlgorithm(s.engine.Name()),
		BlockSize:  s.engine.BlockSize(),
		KeySize:    s.engine.KeySize(),
		KeySymbols: s.engine.KeySize() / bits.CodeSize,
		Rounds:     encryption.GOSTRounds,
		Workers:    workers,
	}
}

func (s *Service) resolveKey(key, keyID string) (string, error) {
	if err := helpers.ResolveKeySource(key, keyID); err != nil {
		return "", err
	}
	if key != "" {
		return key, nil
	}
	if keyID != "" {
		s.keysMu.RLock()
		registered, ok := s.keys[keyID]
		s.keysMu.RUnlock()
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrUnknownKey, keyID)
		}
		return registered, nil
	}
	if s.defaultKey != "" {
		return s.defaultKey, nil
	}
	return "", ErrNoKey
}
