// Package vault holds the in-process credential vault used for local
// development and tests.
package vault

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/aloftly/aloftly_app/internal/core/ports/providers"
)

const (
	keySize   = 32
	nonceSize = 24
)

type sealedSecret struct {
	name        string
	description string
	box         []byte
}

// SealedVault keeps secrets in memory, each sealed with secretbox under one key.
// Contents are lost on restart.
type SealedVault struct {
	mu      sync.RWMutex
	key     [keySize]byte
	secrets map[string]sealedSecret
}

var _ providers.SecretVault = (*SealedVault)(nil)

// NewSealedVault creates a vault keyed by a base64 encoded 32 byte key. An empty
// key generates a random one.
func NewSealedVault(encodedKey string) (*SealedVault, error) {
	v := &SealedVault{secrets: make(map[string]sealedSecret)}
	if encodedKey == "" {
		if _, err := io.ReadFull(rand.Reader, v.key[:]); err != nil {
			return nil, fmt.Errorf("failed to generate vault key: %w", err)
		}
		return v, nil
	}

	raw, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("vault key is not valid base64: %w", err)
	}
	if len(raw) != keySize {
		return nil, fmt.Errorf("vault key must be %d bytes, got %d", keySize, len(raw))
	}
	copy(v.key[:], raw)
	return v, nil
}

// StoreSecret seals secret and returns a fresh identifier.
func (v *SealedVault) StoreSecret(_ context.Context, secret, name, description string) (string, error) {
	if secret == "" {
		return "", errors.New("secret is empty")
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(secret), &nonce, &v.key)

	id := uuid.NewString()
	v.mu.Lock()
	v.secrets[id] = sealedSecret{name: name, description: description, box: box}
	v.mu.Unlock()
	return id, nil
}

// GetSecret opens the secret stored under secretID.
func (v *SealedVault) GetSecret(_ context.Context, secretID string) (string, bool, error) {
	v.mu.RLock()
	stored, ok := v.secrets[secretID]
	v.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if len(stored.box) < nonceSize {
		return "", false, errors.New("sealed secret is truncated")
	}

	var nonce [nonceSize]byte
	copy(nonce[:], stored.box[:nonceSize])
	plain, ok := secretbox.Open(nil, stored.box[nonceSize:], &nonce, &v.key)
	if !ok {
		return "", false, errors.New("sealed secret failed authentication")
	}
	return string(plain), true, nil
}
