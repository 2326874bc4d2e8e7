package session

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "msctl"
)

// KeyringStore persists the token in the OS keychain/credential manager.
// Tokens are scoped per API URL so switching servers does not leak credentials.
type KeyringStore struct {
	apiURL string
}

// NewKeyringStore creates a keyring-backed store for the given API URL
func NewKeyringStore(apiURL string) *KeyringStore {
	return &KeyringStore{apiURL: apiURL}
}

// key returns a unique keyring user for the token of this API URL
func (k *KeyringStore) key() string {
	return fmt.Sprintf("%s@%s", TokenKey, k.apiURL)
}

// SaveToken persists the token securely in the OS keychain/credential manager
func (k *KeyringStore) SaveToken(token string) error {
	if err := keyring.Set(keyringService, k.key(), token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// LoadToken retrieves the token from the OS keychain/credential manager
func (k *KeyringStore) LoadToken() (string, error) {
	token, err := keyring.Get(keyringService, k.key())
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

// DeleteToken removes the token from the OS keychain/credential manager
func (k *KeyringStore) DeleteToken() error {
	if err := keyring.Delete(keyringService, k.key()); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
