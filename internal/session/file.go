package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileStore persists tokens in a YAML file keyed by API URL.
// Used on hosts without a usable keyring (CI containers, headless servers).
type FileStore struct {
	mu     sync.Mutex
	path   string
	apiURL string
}

type tokenFile struct {
	Tokens map[string]string `yaml:"tokens"`
}

// NewFileStore creates a file-backed store
func NewFileStore(path, apiURL string) *FileStore {
	return &FileStore{path: path, apiURL: apiURL}
}

// DefaultTokenFilePath returns ~/.config/msctl/credentials.yaml
func DefaultTokenFilePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "msctl", "credentials.yaml"), nil
}

func (f *FileStore) read() (*tokenFile, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return &tokenFile{Tokens: map[string]string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var tf tokenFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	if tf.Tokens == nil {
		tf.Tokens = map[string]string{}
	}
	return &tf, nil
}

func (f *FileStore) write(tf *tokenFile) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := yaml.Marshal(tf)
	if err != nil {
		return fmt.Errorf("failed to marshal token file: %w", err)
	}

	if err := os.WriteFile(f.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

func (f *FileStore) SaveToken(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tf, err := f.read()
	if err != nil {
		return err
	}
	tf.Tokens[f.apiURL] = token
	return f.write(tf)
}

func (f *FileStore) LoadToken() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	tf, err := f.read()
	if err != nil {
		return "", err
	}
	token, ok := tf.Tokens[f.apiURL]
	if !ok {
		return "", ErrNoToken
	}
	return token, nil
}

func (f *FileStore) DeleteToken() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tf, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := tf.Tokens[f.apiURL]; !ok {
		return nil
	}
	delete(tf.Tokens, f.apiURL)
	return f.write(tf)
}
