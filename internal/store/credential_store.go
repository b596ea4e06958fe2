package store

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"plantdoc/internal/crypto"
	"plantdoc/internal/domain"
)

const credentialFilename = "credentials.json.enc"

var credentialAD = []byte("plantdoc.credential.v1")

// ErrNoCredentials is returned by LoadToken when nothing has been saved.
var ErrNoCredentials = errors.New("no stored credentials; run login first")

// CredentialFileStore persists the sealed API token to disk.
type CredentialFileStore struct {
	dir string
	kdf kdfParams
	mu  sync.Mutex
}

// NewCredentialFileStore returns a CredentialFileStore rooted at dir.
func NewCredentialFileStore(dir string) *CredentialFileStore {
	return &CredentialFileStore{dir: dir, kdf: defaultKDF}
}

// SaveToken seals token with passphrase and writes it.
func (s *CredentialFileStore) SaveToken(passphrase string, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw := []byte(token)
	defer crypto.Wipe(raw)

	ct, err := seal(passphrase, raw, credentialAD, s.kdf)
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(s.dir, credentialFilename), ct, 0o600)
}

// LoadToken reads and opens the stored token.
func (s *CredentialFileStore) LoadToken(passphrase string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := readFile(filepath.Join(s.dir, credentialFilename))
	if err != nil {
		return "", err
	}
	if b == nil {
		return "", ErrNoCredentials
	}
	pt, err := open(passphrase, b, credentialAD)
	if err != nil {
		return "", err
	}
	defer crypto.Wipe(pt)
	return string(pt), nil
}

// DeleteToken removes the stored token. Deleting nothing is not an error.
func (s *CredentialFileStore) DeleteToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return removeFile(filepath.Join(s.dir, credentialFilename))
}

// HasToken reports whether a sealed token exists.
func (s *CredentialFileStore) HasToken() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := os.Stat(filepath.Join(s.dir, credentialFilename))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// Compile-time assertion that CredentialFileStore implements domain.CredentialStore.
var _ domain.CredentialStore = (*CredentialFileStore)(nil)
