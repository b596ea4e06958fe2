package credential

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"plantdoc/internal/domain"
)

const (
	// minPassphraseLength defines the minimum number of characters required for a passphrase.
	minPassphraseLength = 12
)

var (
	// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
	ErrWeakPassphrase = fmt.Errorf(
		"passphrase is too weak (must be at least %d characters and include upper, lower, "+
			"number, and symbol)",
		minPassphraseLength,
	)

	// ErrEmptyToken is returned by Login when no token is given.
	ErrEmptyToken = errors.New("token must not be empty")
)

// Service stores and retrieves the API token using a backing store.
type Service struct {
	store domain.CredentialStore
}

// New returns a credential service backed by the given store.
func New(s domain.CredentialStore) *Service { return &Service{store: s} }

// Login seals token under passphrase, replacing any stored token.
func (s *Service) Login(passphrase string, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	if !isSecurePassphrase(passphrase) {
		return ErrWeakPassphrase
	}
	return s.store.SaveToken(passphrase, token)
}

// Token returns the stored token.
func (s *Service) Token(passphrase string) (string, error) {
	return s.store.LoadToken(passphrase)
}

// Logout removes the stored token.
func (s *Service) Logout() error {
	return s.store.DeleteToken()
}

// isSecurePassphrase enforces a basic strength policy.
func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len(passphrase) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}

// Compile-time assertion that Service implements domain.CredentialService.
var _ domain.CredentialService = (*Service)(nil)
