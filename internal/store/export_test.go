package store

// NewFastCredentialFileStore uses cheap scrypt parameters so tests stay fast.
func NewFastCredentialFileStore(dir string) *CredentialFileStore {
	s := NewCredentialFileStore(dir)
	s.kdf = kdfParams{N: 1 << 10, R: 8, P: 1}
	return s
}
