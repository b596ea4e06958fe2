package store

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"plantdoc/internal/crypto"
)

// sealedFormatVersion is the current version of the sealed blob format.
const sealedFormatVersion = 1

// ErrWrongPassphrase is returned when the passphrase is incorrect or the
// sealed blob has been modified.
var ErrWrongPassphrase = errors.New("wrong passphrase or corrupted credentials")

// sealed is the on-disk JSON structure holding the ciphertext and KDF
// parameters.
type sealed struct {
	V      int    `json:"v"`
	Salt   []byte `json:"salt"`
	Nonce  []byte `json:"nonce"`
	N      int    `json:"scrypt_N"`
	R      int    `json:"scrypt_r"`
	P      int    `json:"scrypt_p"`
	Cipher []byte `json:"cipher"`
}

// kdfParams are the scrypt cost parameters.
type kdfParams struct {
	N, R, P int
}

// defaultKDF is used for new blobs. Tests lower it to keep runs fast.
var defaultKDF = kdfParams{N: 1 << 15, R: 8, P: 1}

// seal derives a key from passphrase and encrypts raw into a JSON blob. The
// associated data binds the blob to its purpose.
func seal(passphrase string, raw, ad []byte, kp kdfParams) ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	key, err := scrypt.Key([]byte(passphrase), salt, kp.N, kp.R, kp.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	defer crypto.Wipe(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return json.Marshal(sealed{
		V:      sealedFormatVersion,
		Salt:   salt,
		Nonce:  nonce,
		N:      kp.N,
		R:      kp.R,
		P:      kp.P,
		Cipher: aead.Seal(nil, nonce, raw, ad),
	})
}

// open reverses seal.
func open(passphrase string, b, ad []byte) ([]byte, error) {
	var bl sealed
	if err := json.Unmarshal(b, &bl); err != nil {
		return nil, err
	}
	if bl.V > sealedFormatVersion {
		return nil, fmt.Errorf("unsupported credential format version %d", bl.V)
	}
	key, err := scrypt.Key([]byte(passphrase), bl.Salt, bl.N, bl.R, bl.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	defer crypto.Wipe(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	if len(bl.Nonce) != aead.NonceSize() {
		return nil, ErrWrongPassphrase
	}
	pt, err := aead.Open(nil, bl.Nonce, bl.Cipher, ad)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return pt, nil
}
