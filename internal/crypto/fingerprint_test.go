package crypto_test

import (
	"bytes"
	"testing"

	"plantdoc/internal/crypto"
)

func TestFingerprint_MatchesReader(t *testing.T) {
	data := []byte("tomato leaf bytes")
	fp := crypto.Fingerprint(data)
	if len(fp) != 20 {
		t.Fatalf("fingerprint length = %d, want 20", len(fp))
	}
	got, n, err := crypto.FingerprintReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("FingerprintReader: %v", err)
	}
	if got != fp || n != int64(len(data)) {
		t.Fatalf("reader fingerprint = %s (%d bytes), want %s (%d bytes)", got, n, fp, len(data))
	}
}

func TestPick_StableAndInRange(t *testing.T) {
	data := []byte{1, 2, 3}
	first := crypto.Pick(data, 7)
	for i := 0; i < 5; i++ {
		if got := crypto.Pick(data, 7); got != first {
			t.Fatalf("Pick not stable: %d vs %d", got, first)
		}
	}
	if first < 0 || first >= 7 {
		t.Fatalf("Pick out of range: %d", first)
	}
	if crypto.Pick(data, 0) != 0 {
		t.Fatal("Pick with n=0 should return 0")
	}
}

func TestWipe(t *testing.T) {
	b := []byte("secret")
	crypto.Wipe(b)
	if !bytes.Equal(b, make([]byte, 6)) {
		t.Fatalf("Wipe left %q", b)
	}
}

func TestWipe_Many(t *testing.T) {
	a, b := []byte("token"), []byte("key")
	crypto.Wipe(a, nil, b)
	if !bytes.Equal(a, make([]byte, 5)) || !bytes.Equal(b, make([]byte, 3)) {
		t.Fatalf("Wipe left %q %q", a, b)
	}
}
