package crypto

import (
	"bytes"
	"errors"
	"testing"

	"github.com/exposurekit/backend/limits"
)

func testPeers(t *testing.T) (*KeyPair, *KeyPair) {
	t.Helper()

	var seedA, seedB [limits.SeedLength]byte
	copy(seedA[:], testSeed(10))
	copy(seedB[:], testSeed(40))

	sender, err := DeriveKeyPair(seedA)
	if err != nil {
		t.Fatalf("DeriveKeyPair() error: %v", err)
	}
	recipient, err := DeriveKeyPair(seedB)
	if err != nil {
		t.Fatalf("DeriveKeyPair() error: %v", err)
	}
	return sender, recipient
}

func testNonce(fill byte) Nonce {
	var nonce Nonce
	for i := range nonce {
		nonce[i] = fill + byte(i)
	}
	return nonce
}

func TestSealOpenRoundTrip(t *testing.T) {
	sender, recipient := testPeers(t)

	cases := []struct {
		name    string
		message []byte
	}{
		{name: "Short message", message: []byte("hello")},
		{name: "Binary payload", message: bytes.Repeat([]byte{0x00, 0xff, 0x7f}, 100)},
		{name: "Empty payload", message: []byte{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			nonce := testNonce(1)
			ciphertext := Seal(tc.message, nonce, recipient.Public, sender.Private)

			if len(ciphertext) != len(tc.message)+limits.SealOverhead {
				t.Errorf("ciphertext length = %d, want %d",
					len(ciphertext), len(tc.message)+limits.SealOverhead)
			}

			decrypted, err := Open(ciphertext, nonce, sender.Public, recipient.Private)
			if err != nil {
				t.Fatalf("Open() error: %v", err)
			}
			if !bytes.Equal(decrypted, tc.message) {
				t.Error("Open() did not recover the original message")
			}
		})
	}
}

func TestSealDistinctNonces(t *testing.T) {
	sender, recipient := testPeers(t)
	message := []byte("same payload twice")

	c1 := Seal(message, testNonce(1), recipient.Public, sender.Private)
	c2 := Seal(message, testNonce(2), recipient.Public, sender.Private)

	if bytes.Equal(c1, c2) {
		t.Error("independently generated nonces produced identical ciphertexts")
	}
}

func TestOpenRejectsTampering(t *testing.T) {
	sender, recipient := testPeers(t)
	nonce := testNonce(1)
	ciphertext := Seal([]byte("integrity matters"), nonce, recipient.Public, sender.Private)

	tampered := append([]byte(nil), ciphertext...)
	tampered[0] ^= 0x01

	if _, err := Open(tampered, nonce, sender.Public, recipient.Private); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("Open(tampered) error = %v, want ErrDecryptionFailed", err)
	}
}

func TestOpenRejectsWrongKey(t *testing.T) {
	sender, recipient := testPeers(t)
	nonce := testNonce(1)
	ciphertext := Seal([]byte("sender bound"), nonce, recipient.Public, sender.Private)

	var seed [limits.SeedLength]byte
	copy(seed[:], testSeed(70))
	other, _ := DeriveKeyPair(seed)

	if _, err := Open(ciphertext, nonce, other.Public, recipient.Private); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("Open(wrong sender key) error = %v, want ErrDecryptionFailed", err)
	}
}

func TestOpenRejectsWrongNonce(t *testing.T) {
	sender, recipient := testPeers(t)
	ciphertext := Seal([]byte("nonce bound"), testNonce(1), recipient.Public, sender.Private)

	if _, err := Open(ciphertext, testNonce(2), sender.Public, recipient.Private); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("Open(wrong nonce) error = %v, want ErrDecryptionFailed", err)
	}
}

func TestGenerateNonce(t *testing.T) {
	src := &scriptedRandomSource{script: [][]byte{
		testNonceBytes(5),
		testNonceBytes(9),
	}}

	n1, err := GenerateNonce(src)
	if err != nil {
		t.Fatalf("GenerateNonce() error: %v", err)
	}
	n2, err := GenerateNonce(src)
	if err != nil {
		t.Fatalf("GenerateNonce() error: %v", err)
	}

	if bytes.Equal(n1[:], n2[:]) {
		t.Error("two nonce draws returned identical values")
	}

	if _, err := GenerateNonce(src); err == nil {
		t.Error("GenerateNonce() expected error from exhausted source")
	}
}

func TestGenerateNonceSystemSource(t *testing.T) {
	n1, err := GenerateNonce(SystemRandomSource{})
	if err != nil {
		t.Fatalf("GenerateNonce() error: %v", err)
	}
	n2, _ := GenerateNonce(SystemRandomSource{})

	if bytes.Equal(n1[:], n2[:]) {
		t.Error("system source produced identical nonces")
	}
}

func testNonceBytes(fill byte) []byte {
	b := make([]byte, limits.NonceLength)
	for i := range b {
		b[i] = fill + byte(i)
	}
	return b
}
