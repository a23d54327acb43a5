package crypto

import (
	"bytes"
	"errors"
	"fmt"

	"golang.org/x/crypto/nacl/box"

	"github.com/exposurekit/backend/limits"
)

// KeyPair represents a NaCl crypto_box key pair used for encrypted uploads.
type KeyPair struct {
	Public  [32]byte
	Private [32]byte
}

// ErrBadSeed indicates the random seed for key derivation was unusable.
var ErrBadSeed = errors.New("invalid key derivation seed")

// GenerateKeyPair creates a new box key pair from the given random source,
// consuming exactly limits.SeedLength bytes. The seed is wiped before
// returning.
func GenerateKeyPair(src RandomSource) (*KeyPair, error) {
	seed, err := src.Bytes(limits.SeedLength)
	if err != nil {
		return nil, fmt.Errorf("sourcing key seed: %w", err)
	}
	defer ZeroBytes(seed)

	if len(seed) != limits.SeedLength {
		return nil, fmt.Errorf("%w: source returned %d bytes, want %d",
			ErrBadSeed, len(seed), limits.SeedLength)
	}

	var fixed [limits.SeedLength]byte
	copy(fixed[:], seed)
	defer ZeroBytes(fixed[:])

	return DeriveKeyPair(fixed)
}

// DeriveKeyPair derives a box key pair deterministically from 32 seed bytes.
// The same seed always yields the same key pair.
func DeriveKeyPair(seed [limits.SeedLength]byte) (*KeyPair, error) {
	if isZeroKey(seed) {
		return nil, fmt.Errorf("%w: all zeros", ErrBadSeed)
	}

	publicKey, privateKey, err := box.GenerateKey(bytes.NewReader(seed[:]))
	if err != nil {
		return nil, fmt.Errorf("deriving box key pair: %w", err)
	}

	return &KeyPair{
		Public:  *publicKey,
		Private: *privateKey,
	}, nil
}

// isZeroKey checks if a key consists of all zeros.
func isZeroKey(key [32]byte) bool {
	for _, b := range key {
		if b != 0 {
			return false
		}
	}
	return true
}
