package crypto

import (
	"fmt"

	"github.com/exposurekit/backend/limits"
)

// Nonce is a 24-byte single-use value for box encryption. A nonce must be
// generated fresh for every seal operation and never derived from the
// payload; reuse under the same key pair is a confidentiality failure.
type Nonce [limits.NonceLength]byte

// GenerateNonce draws a fresh nonce from the given random source.
func GenerateNonce(src RandomSource) (Nonce, error) {
	var nonce Nonce
	b, err := src.Bytes(limits.NonceLength)
	if err != nil {
		return Nonce{}, fmt.Errorf("sourcing nonce: %w", err)
	}
	if len(b) != limits.NonceLength {
		return Nonce{}, fmt.Errorf("nonce source returned %d bytes, want %d",
			len(b), limits.NonceLength)
	}
	copy(nonce[:], b)
	return nonce, nil
}
