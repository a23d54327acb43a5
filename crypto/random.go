package crypto

import (
	"crypto/rand"
	"fmt"
)

// RandomSource supplies cryptographically secure random bytes. The protocol
// assumes CSPRNG quality and never mixes in weaker entropy; injecting the
// source keeps it auditable and swappable (e.g. for hardware RNGs).
type RandomSource interface {
	Bytes(n int) ([]byte, error)
}

// SystemRandomSource reads from the operating system CSPRNG via crypto/rand.
type SystemRandomSource struct{}

// Bytes returns n bytes from crypto/rand.
func (SystemRandomSource) Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("reading system randomness: %w", err)
	}
	return b, nil
}
