// Package limits provides centralized length limits for the exposure
// notification submission protocol. This ensures consistent validation
// across different components of the system.
package limits

import (
	"errors"
	"fmt"
)

const (
	// KeyLength is the length of a NaCl box public or private key.
	KeyLength = 32

	// NonceLength is the length of a NaCl box nonce.
	NonceLength = 24

	// SeedLength is the number of random bytes consumed to derive an
	// ephemeral box key pair during a one-time-code claim.
	SeedLength = 32

	// KeyDataLength is the length of a Temporary Exposure Key's key data.
	KeyDataLength = 16

	// MaxKeysPerUpload is the server limit on exposure keys in a single
	// encrypted upload (14 days of keys plus headroom for same-day rolls).
	MaxKeysPerUpload = 28

	// SealOverhead is the overhead added by NaCl box encryption:
	// the Poly1305 MAC tag appended by box.Seal(). The nonce (24 bytes)
	// travels separately in the upload envelope.
	SealOverhead = 16
)

var (
	// ErrWrongKeyLength indicates a public or private key was not KeyLength bytes.
	ErrWrongKeyLength = errors.New("key was not expected length")

	// ErrWrongNonceLength indicates a nonce was not NonceLength bytes.
	ErrWrongNonceLength = errors.New("nonce was not expected length")

	// ErrWrongKeyDataLength indicates exposure key data was not KeyDataLength bytes.
	ErrWrongKeyDataLength = errors.New("key data was not expected length")

	// ErrTooManyKeys indicates an upload batch exceeds MaxKeysPerUpload.
	ErrTooManyKeys = errors.New("too many keys in upload")
)

// IntoKey validates a byte slice as a box key and copies it into a
// fixed-size array suitable for nacl/box.
func IntoKey(b []byte) (*[KeyLength]byte, error) {
	if len(b) != KeyLength {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrWrongKeyLength, len(b), KeyLength)
	}
	var arr [KeyLength]byte
	copy(arr[:], b)
	return &arr, nil
}

// IntoNonce validates a byte slice as a box nonce and copies it into a
// fixed-size array suitable for nacl/box.
func IntoNonce(b []byte) (*[NonceLength]byte, error) {
	if len(b) != NonceLength {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrWrongNonceLength, len(b), NonceLength)
	}
	var arr [NonceLength]byte
	copy(arr[:], b)
	return &arr, nil
}

// ValidateKeyData validates the raw key data of a single exposure key.
func ValidateKeyData(b []byte) error {
	if len(b) != KeyDataLength {
		return fmt.Errorf("%w: got %d, want %d", ErrWrongKeyDataLength, len(b), KeyDataLength)
	}
	return nil
}

// ValidateKeyCount validates the number of exposure keys in an upload batch.
// Empty batches are valid; the protocol permits an empty encrypted payload.
func ValidateKeyCount(n int) error {
	if n > MaxKeysPerUpload {
		return fmt.Errorf("%w: got %d, limit %d", ErrTooManyKeys, n, MaxKeysPerUpload)
	}
	return nil
}
