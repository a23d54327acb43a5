package crypto

import (
	"errors"

	"golang.org/x/crypto/nacl/box"
)

// ErrDecryptionFailed indicates box authentication or decryption failed.
var ErrDecryptionFailed = errors.New("decryption failed")

// Seal encrypts a message using authenticated public-key encryption,
// binding it to the (nonce, recipient key, sender key) triple. The output
// is ciphertext plus the Poly1305 authentication tag. An empty message is
// valid and seals to a tag-only ciphertext.
func Seal(message []byte, nonce Nonce, recipientPK [32]byte, senderSK [32]byte) []byte {
	return box.Seal(nil, message, (*[24]byte)(&nonce), (*[32]byte)(&recipientPK), (*[32]byte)(&senderSK))
}

// Open decrypts and authenticates a message sealed by the peer.
func Open(ciphertext []byte, nonce Nonce, senderPK [32]byte, recipientSK [32]byte) ([]byte, error) {
	decrypted, ok := box.Open(nil, ciphertext, (*[24]byte)(&nonce), (*[32]byte)(&senderPK), (*[32]byte)(&recipientSK))
	if !ok {
		return nil, ErrDecryptionFailed
	}
	return decrypted, nil
}
