// Package crypto implements the cryptographic primitives of the exposure
// notification submission protocol.
//
// This package handles time-window HMAC request signatures, seed-derived
// NaCl box key pairs, nonce generation, and authenticated public-key
// encryption through Go's x/crypto packages.
//
// # Request Signatures
//
// Retrieval requests are authenticated without a session by an HMAC-SHA256
// signature bound to a one-hour validity window:
//
//	signer, err := crypto.NewSigner("f0e1d2c3...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sig, err := signer.SignDay("2021-03-15")
//
// A signature computed near a window boundary may be rejected by the server
// once the window rolls over; callers that retry obtain a fresh signature by
// signing again.
//
// # Key Pairs and Encryption
//
// Ephemeral key pairs are derived deterministically from 32 externally
// sourced random bytes so the randomness source of record stays auditable
// and swappable:
//
//	seed, _ := src.Bytes(limits.SeedLength)
//	keyPair, err := crypto.DeriveKeyPair([32]byte(seed))
//	defer crypto.WipeKeyPair(keyPair)
//
//	nonce, _ := crypto.GenerateNonce(src)
//	ciphertext := crypto.Seal(payload, nonce, serverPublic, keyPair.Private)
//
// Nonces are single-use. Reusing a nonce under the same key pair breaks
// confidentiality; every upload must draw a fresh one.
//
// # Deterministic Testing
//
// Time- and randomness-dependent components accept injectable providers:
//
//	signer, _ := crypto.NewSignerWithTimeProvider(secret, crypto.FixedTimeProvider{At: t0})
package crypto
