package backend

import "errors"

// Common errors for the backend protocol. Every failure surfaces as one of
// these categories with the original cause wrapped; the client performs no
// local recovery and never substitutes fallback key material.
var (
	// ErrInvalidArgument indicates a malformed caller input (date, hour,
	// secret, key data). Never worth retrying.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTransport indicates a network or HTTP failure at the fetch
	// boundary. Retry policy is the caller's responsibility.
	ErrTransport = errors.New("transport failure")

	// ErrDecode indicates a wire-format decoding failure on a response.
	// Fatal for that call; malformed responses are never partially
	// interpreted.
	ErrDecode = errors.New("response decode failure")

	// ErrCrypto indicates an encryption or key-derivation failure.
	// Fatal, never silently ignored.
	ErrCrypto = errors.New("cryptographic failure")
)

// KeyClaimError is returned when the server explicitly rejects a one-time
// code. The code string is server-provided and meant to be surfaced to the
// end user verbatim (e.g. "code expired", "code already used").
type KeyClaimError struct {
	Code string
}

func (e *KeyClaimError) Error() string {
	return "one-time code rejected: " + e.Code
}

// UploadRejectedError is returned when the server acknowledges an upload
// with a non-empty error field.
type UploadRejectedError struct {
	Reason string
}

func (e *UploadRejectedError) Error() string {
	return "upload rejected: " + e.Reason
}
