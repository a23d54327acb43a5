// Package wire implements the binary wire format for the submission
// protocol's request and response messages.
//
// Messages are encoded in the protocol buffer wire format through
// protowire, byte-compatible with the server's schema, without a code
// generation step. Each message has an explicit Marshal method and an
// Unmarshal function; unknown fields are skipped on decode so the client
// tolerates additive server-side schema changes, while malformed input
// fails the whole decode. Encryption always operates on the fully
// marshalled byte form of Upload, never on a partially constructed
// structure, so the server decrypts exactly the byte stream the client
// encoded.
package wire
