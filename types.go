package backend

import (
	"encoding/base64"
	"fmt"

	"github.com/exposurekit/backend/crypto"
	"github.com/exposurekit/backend/limits"
)

// SubmissionKeySet is the client/server key pair binding established by a
// successful one-time-code claim. It is session-scoped key material: owned
// by the caller for the lifetime of one upload session, never logged, and
// wiped when the session ends.
type SubmissionKeySet struct {
	ServerPublic [limits.KeyLength]byte
	AppPublic    [limits.KeyLength]byte
	AppPrivate   [limits.KeyLength]byte
}

// Wipe securely erases the private key.
func (s *SubmissionKeySet) Wipe() {
	crypto.ZeroBytes(s.AppPrivate[:])
}

// Stored returns the base64 view of the key set for the storage boundary.
// Raw bytes stay internal to the protocol core.
func (s *SubmissionKeySet) Stored() StoredKeySet {
	return StoredKeySet{
		ServerPublicKey: base64.StdEncoding.EncodeToString(s.ServerPublic[:]),
		AppPublicKey:    base64.StdEncoding.EncodeToString(s.AppPublic[:]),
		AppPrivateKey:   base64.StdEncoding.EncodeToString(s.AppPrivate[:]),
	}
}

// StoredKeySet is the base64-encoded transport/storage form of a
// SubmissionKeySet.
type StoredKeySet struct {
	ServerPublicKey string `json:"serverPublicKey"`
	AppPublicKey    string `json:"appPublicKey"`
	AppPrivateKey   string `json:"appPrivateKey"`
}

// ParseStoredKeySet decodes a stored key set back into its byte form.
func ParseStoredKeySet(st StoredKeySet) (*SubmissionKeySet, error) {
	var s SubmissionKeySet
	for _, f := range []struct {
		name string
		enc  string
		dst  []byte
	}{
		{name: "server public key", enc: st.ServerPublicKey, dst: s.ServerPublic[:]},
		{name: "app public key", enc: st.AppPublicKey, dst: s.AppPublic[:]},
		{name: "app private key", enc: st.AppPrivateKey, dst: s.AppPrivate[:]},
	} {
		raw, err := base64.StdEncoding.DecodeString(f.enc)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidArgument, f.name, err)
		}
		if len(raw) != limits.KeyLength {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidArgument, f.name, limits.ErrWrongKeyLength)
		}
		copy(f.dst, raw)
	}
	return &s, nil
}

// ExposureKey is one Temporary Exposure Key as handed over by the platform,
// with the key data still in its base64 transport form. The client decodes
// it to raw bytes when building the upload payload.
type ExposureKey struct {
	KeyData               string
	RollingStartNumber    uint32
	TransmissionRiskLevel uint8
}
