package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Key is a single Temporary Exposure Key inside an upload payload.
//
//	bytes  key_data                      = 1;
//	uint32 rolling_start_interval_number = 2;
//	uint32 transmission_risk_level       = 3;
type Key struct {
	KeyData               []byte
	RollingStartNumber    uint32
	TransmissionRiskLevel uint32
}

// Marshal encodes the key to its wire form.
func (m *Key) Marshal() []byte {
	var b []byte
	if len(m.KeyData) > 0 {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, m.KeyData)
	}
	if m.RollingStartNumber != 0 {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(m.RollingStartNumber))
	}
	if m.TransmissionRiskLevel != 0 {
		b = protowire.AppendTag(b, 3, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(m.TransmissionRiskLevel))
	}
	return b
}

func unmarshalKey(b []byte) (Key, error) {
	var m Key
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			m.KeyData = append([]byte(nil), v...)
			return n, nil
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return n, nil
			}
			m.RollingStartNumber = uint32(v)
			return n, nil
		case num == 3 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return n, nil
			}
			m.TransmissionRiskLevel = uint32(v)
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	return m, err
}

// Upload is the plaintext payload of an encrypted key report: a coarse
// second-precision timestamp plus the full ordered key sequence.
//
//	int64        timestamp = 1;
//	repeated Key keys      = 2;
type Upload struct {
	Timestamp int64
	Keys      []Key
}

// Marshal encodes the upload to its canonical wire form. This is the exact
// byte stream that gets sealed; the server decrypts and decodes it 1:1.
func (m *Upload) Marshal() []byte {
	var b []byte
	if m.Timestamp != 0 {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(m.Timestamp))
	}
	for i := range m.Keys {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, m.Keys[i].Marshal())
	}
	return b
}

// UnmarshalUpload decodes an upload payload from its wire form.
func UnmarshalUpload(b []byte) (*Upload, error) {
	var m Upload
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return n, nil
			}
			m.Timestamp = int64(v)
			return n, nil
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			key, err := unmarshalKey(v)
			if err != nil {
				return 0, fmt.Errorf("key %d: %w", len(m.Keys), err)
			}
			m.Keys = append(m.Keys, key)
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// EncryptedUploadRequest is the envelope that crosses the wire for a key
// report: both public keys, the single-use nonce, and the sealed payload.
//
//	bytes server_public_key = 1;
//	bytes app_public_key    = 2;
//	bytes nonce             = 3;
//	bytes payload           = 4;
type EncryptedUploadRequest struct {
	ServerPublicKey []byte
	AppPublicKey    []byte
	Nonce           []byte
	Payload         []byte
}

// Marshal encodes the envelope to its wire form.
func (m *EncryptedUploadRequest) Marshal() []byte {
	var b []byte
	if len(m.ServerPublicKey) > 0 {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, m.ServerPublicKey)
	}
	if len(m.AppPublicKey) > 0 {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, m.AppPublicKey)
	}
	if len(m.Nonce) > 0 {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, m.Nonce)
	}
	// The payload is always emitted: an empty key batch seals to a
	// tag-only ciphertext which is still a valid field value.
	b = protowire.AppendTag(b, 4, protowire.BytesType)
	b = protowire.AppendBytes(b, m.Payload)
	return b
}

// UnmarshalEncryptedUploadRequest decodes an upload envelope from its wire form.
func UnmarshalEncryptedUploadRequest(b []byte) (*EncryptedUploadRequest, error) {
	var m EncryptedUploadRequest
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if typ != protowire.BytesType || num < 1 || num > 4 {
			return protowire.ConsumeFieldValue(num, typ, b), nil
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return n, nil
		}
		value := append([]byte(nil), v...)
		switch num {
		case 1:
			m.ServerPublicKey = value
		case 2:
			m.AppPublicKey = value
		case 3:
			m.Nonce = value
		case 4:
			m.Payload = value
		}
		return n, nil
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// EncryptedUploadResponse is the server acknowledgment for a key report.
// An empty error string means the upload was accepted.
//
//	string error = 1;
type EncryptedUploadResponse struct {
	Error string
}

// Marshal encodes the acknowledgment to its wire form.
func (m *EncryptedUploadResponse) Marshal() []byte {
	var b []byte
	if m.Error != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, m.Error)
	}
	return b
}

// UnmarshalEncryptedUploadResponse decodes a server acknowledgment from its
// wire form.
func UnmarshalEncryptedUploadResponse(b []byte) (*EncryptedUploadResponse, error) {
	var m EncryptedUploadResponse
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 && typ == protowire.BytesType {
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return n, nil
			}
			m.Error = v
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}
