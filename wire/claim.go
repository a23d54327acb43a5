package wire

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrMalformedMessage indicates a wire message could not be decoded. No
// partial interpretation of a malformed message is attempted.
var ErrMalformedMessage = errors.New("malformed wire message")

// KeyClaimRequest exchanges a one-time code for a key pair binding.
//
//	string one_time_code  = 1;
//	bytes  app_public_key = 2;
type KeyClaimRequest struct {
	OneTimeCode  string
	AppPublicKey []byte
}

// Marshal encodes the request to its wire form.
func (m *KeyClaimRequest) Marshal() []byte {
	var b []byte
	if m.OneTimeCode != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, m.OneTimeCode)
	}
	if len(m.AppPublicKey) > 0 {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, m.AppPublicKey)
	}
	return b
}

// UnmarshalKeyClaimRequest decodes a claim request from its wire form.
func UnmarshalKeyClaimRequest(b []byte) (*KeyClaimRequest, error) {
	var m KeyClaimRequest
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return n, nil
			}
			m.OneTimeCode = v
			return n, nil
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			m.AppPublicKey = append([]byte(nil), v...)
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// KeyClaimResponse carries the server's half of the key pair binding, or a
// rejection reason for the one-time code.
//
//	string error             = 1;
//	bytes  server_public_key = 2;
type KeyClaimResponse struct {
	Error           string
	ServerPublicKey []byte
}

// Marshal encodes the response to its wire form.
func (m *KeyClaimResponse) Marshal() []byte {
	var b []byte
	if m.Error != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, m.Error)
	}
	if len(m.ServerPublicKey) > 0 {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, m.ServerPublicKey)
	}
	return b
}

// UnmarshalKeyClaimResponse decodes a claim response from its wire form.
func UnmarshalKeyClaimResponse(b []byte) (*KeyClaimResponse, error) {
	var m KeyClaimResponse
	err := walkFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return n, nil
			}
			m.Error = v
			return n, nil
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			m.ServerPublicKey = append([]byte(nil), v...)
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// walkFields iterates the top-level fields of a wire message, dispatching
// each to fn. fn returns the number of value bytes consumed; a negative
// count aborts the walk as a parse failure.
func walkFields(b []byte, fn func(num protowire.Number, typ protowire.Type, b []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrMalformedMessage, protowire.ParseError(n))
		}
		b = b[n:]

		n, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("%w: field %d: %v", ErrMalformedMessage, num, protowire.ParseError(n))
		}
		b = b[n:]
	}
	return nil
}
