package backend

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/exposurekit/backend/crypto"
	"github.com/exposurekit/backend/limits"
	"github.com/exposurekit/backend/wire"
)

// ReportDiagnosisKeys serializes the ordered key batch into a canonical
// upload payload, seals it under a fresh single-use nonce with the
// submission key set, and POSTs the encrypted envelope. Encryption and
// transmission are one atomic client-side step; there are no partial
// uploads. An empty batch is valid and produces an empty-payload envelope.
func (c *Client) ReportDiagnosisKeys(ctx context.Context, keySet *SubmissionKeySet, keys []ExposureKey) (*wire.EncryptedUploadResponse, error) {
	if keySet == nil {
		return nil, fmt.Errorf("%w: nil submission key set", ErrInvalidArgument)
	}
	if err := limits.ValidateKeyCount(len(keys)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	logrus.WithFields(logrus.Fields{
		"function":  "ReportDiagnosisKeys",
		"package":   "backend",
		"key_count": len(keys),
	}).Debug("Building encrypted key upload")

	upload := wire.Upload{Timestamp: c.time.Now().Unix()}
	for i, k := range keys {
		raw, err := base64.StdEncoding.DecodeString(k.KeyData)
		if err != nil {
			return nil, fmt.Errorf("%w: key %d data: %v", ErrInvalidArgument, i, err)
		}
		if err := limits.ValidateKeyData(raw); err != nil {
			return nil, fmt.Errorf("%w: key %d: %w", ErrInvalidArgument, i, err)
		}
		upload.Keys = append(upload.Keys, wire.Key{
			KeyData:               raw,
			RollingStartNumber:    k.RollingStartNumber,
			TransmissionRiskLevel: uint32(k.TransmissionRiskLevel),
		})
	}

	// Seal operates on the fully marshalled byte form so the server can
	// decode exactly the byte stream that was encrypted.
	payload := upload.Marshal()

	nonce, err := crypto.GenerateNonce(c.random)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCrypto, err)
	}

	ciphertext := crypto.Seal(payload, nonce, keySet.ServerPublic, keySet.AppPrivate)

	envelope := wire.EncryptedUploadRequest{
		ServerPublicKey: keySet.ServerPublic[:],
		AppPublicKey:    keySet.AppPublic[:],
		Nonce:           nonce[:],
		Payload:         ciphertext,
	}

	respBytes, err := c.fetcher.Post(ctx, c.submitURL+"/upload", envelope.Marshal())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	ack, err := wire.UnmarshalEncryptedUploadResponse(respBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	if ack.Error != "" {
		logrus.WithFields(logrus.Fields{
			"function": "ReportDiagnosisKeys",
			"package":  "backend",
			"reason":   ack.Error,
		}).Warn("Server rejected key upload")
		return nil, &UploadRejectedError{Reason: ack.Error}
	}

	logrus.WithFields(logrus.Fields{
		"function":  "ReportDiagnosisKeys",
		"package":   "backend",
		"key_count": len(keys),
	}).Debug("Key upload acknowledged")

	return ack, nil
}
