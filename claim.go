package backend

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/exposurekit/backend/crypto"
	"github.com/exposurekit/backend/limits"
	"github.com/exposurekit/backend/wire"
)

// ClaimOneTimeCode exchanges a human-entered one-time code for a confirmed
// SubmissionKeySet. Each call is an independent session: a fresh ephemeral
// key pair is derived from 32 bytes of the injected random source, and no
// result is ever cached. Whether a code is single-use is server policy.
func (c *Client) ClaimOneTimeCode(ctx context.Context, code string) (*SubmissionKeySet, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: empty one-time code", ErrInvalidArgument)
	}

	logrus.WithFields(logrus.Fields{
		"function": "ClaimOneTimeCode",
		"package":  "backend",
	}).Debug("Claiming one-time code")

	keyPair, err := crypto.GenerateKeyPair(c.random)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCrypto, err)
	}

	req := wire.KeyClaimRequest{
		OneTimeCode:  code,
		AppPublicKey: keyPair.Public[:],
	}

	respBytes, err := c.fetcher.Post(ctx, c.submitURL+"/claim-key", req.Marshal())
	if err != nil {
		crypto.WipeKeyPair(keyPair)
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	resp, err := wire.UnmarshalKeyClaimResponse(respBytes)
	if err != nil {
		crypto.WipeKeyPair(keyPair)
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	if resp.Error != "" {
		crypto.WipeKeyPair(keyPair)
		logrus.WithFields(logrus.Fields{
			"function": "ClaimOneTimeCode",
			"package":  "backend",
			"code":     resp.Error,
		}).Warn("Server rejected one-time code")
		return nil, &KeyClaimError{Code: resp.Error}
	}

	serverPublic, err := limits.IntoKey(resp.ServerPublicKey)
	if err != nil {
		crypto.WipeKeyPair(keyPair)
		return nil, fmt.Errorf("%w: server public key: %w", ErrDecode, err)
	}

	keySet := &SubmissionKeySet{
		ServerPublic: *serverPublic,
		AppPublic:    keyPair.Public,
		AppPrivate:   keyPair.Private,
	}
	crypto.WipeKeyPair(keyPair)

	logrus.WithFields(logrus.Fields{
		"function": "ClaimOneTimeCode",
		"package":  "backend",
	}).Debug("One-time code claim confirmed")

	return keySet, nil
}
