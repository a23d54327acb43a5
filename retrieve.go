package backend

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/exposurekit/backend/transport"
)

// RetrieveDiagnosisKeysByDay fetches the diagnosis key files for a full UTC
// calendar day ("YYYY-MM-DD"). The request is authenticated by an HMAC
// bound to the current one-hour window; a request near a window boundary
// may be rejected once the window rolls over, in which case calling again
// signs with the fresh window. No internal retry is performed.
func (c *Client) RetrieveDiagnosisKeysByDay(ctx context.Context, date string) ([]transport.DiagnosisKeyFile, error) {
	sig, err := c.signer.SignDay(date)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	url := fmt.Sprintf("%s/retrieve-day/%s/%s", c.retrieveURL, date, sig)

	logrus.WithFields(logrus.Fields{
		"function": "RetrieveDiagnosisKeysByDay",
		"package":  "backend",
		"date":     date,
	}).Debug("Retrieving daily diagnosis keys")

	files, err := c.downloader.Download(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return files, nil
}

// RetrieveDiagnosisKeysByHour fetches the diagnosis key files for a single
// UTC hour (0-23) of the given day.
func (c *Client) RetrieveDiagnosisKeysByHour(ctx context.Context, date string, hour int) ([]transport.DiagnosisKeyFile, error) {
	sig, err := c.signer.SignHour(date, hour)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	url := fmt.Sprintf("%s/retrieve-hour/%s/%02d/%s", c.retrieveURL, date, hour, sig)

	logrus.WithFields(logrus.Fields{
		"function": "RetrieveDiagnosisKeysByHour",
		"package":  "backend",
		"date":     date,
		"hour":     hour,
	}).Debug("Retrieving hourly diagnosis keys")

	files, err := c.downloader.Download(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return files, nil
}

// GetExposureConfiguration fetches the static per-region exposure scoring
// configuration. The endpoint is unauthenticated and the document is
// returned opaque.
func (c *Client) GetExposureConfiguration(ctx context.Context) ([]byte, error) {
	url := fmt.Sprintf("%s/config/%s/exposure.json", c.retrieveURL, c.region)

	data, err := c.fetcher.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return data, nil
}
