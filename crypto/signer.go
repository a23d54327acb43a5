package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// dateLayout is the canonical UTC calendar date form, zero-padded.
	dateLayout = "2006-01-02"

	// secondsPerHourEpoch converts unix seconds to the one-hour epoch a
	// signature is valid in.
	secondsPerHourEpoch = 3600
)

var (
	// ErrInvalidSecret indicates the shared HMAC secret was not valid hex.
	ErrInvalidSecret = errors.New("invalid hmac secret")

	// ErrInvalidDate indicates a request date was not a UTC calendar date
	// of the form YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid request date")

	// ErrInvalidHour indicates a request hour was outside 00-23.
	ErrInvalidHour = errors.New("invalid request hour")
)

// Signer computes time-window HMAC-SHA256 signatures over retrieval
// requests. The signed message embeds the current one-hour epoch, which
// bounds replay validity without requiring session state. A Signer is
// immutable and safe for concurrent use.
type Signer struct {
	key  []byte
	time TimeProvider
}

// NewSigner creates a Signer from the shared secret in hex form.
func NewSigner(hexSecret string) (*Signer, error) {
	return NewSignerWithTimeProvider(hexSecret, DefaultTimeProvider{})
}

// NewSignerWithTimeProvider creates a Signer with an injected time source
// for deterministic signatures in tests.
func NewSignerWithTimeProvider(hexSecret string, tp TimeProvider) (*Signer, error) {
	key, err := hex.DecodeString(hexSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSecret, err)
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidSecret)
	}
	if tp == nil {
		tp = DefaultTimeProvider{}
	}
	return &Signer{key: key, time: tp}, nil
}

// SignDay signs a daily retrieval request for the given UTC date. The
// signed message is "<date>:<hourEpoch>".
func (s *Signer) SignDay(date string) (string, error) {
	if err := validateDate(date); err != nil {
		return "", err
	}
	message := fmt.Sprintf("%s:%d", date, s.hourEpoch())

	logrus.WithFields(logrus.Fields{
		"function": "SignDay",
		"package":  "crypto",
		"message":  message,
	}).Debug("Signing daily retrieval request")

	return s.sign(message), nil
}

// SignHour signs an hourly retrieval request for the given UTC date and
// hour. The signed message is "<date>:<hour>:<hourEpoch>" with the hour
// zero-padded to two digits.
func (s *Signer) SignHour(date string, hour int) (string, error) {
	if err := validateDate(date); err != nil {
		return "", err
	}
	if hour < 0 || hour > 23 {
		return "", fmt.Errorf("%w: %d", ErrInvalidHour, hour)
	}
	message := fmt.Sprintf("%s:%02d:%d", date, hour, s.hourEpoch())

	logrus.WithFields(logrus.Fields{
		"function": "SignHour",
		"package":  "crypto",
		"message":  message,
	}).Debug("Signing hourly retrieval request")

	return s.sign(message), nil
}

// hourEpoch returns the number of whole hours since the unix epoch.
func (s *Signer) hourEpoch() int64 {
	return s.time.Now().Unix() / secondsPerHourEpoch
}

// sign computes the lowercase hex HMAC-SHA256 digest of the message.
func (s *Signer) sign(message string) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

// validateDate rejects anything that is not a canonical YYYY-MM-DD UTC
// calendar date. Malformed dates are a caller contract violation.
func validateDate(date string) error {
	if len(date) != len(dateLayout) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}
