package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
	"time"
)

// referenceMAC computes the expected lowercase hex HMAC-SHA256 digest for a
// message with an independent construction of the keyed hash.
func referenceMAC(key []byte, message string) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestSignHourKnownVector(t *testing.T) {
	// Hour epoch for unix 1615819200 is 1615819200/3600 = 448838, so the
	// hourly message for 2021-03-15 14h must be exactly this string.
	const wantMessage = "2021-03-15:14:448838"

	signer, err := NewSignerWithTimeProvider("abc123",
		FixedTimeProvider{At: time.Unix(1615819200, 0).UTC()})
	if err != nil {
		t.Fatalf("NewSignerWithTimeProvider() error: %v", err)
	}

	sig, err := signer.SignHour("2021-03-15", 14)
	if err != nil {
		t.Fatalf("SignHour() error: %v", err)
	}

	want := referenceMAC([]byte{0xab, 0xc1, 0x23}, wantMessage)
	if sig != want {
		t.Errorf("SignHour() = %s, want %s", sig, want)
	}

	if sig != strings.ToLower(sig) {
		t.Error("SignHour() output was not lowercase hex")
	}
}

func TestSignDayKnownVector(t *testing.T) {
	signer, err := NewSignerWithTimeProvider("abc123",
		FixedTimeProvider{At: time.Unix(1615819200, 0).UTC()})
	if err != nil {
		t.Fatalf("NewSignerWithTimeProvider() error: %v", err)
	}

	sig, err := signer.SignDay("2021-03-15")
	if err != nil {
		t.Fatalf("SignDay() error: %v", err)
	}

	want := referenceMAC([]byte{0xab, 0xc1, 0x23}, "2021-03-15:448838")
	if sig != want {
		t.Errorf("SignDay() = %s, want %s", sig, want)
	}
}

func TestSignDeterministicWithinEpoch(t *testing.T) {
	// Two instants inside the same hour window must sign identically.
	base := time.Unix(1615819200, 0).UTC()
	s1, _ := NewSignerWithTimeProvider("deadbeef", FixedTimeProvider{At: base})
	s2, _ := NewSignerWithTimeProvider("deadbeef", FixedTimeProvider{At: base.Add(59 * time.Minute)})

	sig1, err := s1.SignDay("2021-03-15")
	if err != nil {
		t.Fatalf("SignDay() error: %v", err)
	}
	sig2, err := s2.SignDay("2021-03-15")
	if err != nil {
		t.Fatalf("SignDay() error: %v", err)
	}

	if sig1 != sig2 {
		t.Error("signatures within the same hour epoch differ")
	}
}

func TestSignDiffersAcrossEpochs(t *testing.T) {
	base := time.Unix(1615819200, 0).UTC()
	s1, _ := NewSignerWithTimeProvider("deadbeef", FixedTimeProvider{At: base})
	s2, _ := NewSignerWithTimeProvider("deadbeef", FixedTimeProvider{At: base.Add(time.Hour)})

	sig1, _ := s1.SignDay("2021-03-15")
	sig2, _ := s2.SignDay("2021-03-15")

	if sig1 == sig2 {
		t.Error("signatures across different hour epochs collide")
	}
}

func TestSignDiffersAcrossSecrets(t *testing.T) {
	at := FixedTimeProvider{At: time.Unix(1615819200, 0).UTC()}
	s1, _ := NewSignerWithTimeProvider("deadbeef", at)
	s2, _ := NewSignerWithTimeProvider("cafe0123", at)

	sig1, _ := s1.SignDay("2021-03-15")
	sig2, _ := s2.SignDay("2021-03-15")

	if sig1 == sig2 {
		t.Error("signatures under different secrets collide")
	}
}

func TestSignDayAndHourNeverCollide(t *testing.T) {
	at := FixedTimeProvider{At: time.Unix(1615819200, 0).UTC()}
	signer, _ := NewSignerWithTimeProvider("deadbeef", at)

	daily, _ := signer.SignDay("2021-03-15")
	for hour := 0; hour < 24; hour++ {
		hourly, err := signer.SignHour("2021-03-15", hour)
		if err != nil {
			t.Fatalf("SignHour(%d) error: %v", hour, err)
		}
		if hourly == daily {
			t.Errorf("hourly signature for hour %d collides with daily signature", hour)
		}
	}
}

func TestSignInvalidInputs(t *testing.T) {
	signer, _ := NewSigner("deadbeef")

	cases := []struct {
		name string
		date string
		want error
	}{
		{name: "Empty date", date: "", want: ErrInvalidDate},
		{name: "Unpadded date", date: "2021-3-15", want: ErrInvalidDate},
		{name: "Not a date", date: "yesterday..", want: ErrInvalidDate},
		{name: "Out of range day", date: "2021-02-31", want: ErrInvalidDate},
		{name: "Trailing garbage", date: "2021-03-15T00:00:00Z", want: ErrInvalidDate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := signer.SignDay(tc.date); !errors.Is(err, tc.want) {
				t.Errorf("SignDay(%q) error = %v, want %v", tc.date, err, tc.want)
			}
		})
	}

	if _, err := signer.SignHour("2021-03-15", -1); !errors.Is(err, ErrInvalidHour) {
		t.Errorf("SignHour(-1) error = %v, want ErrInvalidHour", err)
	}
	if _, err := signer.SignHour("2021-03-15", 24); !errors.Is(err, ErrInvalidHour) {
		t.Errorf("SignHour(24) error = %v, want ErrInvalidHour", err)
	}
}

func TestNewSignerRejectsBadSecret(t *testing.T) {
	if _, err := NewSigner("not hex!"); !errors.Is(err, ErrInvalidSecret) {
		t.Errorf("NewSigner(non-hex) error = %v, want ErrInvalidSecret", err)
	}
	if _, err := NewSigner("abc"); !errors.Is(err, ErrInvalidSecret) {
		t.Errorf("NewSigner(odd length) error = %v, want ErrInvalidSecret", err)
	}
	if _, err := NewSigner(""); !errors.Is(err, ErrInvalidSecret) {
		t.Errorf("NewSigner(empty) error = %v, want ErrInvalidSecret", err)
	}
}
