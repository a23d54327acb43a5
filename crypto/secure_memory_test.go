package crypto

import (
	"testing"

	"github.com/exposurekit/backend/limits"
)

func TestSecureWipe(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	if err := SecureWipe(data); err != nil {
		t.Fatalf("SecureWipe() error: %v", err)
	}
	for i, b := range data {
		if b != 0 {
			t.Errorf("byte %d not zeroed: %d", i, b)
		}
	}

	if err := SecureWipe(nil); err == nil {
		t.Error("SecureWipe(nil) expected error")
	}
}

func TestWipeKeyPair(t *testing.T) {
	var seed [limits.SeedLength]byte
	copy(seed[:], testSeed(20))
	kp, err := DeriveKeyPair(seed)
	if err != nil {
		t.Fatalf("DeriveKeyPair() error: %v", err)
	}

	if err := WipeKeyPair(kp); err != nil {
		t.Fatalf("WipeKeyPair() error: %v", err)
	}
	if !isZeroKey(kp.Private) {
		t.Error("WipeKeyPair() did not zero the private key")
	}

	if err := WipeKeyPair(nil); err == nil {
		t.Error("WipeKeyPair(nil) expected error")
	}
}
