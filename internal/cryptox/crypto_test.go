package cryptox

import (
	"encoding/hex"
	"testing"
)

func TestMakeRandHexString(t *testing.T) {
	s1, err := MakeRandHexString(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s2, err := MakeRandHexString(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(s1) != 64 {
		t.Errorf("len = %d, want 64", len(s1))
	}
	if _, err := hex.DecodeString(s1); err != nil {
		t.Errorf("not hex: %v", err)
	}
	if s1 == s2 {
		t.Errorf("expected different secrets, got the same twice")
	}
}

func TestMakeRandHexString_TooShort(t *testing.T) {
	if _, err := MakeRandHexString(MinSecretSize - 1); err == nil {
		t.Fatalf("expected error for short secret")
	}
}
