package family

import (
	"strings"
	"testing"
)

func TestGenerateCodeShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := GenerateCode()
		if len(code) != codeLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), codeLength)
		}
		for _, c := range code {
			if !strings.ContainsRune(codeAlphabet, c) {
				t.Fatalf("code %q contains invalid character %q", code, c)
			}
		}
		seen[code] = true
	}
	// Pure sanity: 100 draws from a 36^6 space should not all collide.
	if len(seen) < 2 {
		t.Error("expected some variety across generated codes")
	}
}

func TestValidatePin(t *testing.T) {
	valid := []string{"0000", "1234", "9999"}
	for _, pin := range valid {
		if !ValidatePin(pin) {
			t.Errorf("ValidatePin(%q) = false, want true", pin)
		}
	}

	invalid := []string{"", "123", "12345", "abcd", "12a4", " 1234", "1234 ", "12.4"}
	for _, pin := range invalid {
		if ValidatePin(pin) {
			t.Errorf("ValidatePin(%q) = true, want false", pin)
		}
	}
}
