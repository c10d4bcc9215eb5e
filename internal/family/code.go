package family

import (
	"crypto/rand"
	"regexp"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
)

var pinRegexp = regexp.MustCompile(`^\d{4}$`)

// ValidatePin reports whether the PIN is exactly four decimal digits.
func ValidatePin(pin string) bool {
	return pinRegexp.MatchString(pin)
}

// GenerateCode returns a random 6-character family code drawn from the
// uppercase-alphanumeric alphabet.
func GenerateCode() string {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand.Read does not fail on supported platforms
		panic(err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf)
}
