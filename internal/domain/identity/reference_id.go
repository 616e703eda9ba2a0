package identity

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"unicode"
)

const (
	defaultLocationCode = "XXX"
	locationCodeLength  = 3
	suffixRange         = 1000000
)

// referenceIDPattern accepts generated IDs ("JD-MAN-042917") as well as the
// older hand-assigned ones: letters, digits and dashes, 3 to 64 characters.
var referenceIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]{1,62}[A-Za-z0-9]$`)

// ValidReferenceID reports whether s is shaped like a reference ID
func ValidReferenceID(s string) bool {
	return referenceIDPattern.MatchString(s)
}

// RandomSource yields the numeric suffix of a reference ID
type RandomSource interface {
	IntN(n int) int
}

type defaultRandom struct{}

func (defaultRandom) IntN(n int) int { return rand.IntN(n) }

// DefaultRandom draws from math/rand/v2's global generator
var DefaultRandom RandomSource = defaultRandom{}

// GenerateReferenceID builds an agent reference ID from the name initials, a
// location code and a random six digit suffix, e.g. "JD-MAN-042917".
func GenerateReferenceID(firstname, lastname, location string, rnd RandomSource) string {
	if rnd == nil {
		rnd = DefaultRandom
	}
	return fmt.Sprintf("%s-%s-%06d", initials(firstname, lastname), LocationCode(location), rnd.IntN(suffixRange))
}

// LocationCode keeps the first three letters of location, uppercased
func LocationCode(location string) string {
	var b strings.Builder
	for _, r := range location {
		if b.Len() >= locationCodeLength {
			break
		}
		if unicode.IsLetter(r) && r < unicode.MaxASCII {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	if b.Len() == 0 {
		return defaultLocationCode
	}
	return b.String()
}

func initials(names ...string) string {
	var b strings.Builder
	for _, name := range names {
		for _, r := range strings.TrimSpace(name) {
			if unicode.IsLetter(r) {
				b.WriteRune(unicode.ToUpper(r))
				break
			}
		}
	}
	if b.Len() == 0 {
		return "X"
	}
	return b.String()
}
