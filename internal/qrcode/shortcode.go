package qrcode

import (
	"regexp"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const ShortCodeLength = 8

// Codes are nanoid's URL-safe alphabet. Older links may carry other lengths,
// so resolution only checks the character set and an upper bound.
var shortCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

func NewShortCode() (string, error) {
	return gonanoid.New(ShortCodeLength)
}

func ValidShortCode(code string) bool {
	return shortCodePattern.MatchString(code)
}
