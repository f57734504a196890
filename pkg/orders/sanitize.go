package orders

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxUtteranceBytes bounds a single customer utterance.
const MaxUtteranceBytes = 4096

var (
	// ErrInputTooLarge rejects utterances over MaxUtteranceBytes.
	ErrInputTooLarge = errors.New("utterance exceeds maximum allowed size")

	// ErrInvalidUTF8 rejects utterances that are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("utterance contains invalid UTF-8 sequences")
)

// SanitizeInput turns raw host input into a one-line utterance: line breaks and tabs
// become single spaces, other control characters (ESC, NUL, BEL...) are dropped and
// the result is trimmed. Oversized or malformed input is rejected, not truncated,
// since a truncated utterance may classify differently.
func SanitizeInput(input string) (string, error) {
	if len(input) > MaxUtteranceBytes {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), MaxUtteranceBytes)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	var b strings.Builder
	b.Grow(len(input))
	pendingSpace := false
	for _, r := range input {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
		case unicode.IsControl(r):
			// dropped
		default:
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}
