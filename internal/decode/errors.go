// Package decode turns the binary dataset files into positions and adjacency
// maps. Both files are flat little-endian sequences of signed 32-bit integers.
package decode

import (
	"errors"
	"fmt"
)

// ErrDataMalformed is returned when a buffer violates a length or token
// invariant. Malformed input is rejected, never coerced.
var ErrDataMalformed = errors.New("data malformed")

// TokenError records the offending token of a link or position stream.
type TokenError struct {
	Offset int   // index of the token in the stream
	Token  int32 // raw token value
	Reason string
}

// Error returns the offset, value and reason.
func (e *TokenError) Error() string {
	return fmt.Sprintf("token %d (value %d): %s: %v", e.Offset, e.Token, e.Reason, ErrDataMalformed)
}

// Unwrap returns ErrDataMalformed for use with errors.Is.
func (e *TokenError) Unwrap() error {
	return ErrDataMalformed
}
