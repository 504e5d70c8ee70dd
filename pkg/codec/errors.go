package codec

import (
	"errors"
	"fmt"
)

// Error kinds reported by the codec. Every error returned from this package
// and from pkg/png wraps exactly one of these, so callers can branch with
// errors.Is.
var (
	ErrInvalidLength    = errors.New("chunk type must be 4 bytes long")
	ErrInvalidTag       = errors.New("chunk type bytes must be ASCII alphabetic")
	ErrTruncated        = errors.New("not enough bytes")
	ErrChecksumMismatch = errors.New("CRC mismatch")
	ErrBadSignature     = errors.New("bad signature")
	ErrTrailingBytes    = errors.New("trailing bytes")
	ErrNotUTF8          = errors.New("data is not valid UTF-8")
	ErrNotFound         = errors.New("chunk not found")
)

// DecodeError carries the position and values involved in a decode failure.
type DecodeError struct {
	Kind     error  // one of the Err* sentinels
	Field    string // "length", "type", "data", "crc", "signature", ...
	Offset   int    // byte offset of the field within the decoded buffer
	Expected uint64
	Actual   uint64
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case ErrTruncated:
		return fmt.Sprintf("%s at offset %d: %v (need %d, have %d)", e.Field, e.Offset, e.Kind, e.Expected, e.Actual)
	case ErrChecksumMismatch:
		return fmt.Sprintf("%v at offset %d: %d != %d", e.Kind, e.Offset, e.Actual, e.Expected)
	case ErrTrailingBytes:
		return fmt.Sprintf("%v at offset %d: %d bytes left over", e.Kind, e.Offset, e.Actual)
	}
	return fmt.Sprintf("%s at offset %d: %v", e.Field, e.Offset, e.Kind)
}

func (e *DecodeError) Unwrap() error {
	return e.Kind
}

// WithOffset returns a copy of err shifted by base bytes when err is a
// *DecodeError, and err unchanged otherwise.
func WithOffset(err error, base int) error {
	var de *DecodeError
	if !errors.As(err, &de) {
		return err
	}
	shifted := *de
	shifted.Offset += base
	return &shifted
}
