package util

import (
	"errors"
	"strings"
)

// ErrInvalidFileName is returned when nothing usable remains of a file name.
var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName makes a client-supplied file name safe to embed in an object key:
// path separators and control characters are replaced so the name stays a single segment.
func SanitizeFileName(name string) (string, error) {
	s := strings.TrimSpace(name)
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case r < 0x20 || r == 0x7f:
			return -1
		default:
			return r
		}
	}, s)
	if s == "" || strings.Trim(s, ".") == "" {
		return "", ErrInvalidFileName
	}
	return s, nil
}
