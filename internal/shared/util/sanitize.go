package util

import (
	"errors"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrInvalidFileName is returned for names that are empty or try to escape a directory.
var ErrInvalidFileName = errors.New("invalid file name")

// maxFileNameRunes bounds stored names; longer names keep their extension.
const maxFileNameRunes = 120

// SanitizeFileName flattens path separators, drops control characters and
// caps the length of an uploaded file name.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidFileName
	}
	if utf8.RuneCountInString(s) > maxFileNameRunes {
		ext := path.Ext(s)
		if utf8.RuneCountInString(ext) > 10 {
			ext = ""
		}
		base := []rune(strings.TrimSuffix(s, ext))
		s = string(base[:maxFileNameRunes-utf8.RuneCountInString(ext)]) + ext
	}
	return s, nil
}
