package util

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFingerprint(t *testing.T) {
	text := "Senior Go engineer, 5+ years experience"
	got := Fingerprint(text)
	if got != Fingerprint(text) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
	if got == Fingerprint(text+" ") {
		t.Fatalf("expected different texts to differ")
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "resume.pdf", want: "resume.pdf"},
		{in: " cv/2024.docx ", want: "cv_2024.docx"},
		{in: `dir\cv.txt`, want: "dir_cv.txt"},
		{in: "cv\x00\tfinal.pdf", want: "cvfinal.pdf"},
		{in: "Résumé.pdf", want: "Résumé.pdf"},
		{in: "../etc/passwd", wantErr: true},
		{in: "   ", wantErr: true},
	}
	for _, tc := range cases {
		got, err := SanitizeFileName(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("expected error for %q", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("expected %q, got %q (err %v)", tc.want, got, err)
		}
	}
}

func TestSanitizeFileNameCapsLength(t *testing.T) {
	got, err := SanitizeFileName(strings.Repeat("é", 300) + ".docx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if utf8.RuneCountInString(got) != maxFileNameRunes || !strings.HasSuffix(got, ".docx") {
		t.Fatalf("expected %d runes ending in .docx, got %d (%q)", maxFileNameRunes, utf8.RuneCountInString(got), got[len(got)-8:])
	}
	if _, err := SanitizeFileName("../x"); !errors.Is(err, ErrInvalidFileName) {
		t.Fatalf("expected ErrInvalidFileName, got %v", err)
	}
}
