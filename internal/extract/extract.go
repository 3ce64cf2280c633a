// Package extract turns uploaded résumé files (PDF, DOCX, plain text) into
// the plain text the analysis pipeline scores.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"resume-ats/internal/shared/storage/object"
)

// Format is a supported résumé file format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatTXT  Format = "txt"
)

// ErrUnsupported is returned for files that are not PDF, DOCX or plain text.
var ErrUnsupported = errors.New("unsupported file type")

// ErrEmpty is returned when a supported file yields no text.
var ErrEmpty = errors.New("no text could be extracted")

// ExtractText reads a stored upload, extracts its text and stores the text
// next to it under object.DerivedTextKey.
func ExtractText(ctx context.Context, store object.ObjectStore, key string, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	body, err := store.Open(ctx, key)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", key, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("extract %s: read: %w", key, err)
	}
	text, _, err := FromBytes(ctx, raw, mimeType, fileName)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", key, err)
	}
	if _, err := store.Put(ctx, object.DerivedTextKey(key), "text/plain; charset=utf-8", strings.NewReader(text)); err != nil {
		return "", fmt.Errorf("extract %s: save derived text: %w", key, err)
	}
	return text, nil
}

// FromBytes extracts text from an in-memory file and reports its format.
func FromBytes(ctx context.Context, data []byte, mimeType string, fileName string) (string, Format, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	format, err := DetectFormat(mimeType, fileName, data)
	if err != nil {
		return "", "", err
	}

	var text string
	switch format {
	case FormatPDF:
		text, err = pdfText(data)
	case FormatDOCX:
		text, err = docxText(data)
	default:
		text = string(data)
	}
	if err != nil {
		return "", format, fmt.Errorf("%s: %w", format, err)
	}
	text = cleanText(text)
	if text == "" {
		return "", format, ErrEmpty
	}
	return text, format, nil
}

// cleanText keeps line structure, which section detection depends on, while
// dropping invalid UTF-8, zero-width runes and trailing spaces.
func cleanText(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = strings.NewReplacer(
		"\r\n", "\n",
		"\r", "\n",
		"\u00a0", " ",
		"\u200b", "",
		"\ufeff", "",
	).Replace(s)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
