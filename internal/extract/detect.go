package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeText = "text/plain"
)

// DetectFormat decides the format from the declared MIME type, then the
// file's magic bytes, then its extension. Browsers often send DOCX as
// application/zip or application/octet-stream, so generic types are ignored.
func DetectFormat(mimeType string, fileName string, data []byte) (Format, error) {
	switch declared := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0])); declared {
	case mimePDF:
		return FormatPDF, nil
	case mimeDOCX:
		return FormatDOCX, nil
	case mimeText:
		return FormatTXT, nil
	case "", "application/zip", "application/octet-stream", "application/x-zip-compressed":
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, declared)
	}

	switch {
	case bytes.HasPrefix(data, []byte("%PDF")):
		return FormatPDF, nil
	case isWordZip(data):
		return FormatDOCX, nil
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".txt", ".text", ".md":
		if utf8.Valid(data) {
			return FormatTXT, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupported, fileName)
}

func isWordZip(data []byte) bool {
	if !bytes.HasPrefix(data, []byte("PK")) {
		return false
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	return findZipEntry(zr, docxBody) != nil
}

func findZipEntry(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == name {
			return f
		}
	}
	return nil
}
