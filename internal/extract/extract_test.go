package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"resume-ats/internal/shared/storage/object"
	"resume-ats/internal/shared/storage/object/local"
)

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry: %v", err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

const documentXML = `<?xml version="1.0" encoding="UTF-8"?>` +
	`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
	`<w:p><w:r><w:t>EXPERIENCE</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>Developed Go services</w:t></w:r></w:p>` +
	`</w:body></w:document>`

func TestFromBytes_ZipDocxNormalizes(t *testing.T) {
	data := buildZip(t, map[string]string{"word/document.xml": documentXML})

	text, format, err := FromBytes(context.Background(), data, "application/zip", "resume.docx")
	if err != nil {
		t.Fatalf("expected docx to extract from zip mime, got error: %v", err)
	}
	if format != FormatDOCX {
		t.Fatalf("expected docx format, got %q", format)
	}
	if text != "EXPERIENCE\nDeveloped Go services" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestFromBytes_RealZipRejected(t *testing.T) {
	data := buildZip(t, map[string]string{"notes.txt": "hello"})

	_, _, err := FromBytes(context.Background(), data, "application/zip", "notes.zip")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestFromBytes_PlainText(t *testing.T) {
	text, format, err := FromBytes(context.Background(), []byte("SKILLS\nGo, SQL"), "text/plain; charset=utf-8", "resume.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if format != FormatTXT || text != "SKILLS\nGo, SQL" {
		t.Fatalf("unexpected result %q / %q", format, text)
	}
}

func TestFromBytes_OctetStreamFallsBackToExtension(t *testing.T) {
	if _, format, err := FromBytes(context.Background(), []byte("plain words"), "application/octet-stream", "cv.TXT"); err != nil || format != FormatTXT {
		t.Fatalf("expected txt via extension, got %q / %v", format, err)
	}
	if _, _, err := FromBytes(context.Background(), []byte("MZ\x90\x00"), "application/octet-stream", "cv.exe"); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestFromBytes_EmptyText(t *testing.T) {
	_, _, err := FromBytes(context.Background(), []byte("   \n "), "text/plain", "blank.txt")
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestExtractTextStoresDerivedCopy(t *testing.T) {
	ctx := context.Background()
	store := local.New(t.TempDir())
	obj, err := store.Save(ctx, "session", "resume.txt", strings.NewReader("SUMMARY\nBackend engineer"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	text, err := ExtractText(ctx, store, obj.Key, obj.MimeType, "resume.txt")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "SUMMARY\nBackend engineer" {
		t.Fatalf("unexpected text %q", text)
	}
	rc, err := store.Open(ctx, object.DerivedTextKey(obj.Key))
	if err != nil {
		t.Fatalf("expected derived text to be stored: %v", err)
	}
	_ = rc.Close()
}

func TestDetectFormat(t *testing.T) {
	docx := buildZip(t, map[string]string{"word/document.xml": documentXML})
	tests := []struct {
		name     string
		mimeType string
		fileName string
		data     []byte
		want     Format
		wantErr  bool
	}{
		{name: "declared pdf", mimeType: "application/pdf", fileName: "cv", want: FormatPDF},
		{name: "pdf magic without type", fileName: "upload.bin", data: []byte("%PDF-1.7\n"), want: FormatPDF},
		{name: "docx declared as octet stream", mimeType: "application/octet-stream", fileName: "cv", data: docx, want: FormatDOCX},
		{name: "markdown extension", fileName: "cv.md", data: []byte("# Jane"), want: FormatTXT},
		{name: "txt extension with binary body", fileName: "cv.txt", data: []byte{0xff, 0xfe, 0x00}, wantErr: true},
		{name: "declared image", mimeType: "image/png", fileName: "cv.png", wantErr: true},
		{name: "legacy word", mimeType: "application/msword", fileName: "cv.doc", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.mimeType, tt.fileName, tt.data)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupported) {
					t.Fatalf("expected ErrUnsupported, got %v (%q)", err, got)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("expected %q, got %q (err %v)", tt.want, got, err)
			}
		})
	}
}

func TestWordprocessingTextBreaksAndTabs(t *testing.T) {
	xmlBody := `<w:document xmlns:w="w"><w:body>` +
		`<w:p><w:r><w:t>SKILLS</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Go</w:t><w:tab/><w:t>SQL</w:t><w:br/><w:t>Docker</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	data := buildZip(t, map[string]string{"word/document.xml": xmlBody})

	text, _, err := FromBytes(context.Background(), data, "", "cv.docx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "SKILLS\nGo SQL\nDocker" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestCleanTextKeepsLines(t *testing.T) {
	in := "\ufeffJane Doe  \r\nWORK\u00a0HISTORY\r\nGo engineer\u200b\t\n\n"
	if got := cleanText(in); got != "Jane Doe\nWORK HISTORY\nGo engineer" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestFromBytesCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := FromBytes(ctx, []byte("text"), "text/plain", "cv.txt"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
