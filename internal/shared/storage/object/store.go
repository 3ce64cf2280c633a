package object

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-ats/internal/shared/util"
)

// Object describes a stored résumé upload.
type Object struct {
	Key      string
	Size     int64
	MimeType string
}

// ObjectStore keeps uploaded résumés and the text extracted from them.
type ObjectStore interface {
	// Save stores an upload under UploadKey and sniffs its MIME type.
	Save(ctx context.Context, namespace string, fileName string, r io.Reader) (Object, error)
	// Put writes r at an exact key.
	Put(ctx context.Context, key string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// uploadRoot is the top-level prefix for every original upload.
const uploadRoot = "resumes"

// UploadKey builds resumes/YYYY/MM/DD/<namespace hash>/<uuid>-<file name>.
// The namespace (a session ID or "anonymous") is hashed so keys never carry it.
func UploadKey(now time.Time, namespace, fileName string) (string, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	if strings.TrimSpace(namespace) == "" {
		namespace = "anonymous"
	}
	return path.Join(
		uploadRoot,
		now.UTC().Format("2006/01/02"),
		util.Fingerprint(namespace)[:16],
		uuid.NewString()+"-"+name,
	), nil
}

// DerivedTextKey is where the extracted plain text of an upload is kept.
func DerivedTextKey(key string) string {
	return key + ".extracted.txt"
}

// Sniff detects the MIME type from the first 512 bytes of r and returns a
// reader that replays them ahead of the rest.
func Sniff(r io.Reader) (string, io.Reader, error) {
	var head [512]byte
	n, err := io.ReadFull(r, head[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, fmt.Errorf("read sniff: %w", err)
	}
	return http.DetectContentType(head[:n]), io.MultiReader(bytes.NewReader(head[:n]), r), nil
}
