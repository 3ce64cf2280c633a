package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"resume-ats/internal/shared/storage/object"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "user/file.pdf", want: "user/file.pdf"},
		{name: "simple prefix", prefix: "root", key: "user/file.pdf", want: "root/user/file.pdf"},
		{name: "prefix trailing slash", prefix: "root/", key: "user/file.pdf", want: "root/user/file.pdf"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/user/file.pdf", want: "root/user/file.pdf"},
		{name: "nested prefix", prefix: "root/sub", key: "user/file.pdf", want: "root/sub/user/file.pdf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestNormalizePrefix(t *testing.T) {
	for raw, want := range map[string]string{
		"":              "",
		" resumes/ ":    "resumes",
		"/uploads/raw/": "uploads/raw",
	} {
		if got := normalizePrefix(raw); got != want {
			t.Fatalf("normalizePrefix(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), "us-east-1", "", "", ""); err == nil {
		t.Fatal("expected error without bucket")
	}
}

type fakeS3 struct {
	puts    []*s3.PutObjectInput
	bodies  map[string][]byte
	failPut error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.failPut != nil {
		return nil, f.failPut
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	if f.bodies == nil {
		f.bodies = map[string][]byte{}
	}
	f.bodies[aws.ToString(in.Key)] = data
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.bodies[aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestSaveUploadsWithPrefixAndKMS(t *testing.T) {
	client := &fakeS3{}
	store := newStore(client, "ats-uploads", "/prod/", "kms-key-1")
	store.now = func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	body := "%PDF-1.4 résumé bytes"
	obj, err := store.Save(ctx, "session-9", "Résumé.pdf", strings.NewReader(body))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if obj.Size != int64(len(body)) || obj.MimeType != "application/pdf" {
		t.Fatalf("unexpected object %+v", obj)
	}
	if len(client.puts) != 1 {
		t.Fatalf("expected one put, got %d", len(client.puts))
	}
	in := client.puts[0]
	if got := aws.ToString(in.Key); got != "prod/"+obj.Key || !strings.HasPrefix(obj.Key, "resumes/2026/10/18/") {
		t.Fatalf("unexpected object key %q (store key %q)", got, obj.Key)
	}
	if in.ServerSideEncryption != s3types.ServerSideEncryptionAwsKms || aws.ToString(in.SSEKMSKeyId) != "kms-key-1" {
		t.Fatalf("expected KMS encryption, got %q", in.ServerSideEncryption)
	}
	if in.Metadata["original-name"] != "R%C3%A9sum%C3%A9.pdf" {
		t.Fatalf("unexpected metadata %v", in.Metadata)
	}

	rc, err := store.Open(ctx, obj.Key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if string(got) != body {
		t.Fatalf("unexpected body %q", got)
	}
}

func TestPutDefaultsToAES256(t *testing.T) {
	client := &fakeS3{}
	store := newStore(client, "ats-uploads", "", "")

	n, err := store.Put(context.Background(), object.DerivedTextKey("resumes/x/cv.pdf"), "text/plain", strings.NewReader("text"))
	if err != nil || n != 4 {
		t.Fatalf("Put: n=%d err=%v", n, err)
	}
	if client.puts[0].ServerSideEncryption != s3types.ServerSideEncryptionAes256 {
		t.Fatalf("expected AES256, got %q", client.puts[0].ServerSideEncryption)
	}
}

func TestPutWrapsClientError(t *testing.T) {
	boom := errors.New("access denied")
	store := newStore(&fakeS3{failPut: boom}, "ats-uploads", "", "")
	_, err := store.Put(context.Background(), "k", "text/plain", strings.NewReader("x"))
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "bucket=ats-uploads") {
		t.Fatalf("expected wrapped client error, got %v", err)
	}
}
