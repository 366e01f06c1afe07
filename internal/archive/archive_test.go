package archive

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"talentscan/internal/config"
)

type fakeUploader struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakeUploader) Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	f.input = input
	if input.Body != nil {
		b, _ := io.ReadAll(input.Body)
		f.body = string(b)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &manager.UploadOutput{}, nil
}

func TestObjectKey(t *testing.T) {
	tests := map[string]struct {
		id, filename, want string
	}{
		"plain":        {"7", "cv.pdf", "resumes/7/cv.pdf"},
		"path":         {"7", "/tmp/x/cv.docx", "resumes/7/cv.docx"},
		"windows path": {"abc", `C:\Users\jane\cv.pdf`, "resumes/abc/cv.pdf"},
		"empty":        {"7", "", "resumes/7/resume"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := ObjectKey(tt.id, tt.filename); got != tt.want {
				t.Errorf("want %s got %s", tt.want, got)
			}
		})
	}
}

func TestS3Archive_Put(t *testing.T) {
	up := &fakeUploader{}
	a := newS3Archive(up, "resumes-bucket", "us-east-2")

	url, err := a.Put(context.Background(), "42", "jane.pdf", "application/pdf", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if url != "https://resumes-bucket.s3.us-east-2.amazonaws.com/resumes/42/jane.pdf" {
		t.Errorf("unexpected url %s", url)
	}
	if aws.ToString(up.input.Bucket) != "resumes-bucket" || aws.ToString(up.input.Key) != "resumes/42/jane.pdf" {
		t.Errorf("unexpected input %s/%s", aws.ToString(up.input.Bucket), aws.ToString(up.input.Key))
	}
	if aws.ToString(up.input.ContentType) != "application/pdf" {
		t.Errorf("unexpected content type %s", aws.ToString(up.input.ContentType))
	}
	if up.body != "%PDF-1.4" {
		t.Errorf("unexpected body %q", up.body)
	}
}

func TestS3Archive_PutError(t *testing.T) {
	a := newS3Archive(&fakeUploader{err: errors.New("access denied")}, "b", "r")
	if _, err := a.Put(context.Background(), "1", "cv.pdf", "application/pdf", strings.NewReader("x")); err == nil {
		t.Fatal("expected error")
	}
}

func TestNew_WithoutBucketIsNoop(t *testing.T) {
	a, err := New(context.Background(), config.ArchiveConfig{}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := a.(Noop); !ok {
		t.Fatalf("expected Noop, got %T", a)
	}
}

func TestNew_RejectsPartialCredentials(t *testing.T) {
	_, err := New(context.Background(), config.ArchiveConfig{Bucket: "b", Region: "us-east-2", AccessKey: "AKIA"}, nil)
	if err == nil {
		t.Fatal("expected error for missing secret key")
	}
}
