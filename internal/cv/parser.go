package cv

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"talentscan/internal/apperr"
)

type CVParser struct {
	uploadsDir string
}

// ParsedCV is an upload spooled to disk together with its extracted text.
// Close removes the temporary file.
type ParsedCV struct {
	Filename  string
	MediaType string
	FileSize  int64
	FullText  string
	Path      string
}

func NewCVParser(uploadsDir string) *CVParser {
	return &CVParser{
		uploadsDir: uploadsDir,
	}
}

// ParseFile saves reader to a temporary file under the uploads directory and extracts its text.
// The media type is checked before anything is written. On error the file is already removed.
func (p *CVParser) ParseFile(filename, mediaType string, reader io.Reader) (_ *ParsedCV, err error) {
	if !Supported(mediaType) {
		return nil, apperr.Newf(apperr.KindUnsupportedMediaType, "unsupported media type %q (supported: PDF, DOCX)", mediaType)
	}

	if err := os.MkdirAll(p.uploadsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir: %w", err)
	}

	base := filepath.Base(filename)
	file, err := os.CreateTemp(p.uploadsDir, "resume-*"+strings.ToLower(filepath.Ext(base)))
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()
	defer func() {
		if err != nil {
			os.Remove(file.Name())
		}
	}()

	size, err := io.Copy(file, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	text, err := extractText(file, size, mediaType)
	if err != nil {
		return nil, err
	}

	return &ParsedCV{
		Filename:  base,
		MediaType: NormalizeMediaType(mediaType),
		FileSize:  size,
		FullText:  text,
		Path:      file.Name(),
	}, nil
}

// Open reopens the spooled document for reading.
func (c *ParsedCV) Open() (*os.File, error) {
	return os.Open(c.Path)
}

// Close discards the spooled document.
func (c *ParsedCV) Close() error {
	if c == nil || c.Path == "" {
		return nil
	}
	err := os.Remove(c.Path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
