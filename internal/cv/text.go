package cv

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"

	"talentscan/internal/apperr"
)

const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// NormalizeMediaType lowercases mt and drops any parameters.
func NormalizeMediaType(mt string) string {
	if parsed, _, err := mime.ParseMediaType(mt); err == nil {
		return parsed
	}
	return strings.ToLower(strings.TrimSpace(mt))
}

// Supported reports whether mt is a resume format we can read.
func Supported(mt string) bool {
	switch NormalizeMediaType(mt) {
	case MediaTypePDF, MediaTypeDOCX:
		return true
	}
	return false
}

// MediaTypeByFilename guesses the media type of a local resume from its extension.
func MediaTypeByFilename(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return MediaTypePDF
	case ".docx":
		return MediaTypeDOCX
	}
	return mime.TypeByExtension(filepath.Ext(name))
}

// ExtractText returns the plain text of a PDF or DOCX document held in memory.
func ExtractText(data []byte, mediaType string) (string, error) {
	return extractText(bytes.NewReader(data), int64(len(data)), mediaType)
}

func extractText(r io.ReaderAt, size int64, mediaType string) (string, error) {
	var (
		text string
		err  error
	)
	switch NormalizeMediaType(mediaType) {
	case MediaTypePDF:
		text, err = pdfText(r, size)
	case MediaTypeDOCX:
		text, err = docxText(r, size)
	default:
		return "", apperr.Newf(apperr.KindUnsupportedMediaType, "unsupported media type %q (supported: PDF, DOCX)", mediaType)
	}
	if err != nil {
		return "", apperr.Wrap(apperr.KindExtraction, err, "failed to read document")
	}

	text = normalizeText(text)
	if text == "" {
		return "", apperr.New(apperr.KindExtraction, "document contains no extractable text")
	}
	return text, nil
}

func pdfText(r io.ReaderAt, size int64) (text string, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("parse pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting plain text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("reading text buffer: %w", err)
	}
	return buf.String(), nil
}

func docxText(r io.ReaderAt, size int64) (string, error) {
	body, _, err := docconv.ConvertDocx(io.NewSectionReader(r, 0, size))
	if err != nil {
		return "", fmt.Errorf("convert docx: %w", err)
	}
	return body, nil
}

// normalizeText trims every line and drops blank ones, so paragraphs end up newline-joined.
func normalizeText(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
