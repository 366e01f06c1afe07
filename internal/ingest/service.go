package ingest

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"talentscan/internal/archive"
	"talentscan/internal/candidate"
	"talentscan/internal/cv"
)

// FieldExtractor turns resume text into candidate fields.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, text string) (candidate.Fields, error)
}

// CandidateWriter is the write side of the candidate store.
type CandidateWriter interface {
	StoreCandidate(ctx context.Context, fields candidate.Fields) (*candidate.Candidate, error)
}

// Parsed is the result of reading a resume without storing it.
type Parsed struct {
	Filename string           `json:"filename"`
	Text     string           `json:"text"`
	Fields   candidate.Fields `json:"fields"`
}

// Service runs the upload pipeline: text extraction, field extraction, store write, archive.
type Service struct {
	parser    *cv.CVParser
	extractor FieldExtractor
	store     CandidateWriter
	archive   archive.Archive
	log       *zap.Logger
}

func NewService(parser *cv.CVParser, extractor FieldExtractor, store CandidateWriter, arc archive.Archive, log *zap.Logger) *Service {
	if arc == nil {
		arc = archive.Noop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{parser: parser, extractor: extractor, store: store, archive: arc, log: log}
}

// Upload ingests one resume. Nothing is stored unless every step before the write succeeds.
func (s *Service) Upload(ctx context.Context, filename, mediaType string, body io.Reader) (*candidate.Candidate, error) {
	rid := uuid.NewString()
	start := time.Now()
	log := s.log.With(zap.String("req_id", rid), zap.String("filename", filename))

	parsed, err := s.parser.ParseFile(filename, mediaType, body)
	if err != nil {
		log.Warn("resume rejected", zap.Error(err))
		return nil, err
	}
	defer parsed.Close()

	log.Info("resume parsed", zap.Int64("size", parsed.FileSize), zap.Int("text_len", len(parsed.FullText)))

	fields, err := s.extractor.ExtractFields(ctx, parsed.FullText)
	if err != nil {
		log.Warn("field extraction failed", zap.Error(err))
		return nil, err
	}

	stored, err := s.store.StoreCandidate(ctx, fields)
	if err != nil {
		log.Error("store candidate failed", zap.Error(err))
		return nil, err
	}

	s.archiveDocument(ctx, log, stored.ID, parsed)

	log.Info("resume processed",
		zap.String("candidate_id", stored.ID),
		zap.Duration("elapsed", time.Since(start)))
	return stored, nil
}

// Parse extracts text and fields from a resume without writing anything.
func (s *Service) Parse(ctx context.Context, filename, mediaType string, body io.Reader) (*Parsed, error) {
	parsed, err := s.parser.ParseFile(filename, mediaType, body)
	if err != nil {
		return nil, err
	}
	defer parsed.Close()

	fields, err := s.extractor.ExtractFields(ctx, parsed.FullText)
	if err != nil {
		return nil, err
	}
	return &Parsed{Filename: parsed.Filename, Text: parsed.FullText, Fields: fields}, nil
}

// archiveDocument copies the original file. The record is already stored, so failures are only logged.
func (s *Service) archiveDocument(ctx context.Context, log *zap.Logger, candidateID string, parsed *cv.ParsedCV) {
	f, err := parsed.Open()
	if err != nil {
		log.Warn("archive skipped: spooled file unavailable", zap.Error(err))
		return
	}
	defer f.Close()

	url, err := s.archive.Put(ctx, candidateID, parsed.Filename, parsed.MediaType, f)
	if err != nil {
		log.Warn("archive upload failed", zap.String("candidate_id", candidateID), zap.Error(err))
		return
	}
	if url != "" {
		log.Info("resume archived", zap.String("candidate_id", candidateID), zap.String("url", url))
	}
}
