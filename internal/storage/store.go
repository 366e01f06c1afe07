package storage

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"talentscan/internal/apperr"
	"talentscan/internal/candidate"
)

// Store persists candidates. Both backends share the same contract and error kinds.
type Store interface {
	// StoreCandidate assigns an identifier, persists the record and returns it.
	StoreCandidate(ctx context.Context, fields candidate.Fields) (*candidate.Candidate, error)
	GetAllCandidates(ctx context.Context) ([]candidate.Candidate, error)
	// GetCandidate returns an apperr.KindNotFound error for unknown ids.
	GetCandidate(ctx context.Context, id string) (*candidate.Candidate, error)
	// SearchCandidates matches query case-insensitively against skills and the work summary.
	SearchCandidates(ctx context.Context, query string) ([]candidate.Candidate, error)
	Close() error
}

// Options selects the backend. A non-empty DatabaseURL selects Postgres.
type Options struct {
	DatabaseURL string
	Logger      *zap.Logger
}

// New opens the backend chosen by opts. It is called once at start-up.
func New(ctx context.Context, opts Options) (Store, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if strings.TrimSpace(opts.DatabaseURL) == "" {
		log.Warn("DATABASE_URL not set, using in-memory candidate store; data will not survive a restart")
		return NewMemoryStore(), nil
	}

	db, err := NewDB(ctx, opts.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	log.Info("candidate store connected", zap.String("backend", "postgres"))
	return db, nil
}

func validateFields(fields candidate.Fields) error {
	if err := fields.Validate(); err != nil {
		return apperr.Wrap(apperr.KindInvalidInput, err, "invalid candidate")
	}
	return nil
}

// normalizeFields copies f and replaces nil lists with empty ones so both backends
// return the same shape.
func normalizeFields(f candidate.Fields) candidate.Fields {
	out := f.Clone()
	if out.EducationHistory == nil {
		out.EducationHistory = []candidate.Education{}
	}
	if out.Skills == nil {
		out.Skills = []string{}
	}
	return out
}

func notFound(id string) error {
	return apperr.Newf(apperr.KindNotFound, "candidate %q not found", id)
}
