package chat

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"talentscan/internal/apperr"
	"talentscan/internal/candidate"
)

// NoCandidatesMessage is returned instead of a model answer when nothing has been uploaded yet.
const NoCandidatesMessage = "No candidates found in the database. Please upload some resumes first."

// CandidateLister is the part of the candidate store the chat service reads.
type CandidateLister interface {
	GetAllCandidates(ctx context.Context) ([]candidate.Candidate, error)
}

// Request is a chat question. A non-empty Role switches to ranking mode.
type Request struct {
	Query string `json:"query"`
	Role  string `json:"role,omitempty"`
}

type Service struct {
	store     CandidateLister
	responder *Responder
	log       *zap.Logger
}

func NewService(store CandidateLister, responder *Responder, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, responder: responder, log: log}
}

// Ask answers req over every stored candidate.
func (s *Service) Ask(ctx context.Context, req Request) (string, error) {
	role := strings.TrimSpace(req.Role)
	if role == "" && strings.TrimSpace(req.Query) == "" {
		return "", apperr.New(apperr.KindInvalidInput, "query must not be empty")
	}

	candidates, err := s.store.GetAllCandidates(ctx)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		s.log.Info("chat request with empty candidate store")
		return NoCandidatesMessage, nil
	}

	if role != "" {
		s.log.Info("ranking candidates", zap.String("role", role), zap.Int("candidates", len(candidates)))
		return s.responder.RankForRole(ctx, candidates, role)
	}
	return s.responder.AnswerQuery(ctx, req.Query, candidates)
}

// Rank ranks every stored candidate for role.
func (s *Service) Rank(ctx context.Context, role string) (string, error) {
	if strings.TrimSpace(role) == "" {
		return "", apperr.New(apperr.KindInvalidInput, "role must be specified for ranking")
	}
	return s.Ask(ctx, Request{Role: role})
}
