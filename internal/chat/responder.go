package chat

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"talentscan/internal/apperr"
	"talentscan/internal/candidate"
	"talentscan/internal/llm"
)

const (
	answerSystemPrompt = `You are an AI HR assistant that helps analyze candidate data and answer questions about candidates.
Base your responses only on the provided candidate data.
Be concise and professional in your responses.`

	rankSystemPrompt = "You are an expert HR assistant that helps rank candidates based on their qualifications."

	answerTemperature = 0.7
	answerMaxTokens   = 500
	rankTemperature   = 0.7
	rankMaxTokens     = 1000
)

// Responder answers free-text questions about candidates and ranks them for a role.
// It does not check for an empty candidate set; Service does.
type Responder struct {
	provider llm.Provider
	log      *zap.Logger
}

func NewResponder(provider llm.Provider, log *zap.Logger) *Responder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Responder{provider: provider, log: log}
}

// AnswerQuery asks the model to answer query using only the given candidates.
func (r *Responder) AnswerQuery(ctx context.Context, query string, candidates []candidate.Candidate) (string, error) {
	prompt := "Context:\n" + answerContext(candidates) + "\n\nQuestion: " + query
	return r.complete(ctx, "answer", llm.Request{
		System:      answerSystemPrompt,
		Prompt:      prompt,
		Temperature: answerTemperature,
		MaxTokens:   answerMaxTokens,
	}, len(candidates))
}

// RankForRole asks the model to rank every candidate for role with a short justification each.
func (r *Responder) RankForRole(ctx context.Context, candidates []candidate.Candidate, role string) (string, error) {
	return r.complete(ctx, "rank", llm.Request{
		System:      rankSystemPrompt,
		Prompt:      rankingPrompt(candidates, role),
		Temperature: rankTemperature,
		MaxTokens:   rankMaxTokens,
	}, len(candidates))
}

func (r *Responder) complete(ctx context.Context, mode string, req llm.Request, n int) (string, error) {
	start := time.Now()
	reply, err := r.provider.Complete(ctx, req)
	if err != nil {
		r.log.Error("responder call failed", zap.String("mode", mode), zap.Error(err))
		return "", apperr.Wrap(apperr.KindProvider, err, "language model call failed")
	}
	r.log.Debug("responder call finished",
		zap.String("mode", mode),
		zap.Int("candidates", n),
		zap.Duration("elapsed", time.Since(start)))
	return strings.TrimSpace(reply), nil
}

func answerContext(candidates []candidate.Candidate) string {
	var b strings.Builder
	b.WriteString("Available candidate data:\n")
	for _, c := range candidates {
		fmt.Fprintf(&b, "\nName: %s\n", c.FullName())
		writeProfile(&b, c)
		b.WriteString("Work Experience: " + c.WorkExperienceSummary + "\n---\n")
	}
	return b.String()
}

func rankingPrompt(candidates []candidate.Candidate, role string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Please rank the following candidates for the %s role based on their experience and skills:\n", role)
	for _, c := range candidates {
		fmt.Fprintf(&b, "\nCandidate: %s\n", c.FullName())
		writeProfile(&b, c)
		b.WriteString("Work Experience Summary: " + c.WorkExperienceSummary + "\n---\n")
	}
	fmt.Fprintf(&b, "\nPlease provide a ranked list covering every candidate above, with a brief explanation of why each would be suitable for the %s role.", role)
	return b.String()
}

func writeProfile(b *strings.Builder, c candidate.Candidate) {
	b.WriteString("Current Position: " + c.CurrentPosition + "\n")
	b.WriteString("Years of Experience: " + strconv.FormatFloat(c.YearsOfExperience, 'f', -1, 64) + "\n")
	b.WriteString("Skills: " + strings.Join(c.Skills, ", ") + "\n")
}
