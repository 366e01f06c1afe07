package cv

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"

	"talentscan/internal/apperr"
	"talentscan/internal/candidate"
	"talentscan/internal/llm"
	"talentscan/internal/logger"
)

const extractionSystemPrompt = "You are a helpful assistant that extracts information from resumes. Return only valid JSON."

const extractionPrompt = `Extract the following information from the resume text and return ONLY a JSON object
(no markdown, no explanation) with exactly these keys:

{
  "first_name": "string",
  "last_name": "string",
  "email": "string",
  "phone": "string",
  "education_history": [
    {"school": "string", "degree": "string", "dates": "string"}
  ],
  "work_experience_summary": "string",
  "skills": ["string"],
  "current_position": "string",
  "years_of_experience": 0
}

- education_history lists every school, degree and date range, most recent first
- skills is a list of individual skills
- years_of_experience is a number
- use "" for missing text and [] for missing lists`

// Extractor turns resume text into candidate fields with one model call.
type Extractor struct {
	provider llm.Provider
	schema   *jsonschema.Schema
	log      *zap.Logger
}

func NewExtractor(provider llm.Provider, log *zap.Logger) (*Extractor, error) {
	schema, err := compileSchema(candidateJSONSchema())
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{provider: provider, schema: schema, log: log}, nil
}

// ExtractFields calls the model at temperature 0 and validates its reply against the candidate schema.
func (e *Extractor) ExtractFields(ctx context.Context, text string) (candidate.Fields, error) {
	rid := uuid.NewString()
	start := time.Now()

	e.log.Info("extraction started", zap.String("req_id", rid), zap.Int("text_len", len(text)))

	reply, err := e.provider.Complete(ctx, llm.Request{
		System:      extractionSystemPrompt,
		Prompt:      buildExtractionPrompt(text),
		Temperature: 0,
		JSON:        true,
	})
	if err != nil {
		return candidate.Fields{}, apperr.Wrap(apperr.KindProvider, err, "language model call failed")
	}

	fields, err := e.parseReply(rid, reply)
	if err != nil {
		e.log.Warn("extraction reply rejected",
			zap.String("req_id", rid),
			zap.Error(err),
			zap.String("reply", logger.TruncateForLog(reply, 500)),
		)
		return candidate.Fields{}, err
	}

	e.log.Info("extraction done",
		zap.String("req_id", rid),
		zap.String("email", fields.Email),
		zap.Int("skills", len(fields.Skills)),
		zap.Int("education", len(fields.EducationHistory)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return fields, nil
}

func buildExtractionPrompt(text string) string {
	return extractionPrompt + "\n\nResume text:\n" + text
}

func (e *Extractor) parseReply(rid, reply string) (candidate.Fields, error) {
	repaired, applied, err := repairReply(reply)
	if err != nil {
		return candidate.Fields{}, apperr.Wrap(apperr.KindExtractionParse, err, "unparseable extraction reply")
	}
	if len(applied) > 0 {
		e.log.Debug("extraction reply repaired", zap.String("req_id", rid), zap.Strings("repairs", applied))
	}

	var doc any
	if err := json.Unmarshal(repaired, &doc); err != nil {
		return candidate.Fields{}, apperr.Wrap(apperr.KindExtractionParse, err, "unparseable extraction reply")
	}
	if err := e.schema.Validate(doc); err != nil {
		return candidate.Fields{}, apperr.Wrap(apperr.KindExtractionParse, err, "extraction reply does not match the candidate schema")
	}

	var fields candidate.Fields
	if err := json.Unmarshal(repaired, &fields); err != nil {
		return candidate.Fields{}, apperr.Wrap(apperr.KindExtractionParse, fmt.Errorf("decode fields: %w", err), "unparseable extraction reply")
	}
	if err := fields.Validate(); err != nil {
		return candidate.Fields{}, apperr.Wrap(apperr.KindExtractionParse, err, "invalid extracted fields")
	}
	return fields, nil
}
