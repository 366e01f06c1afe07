package cv

import (
	"context"
	"errors"
	"strings"
	"testing"

	"talentscan/internal/apperr"
	"talentscan/internal/llm"
)

type fakeProvider struct {
	reply    string
	err      error
	requests []llm.Request
}

func (f *fakeProvider) Complete(ctx context.Context, req llm.Request) (string, error) {
	f.requests = append(f.requests, req)
	return f.reply, f.err
}

const janeReply = `{
  "first_name": "Jane",
  "last_name": "Smith",
  "email": "jane@x.com",
  "phone": "+1-555-0100",
  "education_history": [{"school": "MIT", "degree": "BSc Computer Science", "dates": "2012-2016"}],
  "work_experience_summary": "5 years building backend services in Python and Go",
  "skills": ["Python", "Go"],
  "current_position": "Backend Engineer",
  "years_of_experience": 5
}`

func newTestExtractor(t *testing.T, p llm.Provider) *Extractor {
	t.Helper()
	e, err := NewExtractor(p, nil)
	if err != nil {
		t.Fatalf("NewExtractor: %v", err)
	}
	return e
}

func TestExtractFields(t *testing.T) {
	p := &fakeProvider{reply: janeReply}
	e := newTestExtractor(t, p)

	fields, err := e.ExtractFields(context.Background(), "Jane Smith, jane@x.com, 5 years, Python/Go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fields.FirstName != "Jane" || fields.LastName != "Smith" || fields.Email != "jane@x.com" {
		t.Errorf("unexpected identity fields %+v", fields)
	}
	if fields.YearsOfExperience != 5.0 {
		t.Errorf("expected 5 years, got %v", fields.YearsOfExperience)
	}
	if len(fields.Skills) != 2 || fields.Skills[0] != "Python" || fields.Skills[1] != "Go" {
		t.Errorf("unexpected skills %v", fields.Skills)
	}
	if len(fields.EducationHistory) != 1 || fields.EducationHistory[0].School != "MIT" {
		t.Errorf("unexpected education %v", fields.EducationHistory)
	}

	if len(p.requests) != 1 {
		t.Fatalf("expected exactly one model call, got %d", len(p.requests))
	}
	req := p.requests[0]
	if req.Temperature != 0 || !req.JSON {
		t.Errorf("extraction must use temperature 0 and JSON mode: %+v", req)
	}
	if !strings.HasSuffix(req.Prompt, "Resume text:\nJane Smith, jane@x.com, 5 years, Python/Go") {
		t.Errorf("prompt must end with the resume text: %q", req.Prompt)
	}
	for _, key := range requiredKeys {
		if !strings.Contains(req.Prompt, `"`+key+`"`) {
			t.Errorf("prompt does not name key %s", key)
		}
	}
}

func TestExtractFieldsRepairsCommonDeviations(t *testing.T) {
	reply := "Here is the data:\n```json\n" + `{
  "First Name": "Jane",
  "Last Name": "Smith",
  "Email": "jane@x.com",
  "Phone": null,
  "Education": [{"Institution": "MIT", "Degree": "BSc", "Dates": null}],
  "Work Experience Summary": "Backend work",
  "Skills": "Python, Go, ",
  "Current Position": "Engineer",
  "Years of Experience": "5 years"
}` + "\n```"

	e := newTestExtractor(t, &fakeProvider{reply: reply})
	fields, err := e.ExtractFields(context.Background(), "resume")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fields.FirstName != "Jane" || fields.Phone != "" || fields.YearsOfExperience != 5 {
		t.Errorf("unexpected fields %+v", fields)
	}
	if len(fields.Skills) != 2 || fields.Skills[1] != "Go" {
		t.Errorf("unexpected skills %v", fields.Skills)
	}
	if len(fields.EducationHistory) != 1 || fields.EducationHistory[0].School != "MIT" || fields.EducationHistory[0].Dates != "" {
		t.Errorf("unexpected education %v", fields.EducationHistory)
	}
}

func TestExtractFieldsRejectsBadReplies(t *testing.T) {
	cases := map[string]string{
		"not json":        "I could not find a resume.",
		"broken json":     `{"first_name": "Jane",`,
		"missing keys":    `{"first_name": "Jane", "last_name": "Smith", "email": "jane@x.com"}`,
		"invalid email":   strings.Replace(janeReply, "jane@x.com", "jane at x", 1),
		"empty name":      strings.Replace(janeReply, `"Jane"`, `""`, 1),
		"negative years":  strings.Replace(janeReply, `"years_of_experience": 5`, `"years_of_experience": -2`, 1),
		"unknown years":   strings.Replace(janeReply, `"years_of_experience": 5`, `"years_of_experience": "many"`, 1),
		"skills not list": strings.Replace(janeReply, `["Python", "Go"]`, `{"lang": "Go"}`, 1),
	}

	for name, reply := range cases {
		t.Run(name, func(t *testing.T) {
			e := newTestExtractor(t, &fakeProvider{reply: reply})
			_, err := e.ExtractFields(context.Background(), "resume")
			if !errors.Is(err, apperr.ErrExtractionParse) {
				t.Fatalf("expected extraction parse error, got %v", err)
			}
		})
	}
}

func TestExtractFieldsProviderError(t *testing.T) {
	e := newTestExtractor(t, &fakeProvider{err: errors.New("401 unauthorized")})

	_, err := e.ExtractFields(context.Background(), "resume")
	if !errors.Is(err, apperr.ErrProvider) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if !strings.Contains(err.Error(), "401 unauthorized") {
		t.Fatalf("expected cause in message, got %v", err)
	}
}
