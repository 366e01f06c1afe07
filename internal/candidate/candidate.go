package candidate

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Education is one entry of a candidate's education history.
type Education struct {
	School string `json:"school"`
	Degree string `json:"degree"`
	Dates  string `json:"dates"`
}

// Fields is the extracted, not yet stored shape of a candidate.
type Fields struct {
	FirstName             string      `json:"first_name"`
	LastName              string      `json:"last_name"`
	Email                 string      `json:"email"`
	Phone                 string      `json:"phone"`
	EducationHistory      []Education `json:"education_history"`
	WorkExperienceSummary string      `json:"work_experience_summary"`
	Skills                []string    `json:"skills"`
	CurrentPosition       string      `json:"current_position"`
	YearsOfExperience     float64     `json:"years_of_experience"`
}

// Candidate is a stored record. ID and CreatedAt are assigned by the store.
type Candidate struct {
	ID string `json:"id"`
	Fields
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// FullName joins first and last name.
func (c Candidate) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Validate checks the constraints every stored candidate must satisfy.
func (f Fields) Validate() error {
	email := strings.TrimSpace(f.Email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !jsonschema.Formats["email"](email) {
		return fmt.Errorf("email %q is not a valid address", f.Email)
	}
	if f.YearsOfExperience < 0 {
		return fmt.Errorf("years_of_experience must be non-negative, got %v", f.YearsOfExperience)
	}
	return nil
}

// Clone returns a deep copy so callers never share slices with a store.
func (c Candidate) Clone() Candidate {
	out := c
	out.Fields = c.Fields.Clone()
	if c.CreatedAt != nil {
		t := *c.CreatedAt
		out.CreatedAt = &t
	}
	return out
}

func (f Fields) Clone() Fields {
	out := f
	// slices.Clone keeps an empty list empty rather than nil.
	out.EducationHistory = slices.Clone(f.EducationHistory)
	out.Skills = slices.Clone(f.Skills)
	return out
}

// Matches reports whether query is contained, ignoring case, in any skill or in the
// work-experience summary. An empty query matches everything.
func (c Candidate) Matches(query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(c.WorkExperienceSummary), q) {
		return true
	}
	for _, s := range c.Skills {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}
