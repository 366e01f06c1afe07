package cv

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	reLeadingNumber = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)`)

	keyAliases = map[string]string{
		"education":        "education_history",
		"work_experience":  "work_experience_summary",
		"position":         "current_position",
		"experience_years": "years_of_experience",
		"e_mail":           "email",
		"phone_number":     "phone",
	}
	educationAliases = map[string]string{
		"institution": "school",
		"university":  "school",
		"date":        "dates",
	}
	// optional free-text fields where null means "not on the resume"
	nullableStrings = []string{"phone", "work_experience_summary", "current_position"}
)

// repairReply applies deterministic fixes to a model reply and returns the resulting JSON object
// along with the names of the repairs that were applied. It never invents values.
func repairReply(reply string) ([]byte, []string, error) {
	body, err := jsonObject(reply)
	if err != nil {
		return nil, nil, err
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		return nil, nil, fmt.Errorf("reply is not valid JSON: %w", err)
	}

	var applied []string
	if body != strings.TrimSpace(reply) {
		applied = append(applied, "unwrapped")
	}

	if normalizeKeys(m, keyAliases) {
		applied = append(applied, "keys")
	}

	for _, k := range nullableStrings {
		if v, ok := m[k]; ok && v == nil {
			m[k] = ""
			applied = append(applied, k)
		}
	}

	switch v := m["years_of_experience"].(type) {
	case string:
		if match := reLeadingNumber.FindStringSubmatch(v); match != nil {
			if f, err := strconv.ParseFloat(match[1], 64); err == nil {
				m["years_of_experience"] = f
				applied = append(applied, "years_of_experience")
			}
		}
	}

	switch v := m["skills"].(type) {
	case nil:
		if _, ok := m["skills"]; ok {
			m["skills"] = []any{}
			applied = append(applied, "skills")
		}
	case string:
		m["skills"] = splitSkills(v)
		applied = append(applied, "skills")
	case []any:
		m["skills"] = cleanSkills(v)
	}

	switch v := m["education_history"].(type) {
	case nil:
		if _, ok := m["education_history"]; ok {
			m["education_history"] = []any{}
			applied = append(applied, "education_history")
		}
	case []any:
		for _, item := range v {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if normalizeKeys(entry, educationAliases) {
				applied = append(applied, "education_keys")
			}
			for _, k := range []string{"school", "degree", "dates"} {
				if ev, ok := entry[k]; ok && ev == nil {
					entry[k] = ""
				}
			}
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, nil, err
	}
	return out, applied, nil
}

// jsonObject strips code fences and any prose around the outermost JSON object.
func jsonObject(reply string) (string, error) {
	s := strings.TrimSpace(reply)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return "", errors.New("reply does not contain a JSON object")
	}
	return s[start : end+1], nil
}

// normalizeKeys rewrites keys like "First Name" or "first-name" to snake case and applies
// aliases when the canonical key is absent. It reports whether anything changed.
func normalizeKeys(m map[string]any, aliases map[string]string) bool {
	changed := false
	for key, v := range m {
		norm := snakeCase(key)
		if alias, ok := aliases[norm]; ok {
			norm = alias
		}
		if norm == key {
			continue
		}
		if _, exists := m[norm]; exists {
			continue
		}
		delete(m, key)
		m[norm] = v
		changed = true
	}
	return changed
}

func snakeCase(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

func splitSkills(s string) []any {
	out := []any{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func cleanSkills(in []any) []any {
	out := make([]any, 0, len(in))
	for _, v := range in {
		s, ok := v.(string)
		if !ok {
			// left for schema validation to reject
			out = append(out, v)
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
