package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"strings"
)

var allowedKeys = map[string]struct{}{
	"name": {}, "email": {}, "phone": {}, "company": {}, "designation": {}, "skills": {},
}

// NormalizeAndSanitizeJSON bends a near-miss model response into the contract:
//   - renames common synonyms (full_name -> name, title -> designation, ...)
//   - coerces numbers to strings, drops nulls and blanks
//   - splits a comma-separated skills string into a list
//   - removes unknown keys
func NormalizeAndSanitizeJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	dropped := make([]string, 0, 8)
	renamed := func(from, to string) {
		if v, ok := m[from]; ok {
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			dropped = append(dropped, from+"->"+to)
		}
	}
	renamed("full_name", "name")
	renamed("candidate_name", "name")
	renamed("phone_number", "phone")
	renamed("mobile", "phone")
	renamed("current_company", "company")
	renamed("latest_company", "company")
	renamed("organization", "company")
	renamed("title", "designation")
	renamed("job_title", "designation")
	renamed("role", "designation")

	for k := range maps.Clone(m) {
		if _, ok := allowedKeys[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	for k, v := range maps.Clone(m) {
		if k == "skills" {
			continue
		}
		switch t := v.(type) {
		case nil:
			delete(m, k)
			dropped = append(dropped, k+"(null)")
		case string:
			if s := strings.TrimSpace(t); s == "" {
				delete(m, k)
				dropped = append(dropped, k+"(empty)")
			} else {
				m[k] = s
			}
		case float64:
			m[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			delete(m, k)
			dropped = append(dropped, k+"(type)")
		default:
			delete(m, k)
			dropped = append(dropped, k+"(type)")
		}
	}

	if v, ok := m["skills"]; ok {
		skills := coerceSkills(v)
		if len(skills) == 0 {
			delete(m, "skills")
			dropped = append(dropped, "skills(empty)")
		} else {
			m["skills"] = skills
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.augment.normalize_sanitize", "dropped", dropped)
	}
	return out, dropped, nil
}

func coerceSkills(v any) []string {
	var out []string
	switch t := v.(type) {
	case string:
		for _, s := range strings.Split(t, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range t {
			switch s := item.(type) {
			case string:
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			case float64:
				out = append(out, strconv.FormatFloat(s, 'f', -1, 64))
			}
		}
	}
	return out
}
