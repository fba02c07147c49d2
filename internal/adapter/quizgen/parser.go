package quizgen

import (
	"encoding/json"
	"strings"

	"quizforge/internal/domain"
)

// ParseCandidates decodes a completion payload into candidate items. The
// model is asked for a bare JSON array, but responses sometimes arrive
// wrapped in markdown code fences or as a single object, so both shapes are
// accepted before giving up.
func ParseCandidates(raw string) ([]domain.CandidateQuestion, error) {
	cleaned := stripCodeFences(raw)
	if cleaned == "" {
		return nil, domain.NewMalformedResponseError(nil)
	}

	var candidates []domain.CandidateQuestion
	if err := json.Unmarshal([]byte(cleaned), &candidates); err == nil {
		return candidates, nil
	}

	var single domain.CandidateQuestion
	if err := json.Unmarshal([]byte(cleaned), &single); err != nil {
		return nil, domain.NewMalformedResponseError(err)
	}
	return []domain.CandidateQuestion{single}, nil
}

// stripCodeFences removes a surrounding markdown code fence, with or without
// a language tag, and trims whitespace.
func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 && !strings.HasPrefix(s, "[") && !strings.HasPrefix(s, "{") {
		// First fence line carries a language tag such as ```json.
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
