package domain

import (
	"context"
	"strings"
)

// CandidateQuestion is one item as proposed by the completion engine, before
// validation. Field names mirror the JSON contract given to the model.
type CandidateQuestion struct {
	QuestionText string   `json:"question_text"`
	Choices      []string `json:"choices"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
	Topic        string   `json:"topic,omitempty"`
	SubTopic     string   `json:"sub_topic,omitempty"`
}

// Validate applies the per-item acceptance rules: non-empty question text,
// between 2 and maxChoices choices, choice texts unique within the item, and
// a correct index pointing at one of them. Explanation and image URL pass
// through unvalidated. Items failing these rules are dropped by the
// orchestrator and re-requested; they never reach persistence.
func (c *CandidateQuestion) Validate(maxChoices int) error {
	if strings.TrimSpace(c.QuestionText) == "" {
		return NewInvalidInputError("question text is empty")
	}
	if len(c.Choices) < 2 || len(c.Choices) > maxChoices {
		return NewOutOfRangeError("choices", len(c.Choices), 2, maxChoices)
	}
	seen := make(map[string]struct{}, len(c.Choices))
	for _, choice := range c.Choices {
		text := strings.TrimSpace(choice)
		if text == "" {
			return NewInvalidInputError("choice text is empty")
		}
		if _, dup := seen[text]; dup {
			return NewInvalidInputError("duplicate choice text: " + text)
		}
		seen[text] = struct{}{}
	}
	if c.CorrectIndex < 0 || c.CorrectIndex >= len(c.Choices) {
		return NewOutOfRangeError("correct_index", c.CorrectIndex, 0, len(c.Choices)-1)
	}
	return nil
}

// GenerationStatus is the terminal state of a generation request.
type GenerationStatus string

const (
	// GenerationOK means the requested count was fulfilled exactly.
	GenerationOK GenerationStatus = "ok"
	// GenerationPartial means the retry budget ran out with a deficit left;
	// the caller must treat the reported count as the real yield.
	GenerationPartial GenerationStatus = "partial"
)

// GenerationResult reports the outcome of one generation request. Under- or
// over-fulfillment is never silent: Created always reflects what was actually
// persisted.
type GenerationResult struct {
	Status    GenerationStatus
	Requested int
	Created   int
	Topic     string
}

// CompletionEngine is the port to the external generative-text service. One
// call targets a single model/key pair and either yields structured items or
// a typed failure (SERVICE_OVERLOADED, MALFORMED_RESPONSE, COMPLETION_TIMEOUT).
type CompletionEngine interface {
	Complete(ctx context.Context, prompt, model, apiKey string) ([]CandidateQuestion, error)
}

// ContentExtractor is the port turning source material into plain text. Both
// methods fail with CONTENT_UNAVAILABLE on a bad fetch or an unparsable
// document.
type ContentExtractor interface {
	FromURL(ctx context.Context, url string) (string, error)
	FromPDF(ctx context.Context, data []byte) (string, error)
}
