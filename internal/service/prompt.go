package service

import (
	"fmt"
	"strings"
)

// maxPromptContentChars bounds how much source text one prompt carries. Longer
// documents are truncated; the model sees the leading portion.
const maxPromptContentChars = 24000

// BuildQuizPrompt renders the instruction sent to the completion engine for
// one chunk. The contract with the model is a bare JSON array; the schema
// below matches domain.CandidateQuestion's JSON tags. avoid carries the
// question texts already accepted in this run so follow-up chunks do not
// repeat them.
func BuildQuizPrompt(content, topicHint, subTopicHint string, count int, avoid []string) string {
	var b strings.Builder

	b.WriteString("You are a learning coach creating a practice quiz from the study material below.\n")
	fmt.Fprintf(&b, "Create exactly %d multiple-choice questions.\n\n", count)

	b.WriteString("Rules:\n")
	b.WriteString("- Every question must be answerable from the material alone.\n")
	b.WriteString("- Each question has between 2 and 6 choices; all choice texts must be distinct.\n")
	b.WriteString("- Exactly one choice is correct.\n")
	b.WriteString("- Add a short explanation of the correct answer.\n")
	b.WriteString("- Assign every question a sub_topic naming the concept it tests.\n")

	if topicHint != "" {
		fmt.Fprintf(&b, "- The material covers the topic %q; use it as the topic for every question.\n", topicHint)
	} else {
		b.WriteString("- Propose a single short topic name describing the material as a whole.\n")
	}
	if subTopicHint != "" {
		fmt.Fprintf(&b, "- Prefer %q as the sub_topic unless a question clearly tests a different concept.\n", subTopicHint)
	}

	if len(avoid) > 0 {
		b.WriteString("- Do NOT repeat any of these already-generated questions:\n")
		for _, text := range avoid {
			fmt.Fprintf(&b, "  * %s\n", text)
		}
	}

	b.WriteString("\nRespond with a JSON array only, no prose and no markdown. Each element:\n")
	b.WriteString(`{"question_text": "...", "choices": ["...", "..."], "correct_index": 0, "explanation": "...", "topic": "...", "sub_topic": "..."}`)
	b.WriteString("\n\nStudy material:\n---\n")
	b.WriteString(truncateContent(content))
	b.WriteString("\n---\n")

	return b.String()
}

func truncateContent(content string) string {
	if len(content) <= maxPromptContentChars {
		return content
	}
	return content[:maxPromptContentChars]
}
