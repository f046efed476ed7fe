package services

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/courseforge/backend/internal/pkg/errors"
	"github.com/courseforge/backend/internal/types"
)

// smartQuoteReplacer maps typographic double quotes the model tends to emit
// back to straight quotes so the payload parses as JSON. Downstream prompts
// rely on exactly this cleanup, so the set is deliberately fixed.
var smartQuoteReplacer = strings.NewReplacer(
	"“", `"`, // left double quotation mark
	"”", `"`, // right double quotation mark
	"„", `"`, // double low-9 quotation mark
	"‟", `"`, // double high-reversed-9 quotation mark
)

// ParseGeneratedCourse turns raw model output into a validated course shape.
// The model is expected to return JSON, optionally wrapped in a ```json fence
// and possibly contaminated with smart quotes. On any failure the whole
// generation is failed; no partial object is ever returned.
func ParseGeneratedCourse(raw string) (*types.GeneratedCourse, error) {
	cleaned := stripCodeFence(raw)
	cleaned = smartQuoteReplacer.Replace(cleaned)
	cleaned = strings.TrimSpace(cleaned)

	var payload map[string]any
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, &apperrors.MalformedAIResponseError{
			Reason: "output is not valid JSON",
			Raw:    raw,
			Err:    err,
		}
	}

	title, ok := payload["title"].(string)
	if !ok || strings.TrimSpace(title) == "" {
		return nil, &apperrors.MalformedAIResponseError{Reason: "missing title", Raw: raw}
	}
	description, _ := payload["description"].(string)

	lessonsAny, ok := payload["lessons"].([]any)
	if !ok {
		return nil, &apperrors.MalformedAIResponseError{Reason: "lessons is not an array", Raw: raw}
	}

	lessons := make([]types.GeneratedLesson, 0, len(lessonsAny))
	for i, raw0 := range lessonsAny {
		lm, ok := raw0.(map[string]any)
		if !ok {
			return nil, &apperrors.MalformedAIResponseError{
				Reason: fmt.Sprintf("lesson %d is not an object", i+1),
				Raw:    raw,
			}
		}
		ltitle, ok := lm["title"].(string)
		if !ok || strings.TrimSpace(ltitle) == "" {
			return nil, &apperrors.MalformedAIResponseError{
				Reason: fmt.Sprintf("lesson %d is missing a title", i+1),
				Raw:    raw,
			}
		}
		content, _ := lm["content"].(string)
		lessons = append(lessons, types.GeneratedLesson{
			Title:                ltitle,
			Order:                intFromAny(lm["order"], i+1),
			Content:              content,
			EstimatedReadingTime: intFromAny(lm["estimatedReadingTime"], 0),
		})
	}

	return &types.GeneratedCourse{
		Title:       title,
		Description: description,
		Lessons:     lessons,
	}, nil
}

// stripCodeFence removes a leading ``` or ```json line and a trailing ```
// line when both are present, leaving the fenced body untouched.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	body := trimmed
	if idx := strings.Index(body, "\n"); idx >= 0 {
		body = body[idx+1:]
	} else {
		return trimmed
	}
	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body)
}

func intFromAny(v any, def int) int {
	switch t := v.(type) {
	case int:
		return t
	case float64:
		return int(t)
	case json.Number:
		i, _ := t.Int64()
		return int(i)
	default:
		return def
	}
}
