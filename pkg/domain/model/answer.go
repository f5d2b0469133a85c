package model

import "github.com/owasp-nest/nestai/pkg/domain/types"

// FallbackResponse is returned by the engine whenever the query pipeline
// fails. It never propagates the underlying error to the caller.
const FallbackResponse = "I'm sorry, I couldn't process your request at the moment. Please try again later."

// IntentResult is the classification outcome for a user query
type IntentResult struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Answer is the response DTO of the engine
type Answer struct {
	Answer string             `json:"answer"`
	Source types.AnswerSource `json:"source"`
	Intent IntentResult       `json:"intent"`
}

// NewFallbackAnswer builds the degraded answer, carrying the classified
// intent when classification succeeded before the failure.
func NewFallbackAnswer(intent IntentResult) *Answer {
	if intent.Label == "" {
		intent = IntentResult{Label: types.IntentRag.String(), Confidence: 0}
	}
	return &Answer{
		Answer: FallbackResponse,
		Source: types.AnswerSourceFallback,
		Intent: intent,
	}
}
