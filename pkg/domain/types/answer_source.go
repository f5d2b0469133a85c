package types

// AnswerSource indicates which path produced an answer
type AnswerSource string

const (
	AnswerSourceDatabase AnswerSource = "database"
	AnswerSourceRag      AnswerSource = "rag"
	AnswerSourceAgent    AnswerSource = "agent"
	AnswerSourceFallback AnswerSource = "fallback"
)

// IsValid checks if the answer source is valid
func (s AnswerSource) IsValid() bool {
	switch s {
	case AnswerSourceDatabase,
		AnswerSourceRag,
		AnswerSourceAgent,
		AnswerSourceFallback:
		return true
	default:
		return false
	}
}

// String returns the string representation of the answer source
func (s AnswerSource) String() string {
	return string(s)
}
