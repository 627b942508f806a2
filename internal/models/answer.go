package models

// SubmittedAnswer is the per-question answer envelope accepted at the API
// boundary. Exactly one field is expected to be set, matching the question
// type: Selected for multiple-choice, Code for coding. A nil/empty envelope
// counts as unanswered.
type SubmittedAnswer struct {
	Selected *string `json:"selected,omitempty"`
	Code     *string `json:"code,omitempty"`
}

// IsEmpty reports whether the envelope carries no usable answer.
func (a SubmittedAnswer) IsEmpty() bool {
	if a.Selected != nil && *a.Selected != "" {
		return false
	}
	if a.Code != nil && *a.Code != "" {
		return false
	}
	return true
}

// AnswerSheet maps question position (0-based, in test order) to the
// student's answer for that question.
type AnswerSheet map[int]SubmittedAnswer
