package question

// Input resolves how one question variant accepts, validates and
// serializes a respondent's value. Values are held as any and
// type-asserted per variant: string for text, int64 for single choice,
// []int64 for multi choice. A nil value means the question was left
// untouched.
type Input interface {
	Question() Question

	// Empty reports whether the value counts as "skipped": nil, an empty
	// string or an empty selection. Empty answers are omitted from the
	// submission payload entirely.
	Empty(value any) bool

	// Validate checks the value against the question's rules. A skipped
	// value passes unless the question is required.
	Validate(value any) error

	// Encode serializes a non-empty value into the wire answer shape.
	Encode(value any) (Answer, error)
}

// NewInput selects the resolver for a question. Unknown variants are
// rejected here; callers surface the error next to the question instead
// of failing the whole form.
func NewInput(q Question) (Input, error) {
	switch q.Kind {
	case KindText:
		return TextInput{question: q}, nil
	case KindSingleChoice:
		return SingleChoiceInput{question: q}, nil
	case KindMultiChoice:
		return MultiChoiceInput{question: q}, nil
	}
	return nil, ErrUnsupportedKind{Kind: q.RawKind}
}

func questionID(q Question) int64 {
	if q.ID == nil {
		return 0
	}
	return *q.ID
}
