package question

import "fmt"

type TextInput struct {
	question Question
}

func (t TextInput) Question() Question {
	return t.question
}

func (t TextInput) Empty(value any) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}

func (t TextInput) Validate(value any) error {
	if t.Empty(value) {
		if t.question.Required {
			return ErrAnswerRequired{QuestionID: questionID(t.question)}
		}
		return nil
	}

	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string value, got %T", value)
	}

	limit := t.question.EffectiveMaxLength()
	if len([]rune(s)) > limit {
		return ErrAnswerTooLong{Limit: limit, Given: len([]rune(s))}
	}

	return nil
}

func (t TextInput) Encode(value any) (Answer, error) {
	s, ok := value.(string)
	if !ok {
		return Answer{}, fmt.Errorf("expected string value, got %T", value)
	}

	return Answer{
		Kind:       KindText,
		QuestionID: questionID(t.question),
		Text:       s,
	}, nil
}
