package question

import "fmt"

type SingleChoiceInput struct {
	question Question
}

func (s SingleChoiceInput) Question() Question {
	return s.question
}

func (s SingleChoiceInput) Empty(value any) bool {
	return value == nil
}

func (s SingleChoiceInput) Validate(value any) error {
	if s.Empty(value) {
		if s.question.Required {
			return ErrAnswerRequired{QuestionID: questionID(s.question)}
		}
		return nil
	}

	id, ok := value.(int64)
	if !ok {
		return fmt.Errorf("expected int64 choice id, got %T", value)
	}

	if _, ok := s.question.ChoiceByID(id); !ok {
		return ErrInvalidChoiceID{QuestionID: questionID(s.question), ChoiceID: id}
	}

	return nil
}

func (s SingleChoiceInput) Encode(value any) (Answer, error) {
	id, ok := value.(int64)
	if !ok {
		return Answer{}, fmt.Errorf("expected int64 choice id, got %T", value)
	}

	return Answer{
		Kind:       KindSingleChoice,
		QuestionID: questionID(s.question),
		ChoiceID:   id,
	}, nil
}

type MultiChoiceInput struct {
	question Question
}

func (m MultiChoiceInput) Question() Question {
	return m.question
}

func (m MultiChoiceInput) Empty(value any) bool {
	if value == nil {
		return true
	}
	ids, ok := value.([]int64)
	return ok && len(ids) == 0
}

func (m MultiChoiceInput) Validate(value any) error {
	if m.Empty(value) {
		if m.question.Required {
			return ErrAnswerRequired{QuestionID: questionID(m.question)}
		}
		return nil
	}

	ids, ok := value.([]int64)
	if !ok {
		return fmt.Errorf("expected []int64 choice ids, got %T", value)
	}

	for _, id := range ids {
		if _, ok := m.question.ChoiceByID(id); !ok {
			return ErrInvalidChoiceID{QuestionID: questionID(m.question), ChoiceID: id}
		}
	}

	return nil
}

func (m MultiChoiceInput) Encode(value any) (Answer, error) {
	ids, ok := value.([]int64)
	if !ok {
		return Answer{}, fmt.Errorf("expected []int64 choice ids, got %T", value)
	}

	return Answer{
		Kind:       KindMultiChoice,
		QuestionID: questionID(m.question),
		ChoiceIDs:  ids,
	}, nil
}

// Toggle flips one choice id in a selection: present ids are removed,
// absent ids appended. Relative order of the untouched ids is preserved
// so re-renders stay deterministic.
func Toggle(selected []int64, id int64) []int64 {
	for i, existing := range selected {
		if existing == id {
			out := make([]int64, 0, len(selected)-1)
			out = append(out, selected[:i]...)
			out = append(out, selected[i+1:]...)
			return out
		}
	}
	out := make([]int64, 0, len(selected)+1)
	out = append(out, selected...)
	out = append(out, id)
	return out
}
