package take

import (
	"fmt"

	"smart-poll/poll-cli/internal/poll"
	"smart-poll/poll-cli/internal/poll/question"
)

// Sheet collects a respondent's answers for one poll. Slots are keyed by
// question id; a question whose variant the client does not understand
// keeps its resolver error here and stays answerable-around: it never
// blocks the rest of the form.
type Sheet struct {
	questions []question.Question
	inputs    map[int64]question.Input
	broken    map[int64]error
	values    map[int64]any
}

// NewSheet builds a sheet from the poll's questions in position order.
func NewSheet(p poll.Poll) *Sheet {
	s := &Sheet{
		questions: p.SortedQuestions(),
		inputs:    make(map[int64]question.Input),
		broken:    make(map[int64]error),
		values:    make(map[int64]any),
	}

	for _, q := range s.questions {
		if q.ID == nil {
			continue
		}
		input, err := question.NewInput(q)
		if err != nil {
			s.broken[*q.ID] = err
			continue
		}
		s.inputs[*q.ID] = input
	}

	return s
}

// Questions returns the poll's questions in answering order.
func (s *Sheet) Questions() []question.Question {
	return s.questions
}

// Broken returns the contained resolver error for a question, if any.
func (s *Sheet) Broken(id int64) (error, bool) {
	err, ok := s.broken[id]
	return err, ok
}

// Value returns the current slot value for a question.
func (s *Sheet) Value(id int64) any {
	return s.values[id]
}

func (s *Sheet) input(id int64, kind question.Kind) (question.Input, error) {
	input, ok := s.inputs[id]
	if !ok {
		return nil, fmt.Errorf("no answerable question with id %d", id)
	}
	if input.Question().Kind != kind {
		return nil, fmt.Errorf("question %d is %s, not %s", id, input.Question().Kind, kind)
	}
	return input, nil
}

// SetText records a free-text answer.
func (s *Sheet) SetText(id int64, value string) error {
	if _, err := s.input(id, question.KindText); err != nil {
		return err
	}
	s.values[id] = value
	return nil
}

// Select records the single selected choice.
func (s *Sheet) Select(id, choiceID int64) error {
	input, err := s.input(id, question.KindSingleChoice)
	if err != nil {
		return err
	}
	if _, ok := input.Question().ChoiceByID(choiceID); !ok {
		return question.ErrInvalidChoiceID{QuestionID: id, ChoiceID: choiceID}
	}
	s.values[id] = choiceID
	return nil
}

// Toggle flips one choice in a multi-choice selection.
func (s *Sheet) Toggle(id, choiceID int64) error {
	input, err := s.input(id, question.KindMultiChoice)
	if err != nil {
		return err
	}
	if _, ok := input.Question().ChoiceByID(choiceID); !ok {
		return question.ErrInvalidChoiceID{QuestionID: id, ChoiceID: choiceID}
	}

	selected, _ := s.values[id].([]int64)
	s.values[id] = question.Toggle(selected, choiceID)
	return nil
}

// Clear empties a slot, turning the question back into a skipped one.
func (s *Sheet) Clear(id int64) {
	delete(s.values, id)
}

// Validate checks every answerable slot and returns the failures keyed by
// question id. An empty map means the sheet may be submitted.
func (s *Sheet) Validate() map[int64]error {
	failures := make(map[int64]error)
	for id, input := range s.inputs {
		if err := input.Validate(s.values[id]); err != nil {
			failures[id] = err
		}
	}
	return failures
}

// Answers assembles the submission payload in poll order. Empty slots are
// omitted entirely: absence is how a skipped optional question is
// encoded, never a null or empty answer.
func (s *Sheet) Answers() ([]question.Answer, error) {
	answers := make([]question.Answer, 0, len(s.questions))
	for _, q := range s.questions {
		if q.ID == nil {
			continue
		}
		input, ok := s.inputs[*q.ID]
		if !ok {
			continue
		}

		value := s.values[*q.ID]
		if input.Empty(value) {
			continue
		}

		answer, err := input.Encode(value)
		if err != nil {
			return nil, err
		}
		answers = append(answers, answer)
	}
	return answers, nil
}
