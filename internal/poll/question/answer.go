package question

import "encoding/json"

// Answer is one serialized response to a question, polymorphic over the
// same dtype tag as Question. Exactly one of Text, ChoiceID and ChoiceIDs
// is meaningful, selected by Kind.
type Answer struct {
	Kind       Kind
	QuestionID int64

	Text      string
	ChoiceID  int64
	ChoiceIDs []int64
}

type textAnswerJSON struct {
	Kind       string `json:"dtype"`
	QuestionID int64  `json:"questionId"`
	Value      string `json:"value"`
}

type singleChoiceAnswerJSON struct {
	Kind       string `json:"dtype"`
	QuestionID int64  `json:"questionId"`
	ChoiceID   int64  `json:"selectedChoiceId"`
}

type multiChoiceAnswerJSON struct {
	Kind       string  `json:"dtype"`
	QuestionID int64   `json:"questionId"`
	ChoiceIDs  []int64 `json:"selectedChoiceIds"`
}

// MarshalJSON emits the variant-specific answer shape. Like
// Question.MarshalJSON, this switch must stay exhaustive over Kind.
func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case KindText:
		return json.Marshal(textAnswerJSON{
			Kind:       string(KindText),
			QuestionID: a.QuestionID,
			Value:      a.Text,
		})
	case KindSingleChoice:
		return json.Marshal(singleChoiceAnswerJSON{
			Kind:       string(KindSingleChoice),
			QuestionID: a.QuestionID,
			ChoiceID:   a.ChoiceID,
		})
	case KindMultiChoice:
		return json.Marshal(multiChoiceAnswerJSON{
			Kind:       string(KindMultiChoice),
			QuestionID: a.QuestionID,
			ChoiceIDs:  a.ChoiceIDs,
		})
	}
	return nil, ErrUnsupportedKind{Kind: string(a.Kind)}
}
