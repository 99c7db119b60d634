package question

import (
	"encoding/json"
	"fmt"
)

// Kind is the closed set of question variants the backend understands,
// carried on the wire as the "dtype" tag.
type Kind string

const (
	KindText         Kind = "text"
	KindSingleChoice Kind = "single-choice"
	KindMultiChoice  Kind = "multi-choice"

	// KindUnknown marks a variant this client does not recognize. The
	// question is kept so the rest of the poll stays usable.
	KindUnknown Kind = ""
)

// DefaultMaxLength applies to text questions whose maxLength is absent
// from the wire representation.
const DefaultMaxLength = 2000

// Choice is one selectable option of a choice-bearing question. ID is nil
// until the backend has persisted the option.
type Choice struct {
	ID       *int64 `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// Question is the polymorphic question record. MaxLength and NeedAISummary
// are meaningful only for KindText, Choices only for the choice kinds.
// RawKind preserves the wire tag when Kind is KindUnknown.
type Question struct {
	ID          *int64
	Kind        Kind
	RawKind     string
	Name        string
	Description string
	Required    bool
	Position    int

	MaxLength     int
	NeedAISummary bool

	Choices []Choice
}

// EffectiveMaxLength resolves the validation limit for text questions,
// falling back to DefaultMaxLength when the wire omitted one.
func (q Question) EffectiveMaxLength() int {
	if q.MaxLength > 0 {
		return q.MaxLength
	}
	return DefaultMaxLength
}

// HasChoices reports whether the variant carries an option list.
func (k Kind) HasChoices() bool {
	return k == KindSingleChoice || k == KindMultiChoice
}

func (q Question) HasChoices() bool {
	return q.Kind.HasChoices()
}

// ChoiceByID returns the option with the given persisted id.
func (q Question) ChoiceByID(id int64) (Choice, bool) {
	for _, c := range q.Choices {
		if c.ID != nil && *c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}

// NewText returns the editor default for an appended text question.
func NewText() Question {
	return Question{
		Kind:          KindText,
		Required:      true,
		MaxLength:     1000,
		NeedAISummary: true,
	}
}

// NewSingleChoice returns the editor default for an appended single-choice question.
func NewSingleChoice() Question {
	return Question{
		Kind:     KindSingleChoice,
		Required: true,
		Choices:  []Choice{},
	}
}

// NewMultiChoice returns the editor default for an appended multi-choice question.
func NewMultiChoice() Question {
	return Question{
		Kind:     KindMultiChoice,
		Required: true,
		Choices:  []Choice{},
	}
}

type textJSON struct {
	ID            *int64 `json:"id"`
	Kind          string `json:"dtype"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Required      bool   `json:"isRequired"`
	Position      int    `json:"position"`
	MaxLength     int    `json:"maxLength,omitempty"`
	NeedAISummary bool   `json:"needAiSummary"`
}

type choiceJSON struct {
	ID          *int64   `json:"id"`
	Kind        string   `json:"dtype"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Required    bool     `json:"isRequired"`
	Position    int      `json:"position"`
	Choices     []Choice `json:"possibleChoices"`
}

// MarshalJSON serializes the variant-specific wire shape. The switch is
// the single serialization dispatch point: a new Kind must be handled
// here or marshaling fails loudly.
func (q Question) MarshalJSON() ([]byte, error) {
	switch q.Kind {
	case KindText:
		return json.Marshal(textJSON{
			ID:            q.ID,
			Kind:          string(KindText),
			Name:          q.Name,
			Description:   q.Description,
			Required:      q.Required,
			Position:      q.Position,
			MaxLength:     q.MaxLength,
			NeedAISummary: q.NeedAISummary,
		})
	case KindSingleChoice, KindMultiChoice:
		choices := q.Choices
		if choices == nil {
			choices = []Choice{}
		}
		return json.Marshal(choiceJSON{
			ID:          q.ID,
			Kind:        string(q.Kind),
			Name:        q.Name,
			Description: q.Description,
			Required:    q.Required,
			Position:    q.Position,
			Choices:     choices,
		})
	}
	return nil, ErrUnsupportedKind{Kind: q.RawKind}
}

type questionJSON struct {
	ID            *int64   `json:"id"`
	Kind          string   `json:"dtype"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Required      bool     `json:"isRequired"`
	Position      int      `json:"position"`
	MaxLength     int      `json:"maxLength"`
	NeedAISummary bool     `json:"needAiSummary"`
	Choices       []Choice `json:"possibleChoices"`
}

// UnmarshalJSON decodes any question variant. An unrecognized dtype does
// not fail: the question comes back as KindUnknown with the raw tag kept,
// so one odd question cannot take down the whole poll.
func (q *Question) UnmarshalJSON(data []byte) error {
	var raw questionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode question: %w", err)
	}

	*q = Question{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		Required:    raw.Required,
		Position:    raw.Position,
		RawKind:     raw.Kind,
	}

	switch Kind(raw.Kind) {
	case KindText:
		q.Kind = KindText
		q.MaxLength = raw.MaxLength
		q.NeedAISummary = raw.NeedAISummary
	case KindSingleChoice:
		q.Kind = KindSingleChoice
		q.Choices = raw.Choices
	case KindMultiChoice:
		q.Kind = KindMultiChoice
		q.Choices = raw.Choices
	default:
		q.Kind = KindUnknown
	}

	return nil
}
