package editor

import (
	"sort"

	"smart-poll/poll-cli/internal/poll/question"

	"github.com/google/uuid"
)

// Form is the editable, reorderable representation of a poll's question
// set. Rows are addressed by stable local keys rather than slice indexes,
// so reordering never invalidates a reference held elsewhere.
//
// The form only mirrors server state at Load time; every edit is local
// until PrepareForSave produces the bulk-replace payload.
type Form struct {
	rows []*Row
}

// Row is one editable question. The variant is fixed at creation;
// changing a question's type means removing the row and appending a new
// one.
type Row struct {
	Key uuid.UUID

	kind question.Kind

	Name        string
	Description string
	Required    bool

	// Text-only settings.
	MaxLength     int
	NeedAISummary bool

	choices []*ChoiceRow
}

// ChoiceRow is one editable option of a choice-bearing row.
type ChoiceRow struct {
	Key  uuid.UUID
	Name string
}

func (r *Row) Kind() question.Kind {
	return r.kind
}

func (r *Row) Choices() []*ChoiceRow {
	return r.choices
}

func New() *Form {
	return &Form{}
}

// Load replaces the form contents with the given questions, ordered by
// position ascending (options too). Loading the same input twice yields
// the same ordered structure. Unknown question variants cannot be edited
// and are rejected as a whole, since saving would rewrite the entire set.
func Load(questions []question.Question) (*Form, error) {
	sorted := make([]question.Question, len(questions))
	copy(sorted, questions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	f := New()
	for _, q := range sorted {
		if q.Kind == question.KindUnknown {
			return nil, question.ErrUnsupportedKind{Kind: q.RawKind}
		}

		row := &Row{
			Key:           uuid.New(),
			kind:          q.Kind,
			Name:          q.Name,
			Description:   q.Description,
			Required:      q.Required,
			MaxLength:     q.MaxLength,
			NeedAISummary: q.NeedAISummary,
		}

		if q.HasChoices() {
			choices := make([]question.Choice, len(q.Choices))
			copy(choices, q.Choices)
			sort.SliceStable(choices, func(a, b int) bool {
				return choices[a].Position < choices[b].Position
			})
			for _, c := range choices {
				row.choices = append(row.choices, &ChoiceRow{Key: uuid.New(), Name: c.Name})
			}
		}

		f.rows = append(f.rows, row)
	}

	return f, nil
}

// PrepareForSave builds the bulk-replace payload from the current
// in-memory order: every id is nil and every position is the current
// index, contiguous from 0 regardless of gaps left by deletions. The
// backend upserts by position order, never merges by id.
func (f *Form) PrepareForSave() []question.Question {
	out := make([]question.Question, 0, len(f.rows))
	for i, row := range f.rows {
		q := question.Question{
			Kind:        row.kind,
			Name:        row.Name,
			Description: row.Description,
			Required:    row.Required,
			Position:    i,
		}

		switch row.kind {
		case question.KindText:
			q.MaxLength = row.MaxLength
			q.NeedAISummary = row.NeedAISummary
		case question.KindSingleChoice, question.KindMultiChoice:
			q.Choices = make([]question.Choice, 0, len(row.choices))
			for j, c := range row.choices {
				q.Choices = append(q.Choices, question.Choice{Name: c.Name, Position: j})
			}
		}

		out = append(out, q)
	}
	return out
}

func (f *Form) Rows() []*Row {
	return f.rows
}

func (f *Form) Len() int {
	return len(f.rows)
}

// RowByKey resolves a row by its stable local key.
func (f *Form) RowByKey(key uuid.UUID) (*Row, bool) {
	for _, row := range f.rows {
		if row.Key == key {
			return row, true
		}
	}
	return nil, false
}

func (f *Form) appendRow(q question.Question) *Row {
	row := &Row{
		Key:           uuid.New(),
		kind:          q.Kind,
		Required:      q.Required,
		MaxLength:     q.MaxLength,
		NeedAISummary: q.NeedAISummary,
	}
	if q.HasChoices() {
		row.choices = []*ChoiceRow{}
	}
	f.rows = append(f.rows, row)
	return row
}

// AppendText appends a text question with the editor defaults.
func (f *Form) AppendText() *Row {
	return f.appendRow(question.NewText())
}

// AppendSingleChoice appends a single-choice question with no options yet.
func (f *Form) AppendSingleChoice() *Row {
	return f.appendRow(question.NewSingleChoice())
}

// AppendMultiChoice appends a multi-choice question with no options yet.
func (f *Form) AppendMultiChoice() *Row {
	return f.appendRow(question.NewMultiChoice())
}

// Remove deletes the row with the given key, preserving the relative
// order of the rest.
func (f *Form) Remove(key uuid.UUID) bool {
	for i, row := range f.rows {
		if row.Key == key {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return true
		}
	}
	return false
}

// MoveQuestion relocates the row at from to index to, shifting the rows
// in between by one slot. Out-of-range indexes are a no-op; the caller
// surfaces that as a disabled action, not an error.
func (f *Form) MoveQuestion(from, to int) bool {
	return move(f.rows, from, to)
}

// CanMoveUp reports whether the row at index i may move toward the front.
func (f *Form) CanMoveUp(i int) bool {
	return i > 0 && i < len(f.rows)
}

// CanMoveDown reports whether the row at index i may move toward the back.
func (f *Form) CanMoveDown(i int) bool {
	return i >= 0 && i < len(f.rows)-1
}

// AddChoice appends an option to a choice-bearing row.
func (r *Row) AddChoice(name string) *ChoiceRow {
	c := &ChoiceRow{Key: uuid.New(), Name: name}
	r.choices = append(r.choices, c)
	return c
}

// RemoveChoice deletes the option with the given key.
func (r *Row) RemoveChoice(key uuid.UUID) bool {
	for i, c := range r.choices {
		if c.Key == key {
			r.choices = append(r.choices[:i], r.choices[i+1:]...)
			return true
		}
	}
	return false
}

// MoveChoice relocates one option within the row; same no-op contract as
// MoveQuestion.
func (r *Row) MoveChoice(from, to int) bool {
	return move(r.choices, from, to)
}

// move relocates list[from] to index to, shifting intermediate elements
// by one slot. Returns false without touching the list when either index
// is out of range.
func move[T any](list []T, from, to int) bool {
	if from < 0 || from >= len(list) || to < 0 || to >= len(list) {
		return false
	}
	if from == to {
		return true
	}

	item := list[from]
	if from < to {
		copy(list[from:], list[from+1:to+1])
	} else {
		copy(list[to+1:], list[to:from])
	}
	list[to] = item
	return true
}
