package editor

import (
	"testing"

	"smart-poll/poll-cli/internal/poll/question"

	"github.com/brianvoe/gofakeit/v7"
)

func int64Ptr(v int64) *int64 {
	return &v
}

func loadedQuestions(t *testing.T) []question.Question {
	t.Helper()
	return []question.Question{
		{
			ID:       int64Ptr(30),
			Kind:     question.KindSingleChoice,
			Name:     "Third",
			Position: 7,
			Choices: []question.Choice{
				{ID: int64Ptr(2), Name: "B", Position: 1},
				{ID: int64Ptr(1), Name: "A", Position: 0},
			},
		},
		{ID: int64Ptr(10), Kind: question.KindText, Name: "First", Position: 0, MaxLength: 500},
		{ID: int64Ptr(20), Kind: question.KindText, Name: "Second", Position: 3},
	}
}

func TestLoad_SortsByPosition(t *testing.T) {
	form, err := Load(loadedQuestions(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := form.Rows()
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	for i, expected := range []string{"First", "Second", "Third"} {
		if rows[i].Name != expected {
			t.Errorf("row %d: expected %q, got %q", i, expected, rows[i].Name)
		}
	}

	choices := rows[2].Choices()
	if len(choices) != 2 || choices[0].Name != "A" || choices[1].Name != "B" {
		t.Errorf("choices not sorted by position: %+v", choices)
	}
}

func TestLoad_Idempotent(t *testing.T) {
	first, err := Load(loadedQuestions(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Load(loadedQuestions(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, b := first.PrepareForSave(), second.PrepareForSave()
	if len(a) != len(b) {
		t.Fatalf("length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Name != b[i].Name || a[i].Position != b[i].Position {
			t.Errorf("row %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestLoad_RejectsUnknownKind(t *testing.T) {
	_, err := Load([]question.Question{{Kind: question.KindUnknown, RawKind: "matrix"}})
	if err == nil {
		t.Fatal("expected error for unknown question kind")
	}
}

func TestPrepareForSave_RenumbersAndStripsIDs(t *testing.T) {
	form, err := Load(loadedQuestions(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prepared := form.PrepareForSave()
	for i, q := range prepared {
		if q.ID != nil {
			t.Errorf("question %d: expected nil id, got %v", i, q.ID)
		}
		if q.Position != i {
			t.Errorf("question %d: expected position %d, got %d", i, i, q.Position)
		}
		for j, c := range q.Choices {
			if c.ID != nil {
				t.Errorf("choice %d/%d: expected nil id", i, j)
			}
			if c.Position != j {
				t.Errorf("choice %d/%d: expected position %d, got %d", i, j, j, c.Position)
			}
		}
	}

	// Relative order survives the round trip even though the input
	// positions had gaps (0, 3, 7).
	for i, expected := range []string{"First", "Second", "Third"} {
		if prepared[i].Name != expected {
			t.Errorf("position %d: expected %q, got %q", i, expected, prepared[i].Name)
		}
	}
}

func TestPrepareForSave_ContiguousAfterRemoval(t *testing.T) {
	form := New()
	for range 4 {
		row := form.AppendText()
		row.Name = gofakeit.Question()
	}

	if !form.Remove(form.Rows()[1].Key) {
		t.Fatal("remove failed")
	}

	prepared := form.PrepareForSave()
	if len(prepared) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(prepared))
	}
	for i, q := range prepared {
		if q.Position != i {
			t.Errorf("expected contiguous positions, got %d at index %d", q.Position, i)
		}
	}
}

func TestMoveQuestion(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		moved    bool
		expected []string
	}{
		{name: "Should move element down", from: 0, to: 2, moved: true, expected: []string{"b", "c", "a"}},
		{name: "Should move element up", from: 2, to: 0, moved: true, expected: []string{"c", "a", "b"}},
		{name: "Should move adjacent", from: 1, to: 0, moved: true, expected: []string{"b", "a", "c"}},
		{name: "Should no-op on negative index", from: -1, to: 1, moved: false, expected: []string{"a", "b", "c"}},
		{name: "Should no-op past the end", from: 0, to: 3, moved: false, expected: []string{"a", "b", "c"}},
		{name: "Should accept same index", from: 1, to: 1, moved: true, expected: []string{"a", "b", "c"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			form := New()
			for _, name := range []string{"a", "b", "c"} {
				row := form.AppendText()
				row.Name = name
			}

			if got := form.MoveQuestion(tc.from, tc.to); got != tc.moved {
				t.Errorf("MoveQuestion(%d, %d) = %v, want %v", tc.from, tc.to, got, tc.moved)
			}
			for i, expected := range tc.expected {
				if form.Rows()[i].Name != expected {
					t.Errorf("row %d: expected %q, got %q", i, expected, form.Rows()[i].Name)
				}
			}
		})
	}
}

func TestMoveBounds(t *testing.T) {
	form := New()
	for range 3 {
		form.AppendText()
	}

	if form.CanMoveUp(0) {
		t.Error("first row must not move up")
	}
	if form.CanMoveDown(2) {
		t.Error("last row must not move down")
	}
	if !form.CanMoveUp(1) || !form.CanMoveDown(1) {
		t.Error("middle row must move both ways")
	}
}

func TestAppendDefaults(t *testing.T) {
	form := New()

	text := form.AppendText()
	if !text.Required || text.MaxLength != 1000 || !text.NeedAISummary {
		t.Errorf("unexpected text defaults: %+v", text)
	}
	if text.Kind() != question.KindText {
		t.Errorf("expected text kind, got %q", text.Kind())
	}

	single := form.AppendSingleChoice()
	if !single.Required || single.Choices() == nil || len(single.Choices()) != 0 {
		t.Errorf("unexpected single-choice defaults: %+v", single)
	}

	multi := form.AppendMultiChoice()
	if multi.Kind() != question.KindMultiChoice {
		t.Errorf("expected multi-choice kind, got %q", multi.Kind())
	}
}

// Appending a single-choice question, adding two options, moving the
// second above the first and saving must yield swapped positions with
// null ids.
func TestChoiceReorderSaveScenario(t *testing.T) {
	form := New()
	row := form.AppendSingleChoice()
	row.Name = "Favorite color"
	row.AddChoice("Red")
	row.AddChoice("Blue")

	if !row.MoveChoice(1, 0) {
		t.Fatal("move failed")
	}

	prepared := form.PrepareForSave()
	if len(prepared) != 1 {
		t.Fatalf("expected 1 question, got %d", len(prepared))
	}

	choices := prepared[0].Choices
	if len(choices) != 2 {
		t.Fatalf("expected 2 choices, got %d", len(choices))
	}
	if choices[0].Name != "Blue" || choices[0].Position != 0 || choices[0].ID != nil {
		t.Errorf("unexpected first choice: %+v", choices[0])
	}
	if choices[1].Name != "Red" || choices[1].Position != 1 || choices[1].ID != nil {
		t.Errorf("unexpected second choice: %+v", choices[1])
	}
}

func TestRowByKey_StableAcrossReorder(t *testing.T) {
	form := New()
	a := form.AppendText()
	a.Name = "a"
	b := form.AppendText()
	b.Name = "b"

	key := b.Key
	form.MoveQuestion(1, 0)

	row, ok := form.RowByKey(key)
	if !ok {
		t.Fatal("key lookup failed after reorder")
	}
	if row.Name != "b" {
		t.Errorf("expected row b, got %q", row.Name)
	}
}

func TestRemoveChoice(t *testing.T) {
	form := New()
	row := form.AppendMultiChoice()
	first := row.AddChoice("one")
	row.AddChoice("two")

	if !row.RemoveChoice(first.Key) {
		t.Fatal("remove failed")
	}
	if len(row.Choices()) != 1 || row.Choices()[0].Name != "two" {
		t.Errorf("unexpected choices: %+v", row.Choices())
	}
	if row.RemoveChoice(first.Key) {
		t.Error("removing a missing key must report false")
	}
}
