package take

import (
	"testing"

	"smart-poll/poll-cli/internal/poll"
	"smart-poll/poll-cli/internal/poll/question"
)

func int64Ptr(v int64) *int64 {
	return &v
}

// Poll with one required text question (maxLength 10) and one optional
// single-choice question with two choices.
func scenarioPoll() poll.Poll {
	return poll.Poll{
		ID:     1,
		Name:   "Party feedback",
		Status: poll.StatusActive,
		Questions: []question.Question{
			{
				ID:        int64Ptr(1),
				Kind:      question.KindText,
				Name:      "How was it?",
				Required:  true,
				Position:  0,
				MaxLength: 10,
			},
			{
				ID:       int64Ptr(2),
				Kind:     question.KindSingleChoice,
				Name:     "Would you come again?",
				Required: false,
				Position: 1,
				Choices: []question.Choice{
					{ID: int64Ptr(10), Name: "Yes", Position: 0},
					{ID: int64Ptr(11), Name: "No", Position: 1},
				},
			},
		},
	}
}

func TestSheet_RequiredValidation(t *testing.T) {
	sheet := NewSheet(scenarioPoll())

	// Submitting nothing fails on the required text question only.
	failures := sheet.Validate()
	if len(failures) != 1 {
		t.Fatalf("expected 1 failure, got %d: %v", len(failures), failures)
	}
	if _, ok := failures[1]; !ok {
		t.Errorf("expected failure on question 1, got %v", failures)
	}
}

func TestSheet_SubmissionAssembly(t *testing.T) {
	sheet := NewSheet(scenarioPoll())

	if err := sheet.SetText(1, "hi"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if failures := sheet.Validate(); len(failures) != 0 {
		t.Fatalf("expected no failures, got %v", failures)
	}

	answers, err := sheet.Answers()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The untouched optional choice question is omitted, not sent empty.
	if len(answers) != 1 {
		t.Fatalf("expected 1 answer, got %d", len(answers))
	}
	a := answers[0]
	if a.Kind != question.KindText || a.QuestionID != 1 || a.Text != "hi" {
		t.Errorf("unexpected answer: %+v", a)
	}
}

func TestSheet_MaxLengthBoundary(t *testing.T) {
	sheet := NewSheet(scenarioPoll())

	if err := sheet.SetText(1, "exactly10!"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if failures := sheet.Validate(); len(failures) != 0 {
		t.Errorf("length 10 must pass, got %v", failures)
	}

	if err := sheet.SetText(1, "eleven chars"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if failures := sheet.Validate(); len(failures) != 1 {
		t.Errorf("length 11 must fail, got %v", failures)
	}
}

func TestSheet_OptionalSkippedWhenCleared(t *testing.T) {
	sheet := NewSheet(scenarioPoll())

	if err := sheet.SetText(1, "hi"); err != nil {
		t.Fatal(err)
	}
	if err := sheet.Select(2, 10); err != nil {
		t.Fatal(err)
	}
	sheet.Clear(2)

	answers, err := sheet.Answers()
	if err != nil {
		t.Fatal(err)
	}
	for _, a := range answers {
		if a.QuestionID == 2 {
			t.Errorf("cleared question must be omitted: %+v", answers)
		}
	}
}

func TestSheet_SingleChoice(t *testing.T) {
	sheet := NewSheet(scenarioPoll())

	if err := sheet.Select(2, 99); err == nil {
		t.Error("expected error for unknown choice id")
	}
	if err := sheet.Select(2, 11); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sheet.SetText(1, "ok"); err != nil {
		t.Fatal(err)
	}

	answers, err := sheet.Answers()
	if err != nil {
		t.Fatal(err)
	}
	if len(answers) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(answers))
	}
	if answers[1].Kind != question.KindSingleChoice || answers[1].ChoiceID != 11 {
		t.Errorf("unexpected choice answer: %+v", answers[1])
	}
}

func TestSheet_MultiChoiceToggle(t *testing.T) {
	p := poll.Poll{
		ID:     1,
		Status: poll.StatusActive,
		Questions: []question.Question{
			{
				ID:       int64Ptr(3),
				Kind:     question.KindMultiChoice,
				Name:     "Pick snacks",
				Position: 0,
				Choices: []question.Choice{
					{ID: int64Ptr(20), Name: "Chips", Position: 0},
					{ID: int64Ptr(21), Name: "Fruit", Position: 1},
				},
			},
		},
	}
	sheet := NewSheet(p)

	if err := sheet.Toggle(3, 20); err != nil {
		t.Fatal(err)
	}
	if err := sheet.Toggle(3, 21); err != nil {
		t.Fatal(err)
	}
	if err := sheet.Toggle(3, 20); err != nil {
		t.Fatal(err)
	}

	answers, err := sheet.Answers()
	if err != nil {
		t.Fatal(err)
	}
	if len(answers) != 1 {
		t.Fatalf("expected 1 answer, got %d", len(answers))
	}
	ids := answers[0].ChoiceIDs
	if len(ids) != 1 || ids[0] != 21 {
		t.Errorf("expected selection [21], got %v", ids)
	}

	// Toggling the last id away empties the slot, which omits the answer.
	if err := sheet.Toggle(3, 21); err != nil {
		t.Fatal(err)
	}
	answers, err = sheet.Answers()
	if err != nil {
		t.Fatal(err)
	}
	if len(answers) != 0 {
		t.Errorf("expected empty submission, got %+v", answers)
	}
}

func TestSheet_UnknownVariantContained(t *testing.T) {
	p := scenarioPoll()
	p.Questions = append(p.Questions, question.Question{
		ID:       int64Ptr(9),
		Kind:     question.KindUnknown,
		RawKind:  "matrix",
		Name:     "Grid",
		Required: true,
		Position: 2,
	})

	sheet := NewSheet(p)

	if _, ok := sheet.Broken(9); !ok {
		t.Fatal("expected contained error for unknown variant")
	}

	// The broken question blocks neither validation nor submission of
	// the others, even though it is marked required.
	if err := sheet.SetText(1, "hi"); err != nil {
		t.Fatal(err)
	}
	if failures := sheet.Validate(); len(failures) != 0 {
		t.Errorf("unknown variant must not block the form, got %v", failures)
	}

	answers, err := sheet.Answers()
	if err != nil {
		t.Fatal(err)
	}
	if len(answers) != 1 {
		t.Errorf("expected 1 answer, got %d", len(answers))
	}
}
