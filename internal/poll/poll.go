package poll

import (
	"sort"

	"smart-poll/poll-cli/internal/poll/question"
)

// Poll is the full poll representation returned by the backend.
type Poll struct {
	ID                 int64               `json:"id"`
	Name               string              `json:"name"`
	Description        string              `json:"description"`
	Status             Status              `json:"status"`
	Questions          []question.Question `json:"questions"`
	MySubmissionsCount int                 `json:"mySubmissionsCount"`
}

// Summary is the list-view representation without questions.
type Summary struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      Status `json:"status"`
}

// SortedQuestions returns the questions ordered by position ascending,
// each with its options ordered by position as well. The input is not
// mutated.
func (p Poll) SortedQuestions() []question.Question {
	out := make([]question.Question, len(p.Questions))
	copy(out, p.Questions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})

	for i := range out {
		if !out[i].HasChoices() {
			continue
		}
		choices := make([]question.Choice, len(out[i].Choices))
		copy(choices, out[i].Choices)
		sort.SliceStable(choices, func(a, b int) bool {
			return choices[a].Position < choices[b].Position
		})
		out[i].Choices = choices
	}

	return out
}

// QuestionByID finds a question by its persisted id.
func (p Poll) QuestionByID(id int64) (question.Question, bool) {
	for _, q := range p.Questions {
		if q.ID != nil && *q.ID == id {
			return q, true
		}
	}
	return question.Question{}, false
}
