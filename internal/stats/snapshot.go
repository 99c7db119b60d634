package stats

import (
	"encoding/json"
	"fmt"
	"sort"

	"smart-poll/poll-cli/internal/poll/question"
)

// TagCount is one AI-summarized tag with its occurrence count.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// ChoiceCount is the vote count for one choice, keyed by its persisted id.
type ChoiceCount struct {
	ID    int64 `json:"id"`
	Count int   `json:"count"`
}

// QuestionStat is the per-question aggregate. Text questions carry Tags,
// choice questions carry Choices. RawKind keeps the wire tag when the
// variant is unrecognized.
type QuestionStat struct {
	Kind        question.Kind
	RawKind     string
	QuestionID  int64
	AnswerCount int
	Tags        []TagCount
	Choices     []ChoiceCount
}

type questionStatJSON struct {
	Kind        string        `json:"dtype"`
	QuestionID  int64         `json:"questionId"`
	AnswerCount int           `json:"answerCount"`
	Tags        []TagCount    `json:"tags"`
	Choices     []ChoiceCount `json:"choiceStats"`
}

// UnmarshalJSON decodes one aggregate. Like question decoding, an unknown
// dtype is contained instead of failing the snapshot.
func (s *QuestionStat) UnmarshalJSON(data []byte) error {
	var raw questionStatJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode question stat: %w", err)
	}

	*s = QuestionStat{
		RawKind:     raw.Kind,
		QuestionID:  raw.QuestionID,
		AnswerCount: raw.AnswerCount,
	}

	switch question.Kind(raw.Kind) {
	case question.KindText:
		s.Kind = question.KindText
		s.Tags = raw.Tags
	case question.KindSingleChoice:
		s.Kind = question.KindSingleChoice
		s.Choices = raw.Choices
	case question.KindMultiChoice:
		s.Kind = question.KindMultiChoice
		s.Choices = raw.Choices
	default:
		s.Kind = question.KindUnknown
	}

	return nil
}

// SortedTags returns the tags ordered by descending count, ties by tag
// name for a stable render.
func (s QuestionStat) SortedTags() []TagCount {
	out := make([]TagCount, len(s.Tags))
	copy(out, s.Tags)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

// SortedChoices returns the choice counts ordered by descending count,
// ties by id.
func (s QuestionStat) SortedChoices() []ChoiceCount {
	out := make([]ChoiceCount, len(s.Choices))
	copy(out, s.Choices)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Percent computes the share of answers a count represents, rounded to
// the nearest whole percent.
func (s QuestionStat) Percent(count int) int {
	if s.AnswerCount == 0 {
		return 0
	}
	return int(float64(count)/float64(s.AnswerCount)*100 + 0.5)
}

// Snapshot is one complete statistics read for a poll.
type Snapshot struct {
	SubmissionsCount int            `json:"submissionsCount"`
	Stats            []QuestionStat `json:"stats"`
}

// StatFor returns the aggregate for a question id.
func (s Snapshot) StatFor(questionID int64) (QuestionStat, bool) {
	for _, qs := range s.Stats {
		if qs.QuestionID == questionID {
			return qs, true
		}
	}
	return QuestionStat{}, false
}
