package stats

import (
	"fmt"
	"html"
	"strings"

	"smart-poll/poll-cli/internal/poll"
	"smart-poll/poll-cli/internal/poll/question"

	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// CleanText strips any HTML markup from server-supplied text before it
// reaches the terminal. The backend stores rich-text names; the terminal
// renders plain text only.
func CleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(s)))
}

const barWidth = 20

// Render formats a snapshot as a terminal block, resolving question and
// choice names against the poll representation.
func Render(p poll.Poll, snapshot Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s — %d submission(s)\n", CleanText(p.Name), snapshot.SubmissionsCount)

	for _, q := range p.SortedQuestions() {
		if q.ID == nil {
			continue
		}
		stat, ok := snapshot.StatFor(*q.ID)
		if !ok {
			continue
		}

		fmt.Fprintf(&b, "\n%s (%d answer(s))\n", CleanText(q.Name), stat.AnswerCount)

		switch stat.Kind {
		case question.KindText:
			renderTags(&b, stat)
		case question.KindSingleChoice, question.KindMultiChoice:
			renderChoices(&b, q, stat)
		default:
			fmt.Fprintf(&b, "  (no view for %q statistics)\n", stat.RawKind)
		}
	}

	return b.String()
}

func renderTags(b *strings.Builder, stat QuestionStat) {
	tags := stat.SortedTags()
	if len(tags) == 0 {
		b.WriteString("  no tags yet\n")
		return
	}
	for _, t := range tags {
		fmt.Fprintf(b, "  %s ×%d\n", CleanText(t.Tag), t.Count)
	}
}

func renderChoices(b *strings.Builder, q question.Question, stat QuestionStat) {
	for _, c := range stat.SortedChoices() {
		name := fmt.Sprintf("Option #%d", c.ID)
		if choice, ok := q.ChoiceByID(c.ID); ok {
			name = CleanText(choice.Name)
		}

		percent := stat.Percent(c.Count)
		filled := percent * barWidth / 100
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		fmt.Fprintf(b, "  %-24s %s %3d%% (%d)\n", name, bar, percent, c.Count)
	}
}
