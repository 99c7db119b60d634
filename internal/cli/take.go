package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"smart-poll/poll-cli/internal"
	"smart-poll/poll-cli/internal/poll"
	"smart-poll/poll-cli/internal/poll/question"
	"smart-poll/poll-cli/internal/stats"
	"smart-poll/poll-cli/internal/take"
)

// runTake walks a respondent through a poll question by question. A
// draft poll renders as a read-only preview; a finished poll refuses. A
// second visit to an already-answered poll shows the thank-you notice,
// unless the caller is an admin.
func (a *App) runTake(ctx context.Context, id int64) error {
	p, err := a.polls.Get(ctx, id)
	if err != nil {
		if errors.Is(err, internal.ErrNotFound) {
			return fmt.Errorf("poll #%d does not exist", id)
		}
		return err
	}

	gate := poll.GateFor(p.Status)
	if p.Status == poll.StatusDraft {
		fmt.Fprintf(a.out, "%s of poll #%d (no answers are recorded)\n\n", gate.TakeLabel, p.ID)
		a.printPoll(p)
		return nil
	}
	if !gate.CanSubmit {
		return fmt.Errorf("poll #%d is %s and no longer accepts answers", id, p.Status)
	}

	if p.MySubmissionsCount > 0 {
		identity, err := a.sessions.Identity(ctx)
		if err != nil || !identity.IsAdmin() {
			fmt.Fprintln(a.out, "you already answered this poll — thank you!")
			return nil
		}
		fmt.Fprintln(a.out, "note: you already answered this poll; admins may submit again")
	}

	sheet := take.NewSheet(p)
	fmt.Fprintf(a.out, "%s\n", stats.CleanText(p.Name))
	if p.Description != "" {
		fmt.Fprintf(a.out, "%s\n", stats.CleanText(p.Description))
	}
	fmt.Fprintln(a.out)

	for i, q := range sheet.Questions() {
		if q.ID == nil {
			continue
		}
		if _, broken := sheet.Broken(*q.ID); broken {
			fmt.Fprintf(a.out, "%d. %s — this question type is not supported here and will be skipped\n",
				i+1, stats.CleanText(q.Name))
			continue
		}
		if err := a.askQuestion(sheet, i, q); err != nil {
			return err
		}
	}

	if failures := sheet.Validate(); len(failures) != 0 {
		return fmt.Errorf("submission is incomplete; required questions are missing answers")
	}

	answers, err := sheet.Answers()
	if err != nil {
		return err
	}

	if err := a.polls.Submit(ctx, id, answers); err != nil {
		if errors.Is(err, internal.ErrPollNotAccepting) {
			return fmt.Errorf("the poll closed while you were answering")
		}
		return err
	}

	fmt.Fprintln(a.out, "answers submitted — thank you!")
	return nil
}

// askQuestion prompts for one answer, re-prompting until the value
// passes the question's own validation. An empty reply skips an optional
// question.
func (a *App) askQuestion(sheet *take.Sheet, index int, q question.Question) error {
	a.printQuestion(index, q)

	for {
		var err error
		switch q.Kind {
		case question.KindText:
			err = a.askText(sheet, q)
		case question.KindSingleChoice:
			err = a.askSingleChoice(sheet, q)
		case question.KindMultiChoice:
			err = a.askMultiChoice(sheet, q)
		default:
			return nil
		}
		if err != nil {
			return err
		}

		failure, ok := sheet.Validate()[*q.ID]
		if !ok {
			return nil
		}
		fmt.Fprintf(a.out, "%v\n", failure)
	}
}

func (a *App) askText(sheet *take.Sheet, q question.Question) error {
	label := "> "
	if !q.Required {
		label = "(enter to skip) > "
	}
	line, err := a.prompt(label)
	if err != nil {
		return err
	}
	if line == "" {
		sheet.Clear(*q.ID)
		return nil
	}
	return sheet.SetText(*q.ID, line)
}

func (a *App) askSingleChoice(sheet *take.Sheet, q question.Question) error {
	label := "pick a number > "
	if !q.Required {
		label = "pick a number (enter to skip) > "
	}
	line, err := a.prompt(label)
	if err != nil {
		return err
	}
	if line == "" {
		sheet.Clear(*q.ID)
		return nil
	}

	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(q.Choices) || q.Choices[n-1].ID == nil {
		fmt.Fprintf(a.out, "pick 1..%d\n", len(q.Choices))
		return a.askSingleChoice(sheet, q)
	}
	return sheet.Select(*q.ID, *q.Choices[n-1].ID)
}

func (a *App) askMultiChoice(sheet *take.Sheet, q question.Question) error {
	line, err := a.prompt("numbers separated by spaces (enter for none) > ")
	if err != nil {
		return err
	}

	sheet.Clear(*q.ID)
	if line == "" {
		return nil
	}

	for _, field := range strings.Fields(line) {
		n, err := strconv.Atoi(field)
		if err != nil || n < 1 || n > len(q.Choices) || q.Choices[n-1].ID == nil {
			fmt.Fprintf(a.out, "%q is not an option number, pick from 1..%d\n", field, len(q.Choices))
			return a.askMultiChoice(sheet, q)
		}
		if err := sheet.Toggle(*q.ID, *q.Choices[n-1].ID); err != nil {
			return err
		}
	}
	return nil
}
