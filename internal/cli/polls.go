package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"smart-poll/poll-cli/internal"
	"smart-poll/poll-cli/internal/poll"
	"smart-poll/poll-cli/internal/poll/question"
	"smart-poll/poll-cli/internal/stats"
)

func (a *App) runList(ctx context.Context) error {
	summaries, err := a.polls.ListMine(ctx)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Fprintln(a.out, "no polls yet; run `pollcli create` to make one")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tNAME\tACTIONS")
	for _, s := range summaries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			s.ID, s.Status, stats.CleanText(s.Name), actionsFor(s.Status))
	}
	return w.Flush()
}

// actionsFor lists the commands available per lifecycle stage, the
// terminal version of the per-status card buttons.
func actionsFor(s poll.Status) string {
	gate := poll.GateFor(s)
	var actions []string
	if gate.CanEdit {
		actions = append(actions, "edit")
	}
	if gate.CanSubmit {
		actions = append(actions, "take")
	}
	if gate.CanStart {
		actions = append(actions, "start")
	}
	if gate.CanFinish {
		actions = append(actions, "finish")
	}
	if gate.CanViewStats {
		actions = append(actions, "stats")
	}
	if len(actions) == 0 {
		return "-"
	}
	return strings.Join(actions, ", ")
}

type createPollInput struct {
	Name string `validate:"required"`
}

func (a *App) runCreate(ctx context.Context) error {
	name, err := a.prompt("poll name: ")
	if err != nil {
		return err
	}
	if err := internal.ValidateStruct(a.validate, createPollInput{Name: name}); err != nil {
		return fmt.Errorf("poll name must not be empty")
	}

	description, err := a.prompt("description (optional): ")
	if err != nil {
		return err
	}

	p, err := a.polls.Create(ctx, name, description)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "created draft poll #%d; run `pollcli edit %d` to add questions\n", p.ID, p.ID)
	return nil
}

func (a *App) runShow(ctx context.Context, id int64) error {
	p, err := a.polls.Get(ctx, id)
	if err != nil {
		if errors.Is(err, internal.ErrNotFound) {
			return fmt.Errorf("poll #%d does not exist", id)
		}
		return err
	}

	a.printPoll(p)
	return nil
}

func (a *App) printPoll(p poll.Poll) {
	fmt.Fprintf(a.out, "#%d %s [%s]\n", p.ID, stats.CleanText(p.Name), p.Status)
	if p.Description != "" {
		fmt.Fprintln(a.out, stats.CleanText(p.Description))
	}

	for i, q := range p.SortedQuestions() {
		a.printQuestion(i, q)
	}
}

func (a *App) printQuestion(index int, q question.Question) {
	marker := ""
	if q.Required {
		marker = " *"
	}

	switch q.Kind {
	case question.KindText:
		fmt.Fprintf(a.out, "%d. %s%s (text, up to %d chars)\n",
			index+1, stats.CleanText(q.Name), marker, q.EffectiveMaxLength())
	case question.KindSingleChoice, question.KindMultiChoice:
		label := "pick one"
		if q.Kind == question.KindMultiChoice {
			label = "pick any"
		}
		fmt.Fprintf(a.out, "%d. %s%s (%s)\n", index+1, stats.CleanText(q.Name), marker, label)
		for j, c := range q.Choices {
			fmt.Fprintf(a.out, "   %d) %s\n", j+1, stats.CleanText(c.Name))
		}
	default:
		fmt.Fprintf(a.out, "%d. %s%s (unsupported question type %q)\n",
			index+1, stats.CleanText(q.Name), marker, q.RawKind)
	}
	if q.Description != "" {
		fmt.Fprintf(a.out, "   %s\n", stats.CleanText(q.Description))
	}
}

func (a *App) runStart(ctx context.Context, id int64) error {
	p, err := a.polls.Start(ctx, id)
	if err != nil {
		if errors.Is(err, internal.ErrInvalidTransition) {
			return fmt.Errorf("only a draft poll can be started")
		}
		return err
	}

	fmt.Fprintf(a.out, "poll #%d is now %s and accepting answers\n", p.ID, p.Status)
	return nil
}

func (a *App) runFinish(ctx context.Context, id int64) error {
	p, err := a.polls.Finish(ctx, id)
	if err != nil {
		if errors.Is(err, internal.ErrInvalidTransition) {
			return fmt.Errorf("only an active poll can be finished")
		}
		return err
	}

	fmt.Fprintf(a.out, "poll #%d is %s; submissions are closed\n", p.ID, p.Status)
	return nil
}

func (a *App) runSummarize(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("expected poll id and question id arguments")
	}
	pollID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid poll id %q", args[0])
	}
	questionID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid question id %q", args[1])
	}

	if err := a.polls.Summarize(ctx, pollID, questionID); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "summarization queued; tags will appear in the statistics shortly")
	return nil
}
