package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"smart-poll/poll-cli/internal"
	"smart-poll/poll-cli/internal/editor"
	"smart-poll/poll-cli/internal/poll"
	"smart-poll/poll-cli/internal/poll/question"
	"smart-poll/poll-cli/internal/stats"
)

// runEdit drives the interactive question editor for a draft poll. All
// edits are local; `save` rewrites the poll's whole question set at once
// and `ai` saves first so manual edits survive regeneration.
func (a *App) runEdit(ctx context.Context, id int64) error {
	p, err := a.polls.Get(ctx, id)
	if err != nil {
		if errors.Is(err, internal.ErrNotFound) {
			return fmt.Errorf("poll #%d does not exist", id)
		}
		return err
	}

	if !poll.GateFor(p.Status).CanEdit {
		return fmt.Errorf("poll #%d is %s and can no longer be edited; run `pollcli stats %d` to see its results", id, p.Status, id)
	}

	form, err := editor.Load(p.Questions)
	if err != nil {
		var unsupported question.ErrUnsupportedKind
		if errors.As(err, &unsupported) {
			return fmt.Errorf("poll #%d contains a question type this client cannot edit (%q); update pollcli", id, unsupported.Kind)
		}
		return err
	}

	fmt.Fprintf(a.out, "editing poll #%d %q — type `help` for editor commands\n", p.ID, stats.CleanText(p.Name))
	a.printForm(form)

	for {
		line, err := a.prompt("edit> ")
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		command, args := fields[0], fields[1:]

		switch command {
		case "help":
			a.editorUsage()
		case "list":
			a.printForm(form)
		case "add":
			a.editorAdd(form, args)
		case "remove":
			a.editorRemove(form, args)
		case "move":
			a.editorMove(form, args)
		case "name", "desc":
			a.editorSetText(form, command, args, line)
		case "required", "summary":
			a.editorSetFlag(form, command, args)
		case "maxlen":
			a.editorSetMaxLength(form, args)
		case "option":
			a.editorOption(form, args, line)
		case "ai":
			form = a.editorGenerate(ctx, id, form, line)
		case "save":
			if err := a.editorSave(ctx, id, form); err != nil {
				fmt.Fprintf(a.out, "save failed: %v\n", err)
				continue
			}
			fmt.Fprintln(a.out, "saved")
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintf(a.out, "unknown editor command %q; type `help`\n", command)
		}
	}
}

func (a *App) editorUsage() {
	fmt.Fprint(a.out, `Editor commands:
  list                          show the current questions
  add text|single|multi         append a question of that type
  remove <n>                    delete question n
  move <from> <to>              move a question to another slot
  name <n> <text>               set a question's name
  desc <n> <text>               set a question's description
  required <n> on|off           toggle whether an answer is required
  maxlen <n> <limit>            set a text question's answer limit
  summary <n> on|off            toggle AI summarization for a text question
  option add <n> <text>         append an option to question n
  option remove <n> <m>         delete option m of question n
  option move <n> <from> <to>   reorder options of question n
  ai <prompt>                   save, then let AI regenerate the questions
  save                          write the question set to the server
  quit                          leave the editor (unsaved edits are lost)
`)
}

func (a *App) printForm(form *editor.Form) {
	if form.Len() == 0 {
		fmt.Fprintln(a.out, "(no questions yet; `add text` to begin)")
		return
	}
	for i, row := range form.Rows() {
		marker := ""
		if row.Required {
			marker = " *"
		}
		switch row.Kind() {
		case question.KindText:
			fmt.Fprintf(a.out, "%d. %s%s (text, up to %d chars, AI summary %s)\n",
				i+1, row.Name, marker, row.MaxLength, onOff(row.NeedAISummary))
		default:
			fmt.Fprintf(a.out, "%d. %s%s (%s)\n", i+1, row.Name, marker, row.Kind())
			for j, c := range row.Choices() {
				fmt.Fprintf(a.out, "   %d) %s\n", j+1, c.Name)
			}
		}
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// rowAt resolves a 1-based question index from user input.
func (a *App) rowAt(form *editor.Form, arg string) (*editor.Row, int, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > form.Len() {
		fmt.Fprintf(a.out, "no question %q; pick 1..%d\n", arg, form.Len())
		return nil, 0, false
	}
	return form.Rows()[n-1], n - 1, true
}

func (a *App) editorAdd(form *editor.Form, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "usage: add text|single|multi")
		return
	}
	switch args[0] {
	case "text":
		form.AppendText()
	case "single":
		form.AppendSingleChoice()
	case "multi":
		form.AppendMultiChoice()
	default:
		fmt.Fprintln(a.out, "usage: add text|single|multi")
		return
	}
	fmt.Fprintf(a.out, "added question %d; set its name with `name %d <text>`\n", form.Len(), form.Len())
}

func (a *App) editorRemove(form *editor.Form, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "usage: remove <n>")
		return
	}
	row, _, ok := a.rowAt(form, args[0])
	if !ok {
		return
	}
	form.Remove(row.Key)
	a.printForm(form)
}

func (a *App) editorMove(form *editor.Form, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(a.out, "usage: move <from> <to>")
		return
	}
	from, err1 := strconv.Atoi(args[0])
	to, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil || !form.MoveQuestion(from-1, to-1) {
		fmt.Fprintf(a.out, "cannot move %s to %s\n", args[0], args[1])
		return
	}
	a.printForm(form)
}

// editorSetText handles `name` and `desc`, keeping the raw remainder of
// the line so values may contain spaces.
func (a *App) editorSetText(form *editor.Form, command string, args []string, line string) {
	if len(args) < 2 {
		fmt.Fprintf(a.out, "usage: %s <n> <text>\n", command)
		return
	}
	row, _, ok := a.rowAt(form, args[0])
	if !ok {
		return
	}

	rest := strings.TrimSpace(strings.TrimPrefix(line, command))
	rest = strings.TrimSpace(strings.TrimPrefix(rest, args[0]))
	if command == "name" {
		row.Name = rest
	} else {
		row.Description = rest
	}
}

func (a *App) editorSetFlag(form *editor.Form, command string, args []string) {
	if len(args) != 2 || (args[1] != "on" && args[1] != "off") {
		fmt.Fprintf(a.out, "usage: %s <n> on|off\n", command)
		return
	}
	row, _, ok := a.rowAt(form, args[0])
	if !ok {
		return
	}

	value := args[1] == "on"
	switch command {
	case "required":
		row.Required = value
	case "summary":
		if row.Kind() != question.KindText {
			fmt.Fprintln(a.out, "AI summary applies to text questions only")
			return
		}
		row.NeedAISummary = value
	}
}

func (a *App) editorSetMaxLength(form *editor.Form, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(a.out, "usage: maxlen <n> <limit>")
		return
	}
	row, _, ok := a.rowAt(form, args[0])
	if !ok {
		return
	}
	if row.Kind() != question.KindText {
		fmt.Fprintln(a.out, "answer limits apply to text questions only")
		return
	}
	limit, err := strconv.Atoi(args[1])
	if err != nil || limit < 1 {
		fmt.Fprintf(a.out, "invalid limit %q\n", args[1])
		return
	}
	row.MaxLength = limit
}

func (a *App) editorOption(form *editor.Form, args []string, line string) {
	if len(args) < 2 {
		fmt.Fprintln(a.out, "usage: option add|remove|move ...")
		return
	}

	row, _, ok := a.rowAt(form, args[1])
	if !ok {
		return
	}
	if !row.Kind().HasChoices() {
		fmt.Fprintln(a.out, "options apply to choice questions only")
		return
	}

	switch args[0] {
	case "add":
		if len(args) < 3 {
			fmt.Fprintln(a.out, "usage: option add <n> <text>")
			return
		}
		rest := strings.TrimSpace(strings.TrimPrefix(line, "option"))
		rest = strings.TrimSpace(strings.TrimPrefix(rest, "add"))
		rest = strings.TrimSpace(strings.TrimPrefix(rest, args[1]))
		row.AddChoice(rest)
	case "remove":
		if len(args) != 3 {
			fmt.Fprintln(a.out, "usage: option remove <n> <m>")
			return
		}
		m, err := strconv.Atoi(args[2])
		if err != nil || m < 1 || m > len(row.Choices()) {
			fmt.Fprintf(a.out, "no option %q\n", args[2])
			return
		}
		row.RemoveChoice(row.Choices()[m-1].Key)
	case "move":
		if len(args) != 4 {
			fmt.Fprintln(a.out, "usage: option move <n> <from> <to>")
			return
		}
		from, err1 := strconv.Atoi(args[2])
		to, err2 := strconv.Atoi(args[3])
		if err1 != nil || err2 != nil || !row.MoveChoice(from-1, to-1) {
			fmt.Fprintf(a.out, "cannot move option %s to %s\n", args[2], args[3])
			return
		}
	default:
		fmt.Fprintln(a.out, "usage: option add|remove|move ...")
		return
	}
	a.printForm(form)
}

func (a *App) editorSave(ctx context.Context, id int64, form *editor.Form) error {
	_, err := a.polls.SaveQuestions(ctx, id, form.PrepareForSave())
	return err
}

// editorGenerate runs AI generation and reloads the form from the
// regenerated poll. On failure the current form is kept.
func (a *App) editorGenerate(ctx context.Context, id int64, form *editor.Form, line string) *editor.Form {
	prompt := strings.TrimSpace(strings.TrimPrefix(line, "ai"))
	if prompt == "" {
		fmt.Fprintln(a.out, "usage: ai <prompt>")
		return form
	}

	fmt.Fprintln(a.out, "saving current questions and generating, this may take a moment...")
	p, err := a.polls.GenerateAI(ctx, id, form.PrepareForSave(), prompt)
	if err != nil {
		fmt.Fprintf(a.out, "generation failed: %v\n", err)
		return form
	}

	regenerated, err := editor.Load(p.Questions)
	if err != nil {
		fmt.Fprintf(a.out, "could not load the generated questions: %v\n", err)
		return form
	}

	fmt.Fprintf(a.out, "generated %d question(s)\n", regenerated.Len())
	a.printForm(regenerated)
	return regenerated
}
