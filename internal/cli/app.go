package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"smart-poll/poll-cli/internal"
	"smart-poll/poll-cli/internal/config"
	"smart-poll/poll-cli/internal/poll"
	"smart-poll/poll-cli/internal/session"
	"smart-poll/poll-cli/internal/stats"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// App wires the command surface to the services. All interactive input
// comes from in, all user-facing output goes to out; the zap logger is
// diagnostics only.
type App struct {
	logger   *zap.Logger
	cfg      config.Config
	sessions *session.Service
	polls    *poll.Service
	stats    stats.Fetcher
	validate *validator.Validate

	in  *bufio.Reader
	out io.Writer
}

func New(
	logger *zap.Logger,
	cfg config.Config,
	sessions *session.Service,
	polls *poll.Service,
	statsFetcher stats.Fetcher,
	validate *validator.Validate,
	in io.Reader,
	out io.Writer,
) *App {
	return &App{
		logger:   logger,
		cfg:      cfg,
		sessions: sessions,
		polls:    polls,
		stats:    statsFetcher,
		validate: validate,
		in:       bufio.NewReader(in),
		out:      out,
	}
}

// Run dispatches one command invocation. Every command starts with a
// silent session bootstrap; a bootstrap failure is reported once and the
// command still runs, surfacing its own authorization error if it needs
// a session.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return nil
	}

	command, rest := args[0], args[1:]

	if err := a.sessions.Ensure(ctx); err != nil {
		fmt.Fprintln(a.out, "warning: could not reach the server to establish a session")
	}

	err := a.dispatch(ctx, command, rest)

	// A 401 means the backend no longer accepts the stored token even
	// though it looked valid locally. Re-provision an anonymous session
	// and retry the command once.
	if errors.Is(err, internal.ErrUnauthorized) {
		if rerr := a.sessions.Reprovision(ctx); rerr != nil {
			return err
		}
		err = a.dispatch(ctx, command, rest)
	}
	return err
}

func (a *App) dispatch(ctx context.Context, command string, rest []string) error {
	switch command {
	case "login":
		return a.runLogin(ctx)
	case "register":
		return a.runRegister(ctx)
	case "logout":
		return a.runLogout()
	case "whoami":
		return a.runWhoami(ctx)
	case "list":
		return a.runList(ctx)
	case "create":
		return a.runCreate(ctx)
	case "show":
		return a.withPollID(rest, func(id int64) error { return a.runShow(ctx, id) })
	case "edit":
		return a.withPollID(rest, func(id int64) error { return a.runEdit(ctx, id) })
	case "take":
		return a.withPollID(rest, func(id int64) error { return a.runTake(ctx, id) })
	case "start":
		return a.withPollID(rest, func(id int64) error { return a.runStart(ctx, id) })
	case "finish":
		return a.withPollID(rest, func(id int64) error { return a.runFinish(ctx, id) })
	case "stats":
		return a.runStats(ctx, rest)
	case "summarize":
		return a.runSummarize(ctx, rest)
	case "help":
		a.usage()
		return nil
	default:
		a.usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *App) usage() {
	fmt.Fprint(a.out, `pollcli — create, run and answer polls

Commands:
  login                   sign in with login and password
  register                attach credentials to the current session
  logout                  forget the stored session
  whoami                  show the current identity
  list                    list your polls
  create                  create a new draft poll
  show <id>               show a poll and its questions
  edit <id>               edit a draft poll's questions interactively
  take <id>               answer a poll (preview when still a draft)
  start <id>              open a draft poll for submissions
  finish <id>             close an active poll
  stats <id> [--watch] [--export file.xlsx]
                          show poll statistics
  summarize <poll> <question>
                          queue AI tag summarization for a text question
`)
}

// withPollID parses the single positional poll id argument.
func (a *App) withPollID(args []string, run func(id int64) error) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one poll id argument")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid poll id %q", args[0])
	}
	return run(id)
}

// prompt prints a label and reads one trimmed line.
func (a *App) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
