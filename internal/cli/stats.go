package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"

	"smart-poll/poll-cli/internal"
	"smart-poll/poll-cli/internal/poll"
	"smart-poll/poll-cli/internal/stats"
)

// runStats shows a poll's statistics once, keeps them live with --watch,
// or writes them to a workbook with --export.
func (a *App) runStats(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	fs.SetOutput(a.out)
	watch := fs.Bool("watch", false, "refresh the view continuously")
	export := fs.String("export", "", "write the statistics to an .xlsx file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one poll id argument")
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid poll id %q", fs.Arg(0))
	}

	p, err := a.polls.Get(ctx, id)
	if err != nil {
		if errors.Is(err, internal.ErrNotFound) {
			return fmt.Errorf("poll #%d does not exist", id)
		}
		return err
	}
	if !poll.GateFor(p.Status).CanViewStats {
		return fmt.Errorf("%w: poll #%d has not been started yet", internal.ErrStatsNotAvailable, id)
	}

	if *watch {
		return a.watchStats(ctx, p)
	}

	snapshot, err := a.stats.GetStats(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprint(a.out, stats.Render(p, snapshot))

	if *export != "" {
		if err := stats.ExportXLSX(*export, p, snapshot); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "\nwrote %s\n", *export)
	}
	return nil
}

// watchStats re-renders the view on every snapshot until interrupted.
func (a *App) watchStats(ctx context.Context, p poll.Poll) error {
	fmt.Fprintf(a.out, "watching poll #%d, press Ctrl-C to stop\n\n", p.ID)

	watcher := stats.NewWatcher(a.logger, a.stats, a.cfg.StatsInterval)
	err := watcher.Watch(ctx, p.ID, func(snapshot stats.Snapshot) {
		// Clear the screen between refreshes.
		fmt.Fprint(a.out, "\033[H\033[2J")
		fmt.Fprint(a.out, stats.Render(p, snapshot))
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
