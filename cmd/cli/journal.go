package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"portfolio-viewer/src/presenter"
	"portfolio-viewer/src/storage"

	"github.com/google/subcommands"
)

type journalCmd struct {
	limit int
}

func (*journalCmd) Name() string     { return "journal" }
func (*journalCmd) Synopsis() string { return "list recent portfolio loads" }
func (*journalCmd) Usage() string {
	return `journal [-n <count>]

  Lists the most recent loads recorded by the server, newest first.
  Requires storage.db_type to be sqlite or postgres.
`
}

func (c *journalCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 20, "number of loads to list")
}

func (c *journalCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.limit <= 0 {
		fmt.Fprintln(os.Stderr, "-n must be positive")
		return subcommands.ExitUsageError
	}

	conf, cliLogger, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}

	journal, err := storage.NewJournal(conf.MConfig, cliLogger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening journal: %v\n", err)
		return subcommands.ExitFailure
	}
	if journal == nil {
		fmt.Fprintln(os.Stderr, "Load journal is disabled (storage.db_type: none)")
		return subcommands.ExitFailure
	}
	defer journal.Close()

	if err := journal.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Error opening journal: %v\n", err)
		return subcommands.ExitFailure
	}

	events, err := journal.RecentLoads(c.limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading journal: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(presenter.JournalMarkdown(events))
	return subcommands.ExitSuccess
}
