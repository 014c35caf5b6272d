package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"portfolio-viewer/src/config"

	"github.com/google/subcommands"
)

type initCmd struct {
	force bool
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "write a default config file" }
func (*initCmd) Usage() string {
	return `init [-f]

  Writes a default configuration to the -config path.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "f", false, "overwrite an existing file")
}

func (c *initCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if _, err := os.Stat(*configPath); err == nil && !c.force {
		fmt.Fprintf(os.Stderr, "%s already exists, use -f to overwrite\n", *configPath)
		return subcommands.ExitFailure
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error checking %s: %v\n", *configPath, err)
		return subcommands.ExitFailure
	}

	if err := config.Default().Save(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Wrote %s\n", *configPath)
	return subcommands.ExitSuccess
}
