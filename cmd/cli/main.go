package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"portfolio-viewer/src/config"
	"portfolio-viewer/src/logger"
	"portfolio-viewer/src/presenter"

	"github.com/google/subcommands"
)

var (
	configPath = flag.String("config", "config/default.yaml", "path to config file")
	width      = flag.Int("width", 100, "terminal width for rendered output")
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&showCmd{}, "portfolio")
	commander.Register(&journalCmd{}, "portfolio")
	commander.Register(&remoteCmd{}, "portfolio")
	commander.Register(&initCmd{}, "config")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// -----------------------------------------------------------------------------

func loadConfig() (*config.Config, *logger.Logger, error) {
	conf, err := config.NewConfig(*configPath)
	if err != nil {
		return nil, nil, err
	}
	// Keep stdout for the report
	conf.LogLevel = "ERROR"
	return conf, logger.NewLogger(conf.MConfig, "cli"), nil
}

// -----------------------------------------------------------------------------

func printMarkdown(md string) {
	out, err := presenter.RenderMarkdown(md, *width)
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}
