package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"portfolio-viewer/src/data_source/stocks"
	"portfolio-viewer/src/models"
	"portfolio-viewer/src/network"
	"portfolio-viewer/src/portfolio"
	"portfolio-viewer/src/presenter"

	"github.com/google/subcommands"
)

// showCmd holds the flags for the 'show' subcommand.
type showCmd struct {
	query string
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "fetch the portfolio and display holdings" }
func (*showCmd) Usage() string {
	return `show [-q <ticker or name>]

  Fetches the portfolio once and displays the held stocks. With -q only the
  stocks whose ticker or name equals the query exactly are shown.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.query, "q", "", "exact ticker or company name to show")
}

func (c *showCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	conf, cliLogger, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}

	url, err := conf.PortfolioURL()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving portfolio url: %v\n", err)
		return subcommands.ExitFailure
	}

	netMgr := network.NewAsyncNetworkManager(conf.MConfig, cliLogger.Named("network"))
	source := stocks.NewStocksSource(url, conf.Portfolio.AuthToken, netMgr, cliLogger.Named("stocks"))
	machine := portfolio.NewStateMachine(source, cliLogger.Named("portfolio"))

	<-machine.Load(ctx)
	if c.query != "" {
		machine.Search(c.query)
	}

	view := machine.State()
	printMarkdown(presenter.Markdown(view))

	if _, failed := view.(models.ErrorView); failed {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
