package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"portfolio-viewer/src/grpc_control"
	"portfolio-viewer/src/presenter"

	"github.com/google/subcommands"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// remoteCmd talks to a running server over the gRPC control service.
type remoteCmd struct {
	addr    string
	load    bool
	query   string
	timeout time.Duration
}

func (*remoteCmd) Name() string     { return "remote" }
func (*remoteCmd) Synopsis() string { return "show, reload or search the portfolio of a running server" }
func (*remoteCmd) Usage() string {
	return `remote [-addr <host:port>] [-load] [-q <ticker or name>]

  Without flags prints the server's current view. -load reloads first and
  waits for the result; -q applies a search on the server.
`
}

func (c *remoteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "gRPC address, defaults to grpc_host:grpc_port from the config")
	f.BoolVar(&c.load, "load", false, "reload the portfolio before printing")
	f.StringVar(&c.query, "q", "", "search query to apply")
	f.DurationVar(&c.timeout, "timeout", 30*time.Second, "overall deadline")
}

func (c *remoteCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	addr := c.addr
	if addr == "" {
		conf, _, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			return subcommands.ExitFailure
		}
		if conf.GrpcPort == 0 {
			fmt.Fprintln(os.Stderr, "gRPC is disabled in the config, pass -addr")
			return subcommands.ExitUsageError
		}
		addr = fmt.Sprintf("%s:%d", conf.GrpcHost, conf.GrpcPort)
	}

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to %s: %v\n", addr, err)
		return subcommands.ExitFailure
	}
	defer conn.Close()
	client := grpc_control.NewPortfolioControlClient(conn)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var resp *wrapperspb.BytesValue
	if c.load {
		if resp, err = client.Load(ctx, &emptypb.Empty{}); err != nil {
			fmt.Fprintf(os.Stderr, "Load failed: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	if c.query != "" {
		if resp, err = client.Search(ctx, wrapperspb.String(c.query)); err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	if resp == nil {
		if resp, err = client.GetState(ctx, &emptypb.Empty{}); err != nil {
			fmt.Fprintf(os.Stderr, "GetState failed: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	view, err := grpc_control.DecodeView(resp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unexpected response: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(presenter.Markdown(view))
	return subcommands.ExitSuccess
}
