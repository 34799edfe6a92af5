package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/pkg/errors"

	assetkit "github.com/flywave/go-assetkit"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCode(err))
}

// exitCode is 2 for usage errors and 1 for any other failure.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, assetkit.ErrUsage):
		return 2
	default:
		return 1
	}
}

// run wires configuration and logging, then executes the command tree.
func run(ctx context.Context, outW, errW io.Writer, args []string) error {
	cfg, err := assetkit.LoadConfig()
	if err != nil {
		return err
	}
	slog.SetDefault(assetkit.NewLogger(cfg.LogLevel, cfg.LogFormat, errW))

	root := newRootCmd(cfg)
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
