package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/redgoat650/mynft/cmd"
	"github.com/redgoat650/mynft/internal/logging"
)

func main() {
	// Stderr at info until the root command applies the configured logger,
	// so flag and argument errors are still reported.
	if err := logging.Init(logging.Options{}); err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := cmd.Execute(ctx)
	stop()

	if err != nil {
		logging.L().Errorw("command failed", "error", err)
		os.Exit(1)
	}
}
