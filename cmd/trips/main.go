package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"travel-tracker/internal/cli"
	"travel-tracker/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(config.NewLoader(), buildAPI)
	if err := root.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
