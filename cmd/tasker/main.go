package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/tasker/internal/cli"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.App{
		SessionFile: cli.DefaultSessionFile(),
	}

	// Detect interactive terminal for password prompts and confirmations.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// Services are wired after flag parsing so --config is honored.
	app.Bootstrap = func(path string) error {
		return wire(app, path)
	}
	defer app.Close(context.Background())

	return cli.NewRootCmd(app).Execute()
}
