package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrlokans/librarian/internal/cli"
	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

// subcommand is implemented by every flag-driven subcommand in internal/cli.
type subcommand interface {
	ParseFlags(args []string) error
	Run() error
}

func main() {
	// If no arguments or "menu" command, run the interactive menu
	if len(os.Args) < 2 || os.Args[1] == "menu" {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := entrypoint.RunMenu(ctx, config.NewConfig(), os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "serve":
		entrypoint.Run(config.NewConfig(), Version)

	case "init-db":
		run(cli.NewInitDBCommand(), args)

	case "fine":
		run(cli.NewFineCommand(), args)

	case "version":
		fmt.Printf("librarian %s (%s)\n", Version, Commit)

	case "-h", "--help", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func run(cmd subcommand, args []string) {
	if err := cmd.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  menu       Run the interactive text menu (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  serve      Start the HTTP API server\n")
	fmt.Fprintf(os.Stderr, "  init-db    Create the library tables and exit\n")
	fmt.Fprintf(os.Stderr, "  fine       Calculate the fine for an overdue book\n")
	fmt.Fprintf(os.Stderr, "  version    Print version information\n")
	fmt.Fprintf(os.Stderr, "\nConfiguration is read from the environment (DATABASE_PATH, PORT, LOAN_PERIOD, ...).\n")
	fmt.Fprintf(os.Stderr, "Use '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
