package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"

	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/fines"
)

// FineCommand prints the fine owed for a number of overdue days.
type FineCommand struct {
	Days int
	Rate decimal.Decimal

	Out io.Writer
}

func NewFineCommand() *FineCommand {
	return &FineCommand{Out: os.Stdout}
}

func (cmd *FineCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("fine", flag.ContinueOnError)

	var rate string
	fs.IntVar(&cmd.Days, "days", -1, "Number of days the book is overdue (required)")
	fs.StringVar(&rate, "rate", config.DefaultFineDailyRate, "Fine charged per overdue day")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s fine [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Calculate the fine for an overdue book.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s fine -days 10\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s fine -days 3 -rate 2.00\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Days < 0 {
		fs.Usage()
		return fmt.Errorf("days must be zero or more")
	}

	parsed, err := decimal.NewFromString(rate)
	if err != nil || parsed.IsNegative() {
		return fmt.Errorf("invalid rate %q", rate)
	}
	cmd.Rate = parsed

	return nil
}

func (cmd *FineCommand) Run() error {
	fine, err := fines.CalculateFine(cmd.Days, cmd.Rate)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Out, "Fine for %d day(s) at %s per day: %s\n", cmd.Days, cmd.Rate, fine.StringFixed(2))
	return nil
}
