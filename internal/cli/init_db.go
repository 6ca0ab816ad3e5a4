package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"gorm.io/gorm/logger"

	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/database"
)

// InitDBCommand creates the library tables if they are missing and exits.
type InitDBCommand struct {
	DatabasePath string
	ForeignKeys  bool
	Verbose      bool

	Out io.Writer
}

func NewInitDBCommand() *InitDBCommand {
	return &InitDBCommand{Out: os.Stdout}
}

func (cmd *InitDBCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("init-db", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the library database file")
	fs.BoolVar(&cmd.ForeignKeys, "foreign-keys", true, "Enforce foreign keys on the connection")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Log every schema statement")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s init-db [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create the users, books and borrowings tables. Existing data is kept.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s init-db\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s init-db -db ./data/library.db\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.DatabasePath == "" {
		fs.Usage()
		return fmt.Errorf("database path is required")
	}

	return nil
}

func (cmd *InitDBCommand) Run() error {
	level := logger.Warn
	if cmd.Verbose {
		level = logger.Info
	}

	db, err := database.NewDatabase(cmd.DatabasePath,
		database.WithLogLevel(level),
		database.WithForeignKeys(cmd.ForeignKeys),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		return fmt.Errorf("database is not reachable: %w", err)
	}

	fmt.Fprintf(cmd.Out, "Database ready at %s\n", cmd.DatabasePath)
	return nil
}
