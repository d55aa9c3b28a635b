package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/alecthomas/kong"
	"github.com/fwojciec/domcrawl"
	"github.com/fwojciec/domcrawl/goquery"
	"github.com/fwojciec/domcrawl/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, FormatError(err))
		os.Exit(1)
	}
}

// FormatError returns the message shown to the user for err. Application
// errors show their message; anything else, parse and I/O errors included,
// is shown in full.
func FormatError(err error) string {
	if domcrawl.ErrorCode(err) == domcrawl.EINTERNAL {
		return err.Error()
	}
	return domcrawl.ErrorMessage(err)
}

// Main represents the program.
type Main struct {
	// Database path for run history. Set before calling Run().
	DBPath string

	// SQLite database used by the history store.
	DB *sqlite.DB

	// Fetcher overrides the HTTP fetcher. Used for end-to-end testing.
	Fetcher domcrawl.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:       ctx,
		Stdout:    stdout,
		Stderr:    stderr,
		Fetcher:   m.Fetcher,
		Extractor: goquery.NewLinkExtractor(),
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("domcrawl"),
		kong.Description("Discover the external domains a website links to"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'domcrawl --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	command := kongCtx.Command()
	needsDB := strings.HasPrefix(command, "runs") ||
		(strings.HasPrefix(command, "crawl") && !cli.Crawl.NoHistory)

	if needsDB {
		dbPath := m.DBPath
		if cli.DB != "" {
			dbPath = cli.DB
		}

		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}

		m.DB = sqlite.NewDB(dbPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set DOMCRAWL_DB or --db to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
		}
		defer m.Close()

		store := sqlite.NewResultStore(m.DB)
		deps.History = store
		deps.Runs = store
	}

	return kongCtx.Run(deps)
}

// AppName names the per-user data and config directories.
const AppName = "domcrawl"

func defaultDBPath() string {
	if path := os.Getenv("DOMCRAWL_DB"); path != "" {
		return path
	}
	return filepath.Join(xdg.DataHome, AppName, "domcrawl.db")
}
