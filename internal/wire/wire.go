// Package wire provides dependency injection for the guild CLI.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"log"
	"os"
	"sync"

	cliadapter "github.com/example/guild/internal/adapters/cli"
	"github.com/example/guild/internal/adapters/sqlite"
	"github.com/example/guild/internal/app"
	"github.com/example/guild/internal/config"
	"github.com/example/guild/internal/db"
	"github.com/example/guild/internal/logging"
	"github.com/example/guild/internal/ports/secondary"
)

var (
	cfg          *config.Config
	projectDir   string
	logger       *logging.Logger
	guildService *app.GuildServiceImpl
	once         sync.Once

	outcomeLedger secondary.OutcomeLedger
	ledgerOnce    sync.Once
)

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// Logger returns the file logger for the current project.
func Logger() *logging.Logger {
	once.Do(initServices)
	return logger
}

// GuildService returns the singleton GuildService instance.
func GuildService() *app.GuildServiceImpl {
	once.Do(initServices)
	return guildService
}

// initServices initializes config, logging and the guild service.
// This is called once via sync.Once.
func initServices() {
	dir, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to get working directory: %v", err)
	}
	projectDir = dir

	cfg, err = config.LoadOrDefault(dir)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// A missing log file is not fatal; a nil logger discards.
	logger, err = logging.New(dir)
	if err != nil {
		log.Printf("warning: logging disabled: %v", err)
	}

	guildService, err = app.NewGuildService(cfg, nil, nil, logger)
	if err != nil {
		log.Fatalf("failed to create guild service: %v", err)
	}
}

// LedgerPath returns the configured ledger file, or the default one inside
// the project's .guild directory.
func LedgerPath() string {
	once.Do(initServices)
	if cfg.LedgerPath != "" {
		return cfg.LedgerPath
	}
	return config.DefaultLedgerPath(projectDir)
}

// OutcomeLedger returns the sqlite-backed outcome ledger, opening the
// database on first use.
func OutcomeLedger() secondary.OutcomeLedger {
	ledgerOnce.Do(func() {
		database, err := db.GetDB(LedgerPath())
		if err != nil {
			log.Fatalf("failed to initialize ledger database: %v", err)
		}
		outcomeLedger = sqlite.NewOutcomeLedger(database)
	})
	return outcomeLedger
}

// GuildAdapter returns a new GuildAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func GuildAdapter() *cliadapter.GuildAdapter {
	return GuildAdapterWithOutput(os.Stdout)
}

// GuildAdapterWithOutput returns a new GuildAdapter writing to the given output.
func GuildAdapterWithOutput(out io.Writer) *cliadapter.GuildAdapter {
	return cliadapter.NewGuildAdapter(GuildService(), out)
}

// LedgerAdapter returns a new LedgerAdapter writing to stdout.
func LedgerAdapter() *cliadapter.LedgerAdapter {
	return LedgerAdapterWithOutput(os.Stdout)
}

// LedgerAdapterWithOutput returns a new LedgerAdapter writing to the given output.
func LedgerAdapterWithOutput(out io.Writer) *cliadapter.LedgerAdapter {
	return cliadapter.NewLedgerAdapter(OutcomeLedger(), out)
}

// Close releases the database connection and the log file.
func Close() {
	if err := db.Close(); err != nil {
		log.Printf("warning: failed to close ledger: %v", err)
	}
	if logger != nil {
		_ = logger.Close()
	}
}
