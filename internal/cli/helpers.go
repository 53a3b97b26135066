package cli

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/shopspring/decimal"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/runnerr0/daybook/internal/codec"
	"github.com/runnerr0/daybook/internal/config"
	"github.com/runnerr0/daybook/internal/kv"
	"github.com/runnerr0/daybook/internal/model"
	"github.com/runnerr0/daybook/internal/store"
)

// loadConfig resolves the config file from --config or the default path,
// creating it with defaults when missing.
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	if globals != nil && globals.Config != "" {
		return config.LoadOrCreateAt(globals.Config)
	}
	return config.LoadOrCreate()
}

// newLogger builds the application logger: a rotating file, mirrored to
// stderr when --verbose is set.
func newLogger(cfg *config.Config, verbose bool) *log.Logger {
	logPath, err := cfg.LogPath()
	if err != nil {
		return log.New(os.Stderr, "[daybook] ", log.LstdFlags)
	}

	var out io.Writer = &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	}
	if verbose {
		out = io.MultiWriter(out, os.Stderr)
	}
	return log.New(out, "[daybook] ", log.LstdFlags)
}

// openDefaultStore wires the full storage stack: SQLite primary backend,
// file fallback, tiered composite, codec, and the store itself. The
// returned cleanup drains pending writes and closes the backends.
func openDefaultStore(globals *GlobalFlags) (*store.Store, func(), error) {
	cfg, err := loadConfig(globals)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	verbose := globals != nil && globals.Verbose
	logger := newLogger(cfg, verbose)

	sqlitePath, err := cfg.SQLitePath()
	if err != nil {
		return nil, nil, err
	}
	primary, err := kv.OpenSQLite(sqlitePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite backend: %w", err)
	}

	fallbackPath, err := cfg.FallbackPath()
	if err != nil {
		primary.Close()
		return nil, nil, err
	}
	fallback, err := kv.NewFileBackend(fallbackPath)
	if err != nil {
		primary.Close()
		return nil, nil, fmt.Errorf("open fallback backend: %w", err)
	}

	readTimeout := time.Duration(cfg.Storage.ReadTimeoutSeconds) * time.Second
	tiered := kv.NewTiered(primary, fallback, readTimeout, logger)

	c := codec.New(tiered, logger)
	s := store.Open(context.Background(), c, store.Options{
		Logger:      logger,
		HorizonDays: cfg.Recurrence.HorizonDays,
	})

	cleanup := func() {
		s.Close()
		if err := tiered.Close(); err != nil {
			logger.Printf("WARNING: close backends: %v", err)
		}
	}
	return s, cleanup, nil
}

// newID returns a short random identifier with a collection prefix,
// e.g. "task-9f3a2c1d".
func newID(prefix string) string {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Fall back to a time-derived id; uniqueness within one
		// process invocation is all the CLI needs.
		return fmt.Sprintf("%s-%x", prefix, time.Now().UnixNano())
	}
	return fmt.Sprintf("%s-%x", prefix, buf)
}

// resolveDate turns user input into a date key. It accepts the key
// format directly (2006-01-02) and falls back to natural language
// ("tomorrow", "next friday") via the when parser.
func resolveDate(input string, now time.Time) (string, error) {
	if input == "" {
		return "", nil
	}
	if t, err := model.ParseDateKey(input); err == nil {
		return model.DateKey(t), nil
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	result, err := w.Parse(input, now)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", input, err)
	}
	if result == nil {
		return "", fmt.Errorf("unrecognized date %q", input)
	}
	return model.DateKey(result.Time), nil
}

// parseAmount parses a decimal money amount from user input.
func parseAmount(input string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(input)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q", input)
	}
	return amount, nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
