package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/antondlr/gicar-serial/internal/config"
	"github.com/antondlr/gicar-serial/internal/session"
	"github.com/antondlr/gicar-serial/internal/store"
	"github.com/antondlr/gicar-serial/internal/transport"
)

const defaultConfigPath = "gicar.yaml"

// commonFlags are accepted by every command that talks to the machine.
type commonFlags struct {
	config  string
	port    string
	baud    int
	timeout time.Duration
	file    string
	verbose bool

	// write commands only
	dryRun   bool
	skipRead bool
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	c := &commonFlags{}
	fs.StringVar(&c.config, "config", "", "Config file (default "+defaultConfigPath+" if present)")
	fs.StringVar(&c.port, "port", "", "Serial port, e.g. /dev/ttyUSB0 (offline when empty)")
	fs.IntVar(&c.baud, "baud", 0, "Baud rate (default 115200)")
	fs.DurationVar(&c.timeout, "timeout", 0, "Response timeout (default 5s)")
	fs.StringVar(&c.file, "file", "", "Use this saved response instead of the device")
	fs.BoolVar(&c.verbose, "verbose", false, "Debug logging on stderr")
	return c
}

func addWriteFlags(fs *flag.FlagSet, c *commonFlags) {
	fs.BoolVar(&c.dryRun, "dry-run", false, "Build the command but do not send it")
	fs.BoolVar(&c.skipRead, "skip-read", false, "Do not read the device before writing")
}

// env is what a command needs after flags and config are merged.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	sess   *session.Session
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig reads the config file, lets flags override it, then validates
// and normalizes the result.
func loadConfig(c *commonFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if c.config != "" {
		cfg, err = config.Load(c.config)
	} else {
		cfg, err = config.LoadOptional(defaultConfigPath)
	}
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}

	if c.port != "" {
		cfg.Serial.Port = c.port
	}
	if c.baud != 0 {
		cfg.Serial.Baud = c.baud
	}
	if c.timeout != 0 {
		cfg.Serial.TimeoutMs = int(c.timeout / time.Millisecond)
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)
	return cfg, nil
}

func setup(c *commonFlags) (*env, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	logger := newLogger(c.verbose)

	sc := session.Config{
		Store:    store.NewFileStore(cfg.State.Path),
		File:     c.file,
		DryRun:   c.dryRun,
		SkipRead: c.skipRead,
		Logger:   logger,
	}

	if cfg.Serial.Port != "" {
		tr, err := transport.NewSerial(transport.Config{
			Port:    cfg.Serial.Port,
			Baud:    cfg.Serial.Baud,
			Timeout: cfg.Serial.Timeout(),
			Settle:  cfg.Serial.Settle(),
			Logger:  logger,
		})
		if err != nil {
			return nil, err
		}
		sc.Transport = tr
	}

	sess := session.New(sc)
	logger.Debug("session started", "session", sess.ID(), "port", cfg.Serial.Port, "online", sess.Online())
	return &env{cfg: cfg, logger: logger, sess: sess}, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// parseFlags parses args and checks the positional argument count.
func parseFlags(fs *flag.FlagSet, args []string, nargs int) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if nargs >= 0 && fs.NArg() != nargs {
		fs.Usage()
		return errors.New("wrong number of arguments")
	}
	return nil
}

func usageFunc(fs *flag.FlagSet, text string) func() {
	return func() {
		fmt.Fprint(os.Stderr, text)
		fmt.Fprintln(os.Stderr, "\nFlags:")
		fs.PrintDefaults()
	}
}
