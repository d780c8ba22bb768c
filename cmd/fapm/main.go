// Command fapm archives a forum account's private messages into a local
// SQLite database and offers read-only views of the archive.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nhle/fapm/internal/model"
	"github.com/nhle/fapm/internal/store"
)

// Set via -ldflags at build time.
var version = "dev"

// Exit statuses.
const (
	exitOK         = 0
	exitFailure    = 1
	exitValidation = 64
)

// app carries state shared by every subcommand.
type app struct {
	configPath string
	dbPath     string
	logLevel   string

	cfg *model.AppConfig
	log *logrus.Logger
}

func newApp(logOut io.Writer) *app {
	log := logrus.New()
	log.SetOutput(logOut)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &app{log: log}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(os.Stderr)
	root := newRootCmd(a)
	err := root.ExecuteContext(ctx)
	if err != nil {
		a.log.WithError(err).Error("fapm failed")
	}
	stop()
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case model.IsValidationError(err):
		return exitValidation
	default:
		return exitFailure
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "fapm",
		Short:         "Archive FurAffinity private messages",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", model.DefaultConfigPath(), "Path to the configuration file")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "Path to the message database (overrides config)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	root.AddCommand(
		newSyncCmd(a),
		newContactsCmd(a),
		newShowCmd(a),
		newExportCmd(a),
		newStatusCmd(a),
		newLogoutCmd(a),
	)
	return root
}

// init loads configuration and applies flag overrides.
func (a *app) init() error {
	cfg, err := model.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.Database = a.dbPath
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return &model.ValidationError{Field: "log level", Value: cfg.LogLevel, Msg: err.Error()}
	}
	a.log.SetLevel(level)
	a.cfg = cfg
	return nil
}

func (a *app) openStore() (*store.SQLiteStore, error) {
	s, err := store.NewSQLiteStore(a.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", a.cfg.Database, err)
	}
	return s, nil
}

// closeStore closes s, keeping the first error.
func closeStore(s *store.SQLiteStore, err *error) {
	if cerr := s.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("closing archive: %w", cerr)
	}
}

var errNoMessages = errors.New("no messages")
