// Package cli implements the sutra-power CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/sutra-power/internal/app"
	"github.com/rcliao/sutra-power/internal/catalog"
	"github.com/rcliao/sutra-power/internal/config"
	"github.com/rcliao/sutra-power/internal/legacy"
	"github.com/rcliao/sutra-power/internal/logging"
	"github.com/rcliao/sutra-power/internal/store"
)

var (
	configFile string
	envFile    string
	dbPath     string
	legacyFile string
	uploadDir  string
	logLevel   string

	cfg    *config.Config
	logger = zap.NewNop()
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "sutra-power",
	Short: "Character catalog for the Sutra of Power",
	Long: "Manage the character catalog: characters, image galleries, chapters and 3D models. " +
		"SQLite-backed, single binary. JSON on stdout, logs on stderr.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := setup(); err != nil {
			exitErr("load config", err)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file (default: ./"+config.DefaultFile+" if present)")
	RootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file loaded when present")
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $SUTRA_DB or ~/.sutra-power/sutra.db)")
	RootCmd.PersistentFlags().StringVar(&legacyFile, "legacy", "", "Legacy key/value JSON file (default: $SUTRA_LEGACY_FILE)")
	RootCmd.PersistentFlags().StringVar(&uploadDir, "upload-dir", "", "Directory for uploaded files (default: $SUTRA_UPLOAD_DIR)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// setup loads the configuration and applies flag overrides.
func setup() error {
	c, err := config.Load(configFile, envFile)
	if err != nil {
		return err
	}
	if dbPath != "" {
		c.DBPath = dbPath
	}
	if legacyFile != "" {
		c.LegacyFile = legacyFile
	}
	if uploadDir != "" {
		c.UploadDir = uploadDir
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	cfg = c
	logger = logging.MustNew(c.Log.Level, c.Log.Format)
	return nil
}

// openStore opens the database without running the legacy migration or
// seeding.
func openStore(cmd *cobra.Command) (*store.SQLiteStore, error) {
	s := store.New(cfg.DBPath)
	if err := s.Open(cmd.Context()); err != nil {
		return nil, err
	}
	return s, nil
}

// newCatalog wires the store, the legacy migration and the catalog service.
// The caller closes the returned store.
func newCatalog(s *store.SQLiteStore) *catalog.Service {
	runner := legacy.NewRunner(s, legacy.NewFileSource(cfg.LegacyFile), logging.Component(logger, "legacy"))
	return catalog.New(s, logging.Component(logger, "catalog"), catalog.WithMigrator(runner))
}

// openCatalog runs the startup sequence and returns a ready catalog. When
// storage is unusable the catalog serves seed data and status carries the
// notice.
func openCatalog(cmd *cobra.Command) (*catalog.Service, *store.SQLiteStore, app.Status) {
	s := store.New(cfg.DBPath)
	svc := newCatalog(s)

	in := &app.Initializer{
		Probe:    func() error { return store.Available(cfg.DBPath) },
		Preparer: svc,
		Log:      logging.Component(logger, "init"),
	}
	status := in.Run(cmd.Context())
	if status.Degraded() {
		s.Close()
		return catalog.New(nil, logging.Component(logger, "catalog")), nil, status
	}
	return svc, s, status
}

func closeStore(s *store.SQLiteStore) {
	if s != nil {
		s.Close()
	}
}

func parseID(arg string) int64 {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		exitErr("parse id", fmt.Errorf("invalid id %q", arg))
	}
	return id
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
