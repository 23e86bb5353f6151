package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/sutra-power/internal/legacy"
	"github.com/rcliao/sutra-power/internal/logging"
	"github.com/rcliao/sutra-power/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Import legacy data",
		Long: "Import characters from the legacy key/value file into the database. " +
			"Runs at most once per database; --force runs it again.",
		Run: runMigrate,
	}

	cmd.Flags().Bool("force", false, "Clear the migrated flag first")

	RootCmd.AddCommand(cmd)
}

func runMigrate(cmd *cobra.Command, args []string) {
	force, _ := cmd.Flags().GetBool("force")
	ctx := cmd.Context()

	s, err := openStore(cmd)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if force {
		if err := s.SetSetting(ctx, legacy.MigratedKey, false); err != nil {
			exitErr("reset migration flag", err)
		}
	}

	runner := legacy.NewRunner(s, legacy.NewFileSource(cfg.LegacyFile), logging.Component(logger, "legacy"))
	if err := runner.Run(ctx); err != nil {
		exitErr("migrate", err)
	}

	done, err := store.Setting(ctx, s, legacy.MigratedKey, false)
	if err != nil {
		exitErr("read migration flag", err)
	}
	n, err := s.CountCharacters(ctx)
	if err != nil {
		exitErr("count characters", err)
	}

	printJSON(map[string]any{
		"ok":         true,
		"migrated":   done,
		"source":     cfg.LegacyFile,
		"characters": n,
	})
}
