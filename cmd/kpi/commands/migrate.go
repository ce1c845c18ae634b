package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wonny/telecom-kpi/pkg/database"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|version|force N]",
	Short: "Apply the PostgreSQL schema",
	Long: `Applies or rolls back the versioned schema under sql/postgres.

Example:
  go run ./cmd/kpi migrate up
  go run ./cmd/kpi migrate version
  go run ./cmd/kpi migrate force 1`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runMigrate,
}

var (
	migrationsDir string
)

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().StringVar(&migrationsDir, "dir", database.DefaultMigrationsDir, "migrations directory")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	mg, err := database.NewMigrator(migrationsDir, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer mg.Close()

	log.WithFields(map[string]interface{}{
		"action": args[0],
		"dir":    migrationsDir,
		"db":     database.MaskURL(cfg.Database.URL),
	}).Info("Running migration")

	switch args[0] {
	case "up":
		err = mg.Up()
	case "down":
		err = mg.Down()
	case "force":
		if len(args) != 2 {
			return fmt.Errorf("force needs a version")
		}
		version, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			return fmt.Errorf("invalid version %q", args[1])
		}
		err = mg.Force(version)
	case "version":
	default:
		return fmt.Errorf("unknown migrate action %q (use: up, down, version, force)", args[0])
	}
	if err != nil {
		return err
	}

	version, dirty, err := mg.Version()
	if err != nil {
		return err
	}
	PrintKeyValue("Version", strconv.FormatUint(uint64(version), 10), 8)
	PrintKeyValue("Dirty", strconv.FormatBool(dirty), 8)
	return nil
}
