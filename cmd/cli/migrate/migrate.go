package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crucial707/student-records/cmd/cli/config"
	"github.com/crucial707/student-records/internal/db"
)

// ==========================
// Init Migrate
// ==========================
func InitMigrate(rootCmd *cobra.Command) {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long:  "Apply every pending migration for the configured DB_DRIVER and print the resulting schema version.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			version, err := db.Run(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database at schema version %d (%s)\n", version, cfg.DBDriver)
			return nil
		},
	})
}
