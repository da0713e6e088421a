package root

import (
	"database/sql"
	"os"

	"github.com/spf13/cobra"

	"github.com/crucial707/student-records/cmd/cli/config"
	"github.com/crucial707/student-records/internal/db"
	"github.com/crucial707/student-records/internal/logging"
)

// Exported RootCmd
var RootCmd = &cobra.Command{
	Use:   "students-cli",
	Short: "Student Records admin CLI",
	Long: `Administer the Student Records database directly: apply migrations,
create users, and inspect students and the audit log.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return logging.Setup(cfg.LogFormat, cfg.LogLevel, os.Stderr)
	},
}

// OpenDB connects to the configured database. Tests replace it with a mock.
var OpenDB = func() (*sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return db.Connect(cfg)
}

// Optional helper to return the RootCmd
func GetRoot() *cobra.Command {
	return RootCmd
}
