package audit

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/crucial707/student-records/cmd/cli/output"
	"github.com/crucial707/student-records/cmd/cli/root"
	"github.com/crucial707/student-records/internal/repo"
)

// ==========================
// Init Audit
// ==========================
func InitAudit(rootCmd *cobra.Command) {
	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the audit log",
	}
	auditCmd.AddCommand(listAuditCmd(), pruneAuditCmd())
	rootCmd.AddCommand(auditCmd)
}

// ==========================
// List Audit Entries
// ==========================
func listAuditCmd() *cobra.Command {
	var (
		limit, offset int
		asJSON        bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent audit entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 || offset < 0 {
				return fmt.Errorf("limit must be positive and offset non-negative")
			}

			database, err := root.OpenDB()
			if err != nil {
				return err
			}
			defer database.Close()

			entries, err := repo.NewAuditRepo(database).List(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}

			if asJSON {
				return output.RenderJSON(cmd.OutOrStdout(), entries)
			}

			rows := make([][]interface{}, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []interface{}{
					e.CreatedAt.Format("2006-01-02 15:04:05"), e.UserID, e.Action, e.ResourceID, e.Details,
				})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"When", "User", "Action", "Student", "Details"}, rows)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum entries to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "entries to skip")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

// ==========================
// Prune Audit Entries
// ==========================
func pruneAuditCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete audit entries older than the given number of days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return fmt.Errorf("--older-than-days must be positive")
			}

			database, err := root.OpenDB()
			if err != nil {
				return err
			}
			defer database.Close()

			cutoff := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
			n, err := repo.NewAuditRepo(database).PruneBefore(cmd.Context(), cutoff)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d audit entries older than %s\n", n, cutoff.UTC().Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "older-than-days", 0, "delete entries created more than this many days ago")
	_ = cmd.MarkFlagRequired("older-than-days")
	return cmd
}
