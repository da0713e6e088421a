package students

import (
	"github.com/spf13/cobra"

	"github.com/crucial707/student-records/cmd/cli/output"
	"github.com/crucial707/student-records/cmd/cli/root"
	"github.com/crucial707/student-records/internal/repo"
)

// ==========================
// Init Students
// ==========================
func InitStudents(rootCmd *cobra.Command) {
	studentsCmd := &cobra.Command{
		Use:   "students",
		Short: "Inspect student records",
	}
	studentsCmd.AddCommand(listStudentsCmd())
	rootCmd.AddCommand(studentsCmd)
}

// ==========================
// List Students
// ==========================
func listStudentsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all students",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := root.OpenDB()
			if err != nil {
				return err
			}
			defer database.Close()

			students, err := repo.NewStudentRepo(database).List(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				return output.RenderJSON(cmd.OutOrStdout(), students)
			}

			rows := make([][]interface{}, 0, len(students))
			for _, s := range students {
				rows = append(rows, []interface{}{s.ID, s.Name, s.Age, s.Grade})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Name", "Age", "Grade"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}
