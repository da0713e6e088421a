package main

import (
	"fmt"
	"os"

	"github.com/crucial707/student-records/cmd/cli/audit"
	"github.com/crucial707/student-records/cmd/cli/migrate"
	"github.com/crucial707/student-records/cmd/cli/root"
	"github.com/crucial707/student-records/cmd/cli/students"
	"github.com/crucial707/student-records/cmd/cli/users"
)

func main() {
	rootCmd := root.GetRoot()
	migrate.InitMigrate(rootCmd)
	users.InitUsers(rootCmd)
	students.InitStudents(rootCmd)
	audit.InitAudit(rootCmd)

	// Execute the root Cobra command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
