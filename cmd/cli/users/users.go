package users

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crucial707/student-records/cmd/cli/root"
	"github.com/crucial707/student-records/internal/auth"
	"github.com/crucial707/student-records/internal/repo"
)

// ==========================
// Init Users
// ==========================
func InitUsers(rootCmd *cobra.Command) {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users",
		Long:  "Create login accounts for the Student Records web app.",
	}
	usersCmd.AddCommand(createUserCmd())
	rootCmd.AddCommand(usersCmd)
}

// ==========================
// Create User
// ==========================
func createUserCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Long:  "Create a user with the given username. The password is read from stdin.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), "Password: ")
			password, err := readLine(cmd)
			if err != nil {
				return err
			}

			database, err := root.OpenDB()
			if err != nil {
				return err
			}
			defer database.Close()

			user, err := auth.Register(cmd.Context(), repo.NewUserRepo(database), username, password)
			if errors.Is(err, repo.ErrUsernameTaken) {
				return fmt.Errorf("username %q already exists", username)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\nUser %q created (id %d).\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username for the new account")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func readLine(cmd *cobra.Command) (string, error) {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
