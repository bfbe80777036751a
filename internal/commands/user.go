package commands

import (
	"bufio"   // Line reading for non-terminal input
	"fmt"     // Printing
	"io"      // Input readers
	"os"      // Terminal detection
	"strings" // String manipulation

	"finance_tracker/internal/service" // Auth service

	"github.com/spf13/cobra" // CLI framework
	"golang.org/x/term"      // Hidden password input
)

// newUserCommand creates the "user" command group
func newUserCommand(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(newUserAddCommand(deps))
	cmd.AddCommand(newUserDeleteCommand(deps))
	return cmd
}

// newUserAddCommand registers a user through the same path as the HTTP API
func newUserAddCommand(deps Deps) *cobra.Command {
	var username, email, password string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				var err error
				password, err = readPassword(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout()) // Newline after hidden input
			}

			store, err := deps.OpenDB()
			if err != nil {
				return err
			}
			auth, err := deps.authService(store)
			if err != nil {
				return err
			}
			user, err := auth.Register(cmd.Context(), service.RegisterInput{
				Username: username,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %s created with ID %d\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "username (required)")
	cmd.Flags().StringVar(&email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "password, prompted for when omitted")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// newUserDeleteCommand deletes a user by email
func newUserDeleteCommand(deps Deps) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a user with all of their transactions and sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := deps.OpenDB()
			if err != nil {
				return err
			}
			auth, err := deps.authService(store)
			if err != nil {
				return err
			}
			user, err := auth.FindByEmail(cmd.Context(), email)
			if err != nil {
				return err
			}
			if err := auth.DeleteUser(cmd.Context(), user.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %s deleted\n", user.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address (required)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// readPassword reads a password without echo from a terminal, or one line otherwise
func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	// Pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return strings.TrimRight(scanner.Text(), "\r"), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
