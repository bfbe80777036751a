// Package commands implements the finctl operator CLI.
package commands

import (
	"encoding/json" // JSON output
	"fmt"           // Error wrapping
	"io"            // Output writers

	"finance_tracker/internal/service" // Auth service
	"finance_tracker/internal/session" // Server-side sessions

	"github.com/spf13/cobra" // CLI framework
	"gorm.io/gorm"           // GORM ORM library
)

// Deps opens the resources a command needs. Commands only open what they use.
type Deps struct {
	OpenDB       func() (*gorm.DB, error)
	OpenSessions func() (session.Store, error)
	Secret       string
}

// authService builds an AuthService for operator commands. It never signs
// tokens, so the session TTL is unused.
func (d Deps) authService(store *gorm.DB) (*service.AuthService, error) {
	sessions, err := d.OpenSessions()
	if err != nil {
		return nil, fmt.Errorf("connect session store: %w", err)
	}
	return service.NewAuthService(store, sessions, d.Secret, 0), nil
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(deps Deps) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "finctl",
		Short: "Operate the finance tracker database",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newMigrateCommand(deps))
	rootCmd.AddCommand(newUserCommand(deps))
	rootCmd.AddCommand(newReportCommand(deps))

	return rootCmd
}

// writeJSON prints v as indented JSON
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ") // Human-readable output
	return enc.Encode(v)
}
