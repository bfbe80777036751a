package commands

import (
	"finance_tracker/internal/api"     // Response builders
	"finance_tracker/internal/service" // Analytics engine

	"github.com/spf13/cobra" // CLI framework
)

// reportView renders one analytics view for a user as a JSON-ready value.
type reportView func(cmd *cobra.Command, a *service.Analytics, userID uint) (any, error)

// newReportCommand creates "report" with one subcommand per analytics view
func newReportCommand(deps Deps) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print an analytics view for a user as JSON",
	}
	cmd.PersistentFlags().StringVar(&email, "email", "", "email address of the user (required)")
	_ = cmd.MarkPersistentFlagRequired("email")

	views := []struct {
		use, short string
		view       reportView
	}{
		{"summary", "Totals, balance and expenses per category", func(cmd *cobra.Command, a *service.Analytics, id uint) (any, error) {
			s, err := a.Summary(cmd.Context(), id)
			if err != nil {
				return nil, err
			}
			return api.NewSummaryResponse(s), nil
		}},
		{"monthly", "Income and expenses per month", func(cmd *cobra.Command, a *service.Analytics, id uint) (any, error) {
			m, err := a.Monthly(cmd.Context(), id)
			if err != nil {
				return nil, err
			}
			return api.NewMonthlyResponse(m), nil
		}},
		{"trends", "Averages, top expense categories and income/expense ratio", func(cmd *cobra.Command, a *service.Analytics, id uint) (any, error) {
			t, err := a.Trends(cmd.Context(), id)
			if err != nil {
				return nil, err
			}
			return api.NewTrendsResponse(t), nil
		}},
		{"cashflow", "Running balance in date order", func(cmd *cobra.Command, a *service.Analytics, id uint) (any, error) {
			p, err := a.Cashflow(cmd.Context(), id)
			if err != nil {
				return nil, err
			}
			return api.NewCashflowResponse(p), nil
		}},
	}
	for _, v := range views {
		view := v.view // Captured by the RunE closure
		cmd.AddCommand(&cobra.Command{
			Use:   v.use,
			Short: v.short,
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
				user, err := auth.FindByEmail(cmd.Context(), email) // Resolve the user
				if err != nil {
					return err
				}
				out, err := view(cmd, service.NewAnalytics(store), user.ID)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), out)
			},
		})
	}
	return cmd
}
