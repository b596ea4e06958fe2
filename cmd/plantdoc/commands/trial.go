package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"plantdoc/internal/domain"
)

// trial start|status: manage the free trial.
func trialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trial",
		Short: "Start the free trial or show subscription status",
	}

	start := &cobra.Command{
		Use:   "start",
		Short: "Start the free trial",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Authenticate(passphrase); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.GetRequestTimeout())
			defer cancel()
			st, err := appCtx.Trial.Start(ctx)
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), st)
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show plan, trial and monthly usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Authenticate(passphrase); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.GetRequestTimeout())
			defer cancel()
			st, err := appCtx.Trial.Status(ctx)
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), st)
			return nil
		},
	}

	cmd.AddCommand(start, status)
	return cmd
}

func printStatus(w io.Writer, st domain.TrialStatus) {
	fmt.Fprintf(w, "Plan: %s\n", st.Plan)
	if st.TrialActive {
		fmt.Fprintf(w, "Trial: active, %d day(s) left\n", st.TrialDaysLeft)
	} else if st.TrialUsed {
		fmt.Fprintln(w, "Trial: used")
	} else {
		fmt.Fprintln(w, "Trial: available")
	}
	if st.MonthlyLimit > 0 {
		fmt.Fprintf(w, "Usage: %d of %d this month\n", st.UsedThisMonth, st.MonthlyLimit)
	} else {
		fmt.Fprintf(w, "Usage: %d this month (unlimited)\n", st.UsedThisMonth)
	}
}
