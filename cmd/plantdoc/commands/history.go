package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"plantdoc/internal/domain"
)

// history: list past diagnoses through the query cache.
func historyCmd() *cobra.Command {
	var (
		recent  bool
		refresh bool
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past diagnoses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Authenticate(passphrase); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.GetRequestTimeout())
			defer cancel()

			var (
				records []domain.DiagnosisRecord
				err     error
			)
			if recent {
				records, err = appCtx.History.Recent(ctx, refresh)
			} else {
				records, err = appCtx.History.All(ctx, refresh)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}
			if len(records) == 0 {
				fmt.Fprintln(out, "No diagnoses yet.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tPLANT\tDISEASE\tCONFIDENCE\tID")
			for _, r := range records {
				date := "-"
				if !r.CreatedAt.IsZero() {
					date = r.CreatedAt.Local().Format("2006-01-02 15:04")
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.0f%%\t%s\n", date, r.PlantType, r.Disease, r.Confidence*100, r.ID)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&recent, "recent", false, "only the most recent diagnoses")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")
	return cmd
}
