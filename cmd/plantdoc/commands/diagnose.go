package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"plantdoc/internal/app"
	"plantdoc/internal/domain"
)

// diagnose <image>...: submit leaf photos, one upload flow per image.
func diagnoseCmd() *cobra.Command {
	var (
		parallel int
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "diagnose <image>...",
		Short: "Submit leaf photos for diagnosis",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Authenticate(passphrase); err != nil {
				return err
			}
			if !cmd.Flags().Changed("parallel") {
				parallel = cfg.Client.Parallel
			}

			runner := app.New(appCtx.NewFlow, logger.Named("batch"), parallel)
			results, err := runner.DiagnoseFiles(cmd.Context(), args)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if encErr := enc.Encode(results); encErr != nil {
					return encErr
				}
			} else {
				for _, r := range results {
					printResult(out, r)
				}
			}
			if err != nil {
				return fmt.Errorf("%d of %d images failed", failed(results), len(results))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&parallel, "parallel", 2, "images submitted at once")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}

func printResult(w io.Writer, r app.Result) {
	if r.Record == nil {
		fmt.Fprintf(w, "%s: failed (%s)\n", r.Path, r.Kind)
		switch r.Kind {
		case domain.KindTrialAvailable:
			fmt.Fprintln(w, "  Run `plantdoc trial start` to begin your free trial.")
		case domain.KindUpgradeNeeded, domain.KindMonthlyLimit:
			fmt.Fprintln(w, "  Upgrade to Premium to keep diagnosing this month.")
		}
		return
	}
	rec := r.Record
	fmt.Fprintf(w, "%s: %s", r.Path, rec.Disease)
	if rec.PlantType != "" {
		fmt.Fprintf(w, " on %s", rec.PlantType)
	}
	if rec.Confidence > 0 {
		fmt.Fprintf(w, " (%.0f%% confidence)", rec.Confidence*100)
	}
	fmt.Fprintln(w)
	if rec.Treatment != "" {
		fmt.Fprintf(w, "  Treatment: %s\n", rec.Treatment)
	}
}

func failed(results []app.Result) int {
	n := 0
	for _, r := range results {
		if r.Record == nil {
			n++
		}
	}
	return n
}
