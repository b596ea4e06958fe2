package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"plantdoc/internal/domain"
)

// preview <image>: print the data URL the upload flow would show.
func previewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview <image>",
		Short: "Print an image as a data URL preview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := domain.OpenImageFile(args[0])
			if err != nil {
				return err
			}

			flow := appCtx.NewFlow()
			flow.SelectFile(file)
			defer flow.Wait()

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.GetRequestTimeout())
			defer cancel()
			if err := flow.WaitPreview(ctx); err != nil {
				return err
			}
			if err := flow.PreviewErr(); err != nil {
				return err
			}
			p := flow.Preview()
			if p == "" {
				return fmt.Errorf("could not build a preview for %s", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}
}
