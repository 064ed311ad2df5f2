package cli

import (
	"ipclaim/internal/core/fingerprint"

	"github.com/spf13/cobra"
)

func (a *app) fingerprintCmd() *cobra.Command {
	var title, desc string
	cmd := &cobra.Command{
		Use:   "fingerprint",
		Short: "Print the content fingerprint of a title and description",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := printer(a.settings().Lang).Fprintln(a.out, fingerprint.OfTrimmed(title, desc))
			return err
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "claim title")
	cmd.Flags().StringVarP(&desc, "description", "d", "", "claim description")
	return cmd
}
