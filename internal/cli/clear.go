package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewClearCmd wipes the learning history.
func NewClearCmd(configPath *string) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all learning history (irreversible)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete history without --yes")
			}
			env, err := bootstrap(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer env.Close()

			if err := env.service.ClearData(cmd.Context(), yes); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "learning history deleted")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}
