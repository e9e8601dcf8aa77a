package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// NewStatsCmd prints the learning dashboard.
func NewStatsCmd(configPath *string) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show learning history, streak and category mastery",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := bootstrap(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer env.Close()

			d := env.service.Dashboard()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(d)
			}
			renderDashboard(cmd.OutOrStdout(), d)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
