package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/hallsched/app"
	"github.com/kilianp07/hallsched/pkg/ingest"
)

var validateHalls int

var validateCmd = &cobra.Command{
	Use:   "validate <events-file>",
	Short: "Check an event file without scheduling it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		batch, err := ingest.ReadFile(args[0], ingest.CalendarOptions{})
		if err != nil {
			return err
		}
		svc, err := app.NewFromConfig(cfg)
		if err != nil {
			return err
		}
		halls := resolveHalls(validateHalls, batch.Halls)
		if err := svc.Validate(batch.Events, halls); err != nil {
			return fmt.Errorf("invalid batch: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %d events, %d halls\n", len(batch.Events), halls)
		return nil
	},
}

func init() {
	validateCmd.Flags().IntVar(&validateHalls, "halls", 0, "number of halls (file value, then scheduler.default_halls when 0)")
	rootCmd.AddCommand(validateCmd)
}
