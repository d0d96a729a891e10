package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/hallsched/config"
	"github.com/kilianp07/hallsched/infra/logger"
)

var (
	cfgPath string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "hallsched",
	Short:         "Assign events to halls without overlaps",
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := logger.Configure(c.Logging.Options()); err != nil {
			return fmt.Errorf("configure logger: %w", err)
		}
		cfg = c
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (defaults and HS_ environment variables when empty)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }
