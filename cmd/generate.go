package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/hallsched/core/generator"
	"github.com/kilianp07/hallsched/pkg/export"
)

var genOpts struct {
	format string
	output string
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a random event batch",
	RunE:  generateEvents,
}

func init() {
	f := generateCmd.Flags()
	f.Int("count", 0, "number of events (generator.count when unset)")
	f.Int("from", 0, "earliest start (generator.from when unset)")
	f.Int("to", 0, "latest start (generator.to when unset)")
	f.Int("min-len", 0, "minimum length (generator.min_len when unset)")
	f.Int("max-len", 0, "maximum length (generator.max_len when unset)")
	f.Int64("seed", 0, "random seed, 0 for a time based one (generator.seed when unset)")
	f.StringVarP(&genOpts.format, "format", "f", "json", "output format: json, yaml or csv")
	f.StringVarP(&genOpts.output, "output", "o", "", "write to this file instead of stdout")
	rootCmd.AddCommand(generateCmd)
}

func generateEvents(cmd *cobra.Command, args []string) error {
	gc := cfg.Generator
	flags := cmd.Flags()
	overrideInt := func(name string, dst *int) {
		if flags.Changed(name) {
			*dst, _ = flags.GetInt(name)
		}
	}
	overrideInt("count", &gc.Count)
	overrideInt("from", &gc.From)
	overrideInt("to", &gc.To)
	overrideInt("min-len", &gc.MinLen)
	overrideInt("max-len", &gc.MaxLen)
	if flags.Changed("seed") {
		gc.Seed, _ = flags.GetInt64("seed")
	}

	g, err := generator.New(gc)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(genOpts.format)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if genOpts.output != "" {
		f, err := os.Create(genOpts.output)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	return export.WriteEvents(out, format, g.Events())
}
