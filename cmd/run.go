package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/hallsched/app"
	"github.com/kilianp07/hallsched/core/model"
	"github.com/kilianp07/hallsched/core/scheduler"
	"github.com/kilianp07/hallsched/pkg/export"
	"github.com/kilianp07/hallsched/pkg/ingest"
	"github.com/kilianp07/hallsched/pkg/report"
)

var runOpts struct {
	halls     int
	algorithm string
	budget    time.Duration
	format    string
	output    string
	report    string
}

var runCmd = &cobra.Command{
	Use:   "run <events-file>",
	Short: "Schedule the events of a JSON, YAML, CSV or iCalendar file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchedule,
}

func init() {
	f := runCmd.Flags()
	f.IntVar(&runOpts.halls, "halls", 0, "number of halls (file value, then scheduler.default_halls when 0)")
	f.StringVarP(&runOpts.algorithm, "algorithm", "a", "both", "greedy, backtracking or both")
	f.DurationVar(&runOpts.budget, "budget", -1, "backtracking time budget (scheduler.budget_ms when negative)")
	f.StringVarP(&runOpts.format, "format", "f", "text", "output format: text, json or csv")
	f.StringVarP(&runOpts.output, "output", "o", "", "write the result to this file instead of stdout")
	f.StringVar(&runOpts.report, "report", "", "write an HTML chart report to this file")
	rootCmd.AddCommand(runCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	batch, err := ingest.ReadFile(args[0], ingest.CalendarOptions{})
	if err != nil {
		return err
	}
	halls := resolveHalls(runOpts.halls, batch.Halls)
	budget := runOpts.budget
	if budget < 0 {
		budget = cfg.Scheduler.Budget()
	}

	svc, err := app.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	var results []model.Result
	if runOpts.algorithm == "both" {
		cmp, err := svc.Compare(batch.Events, halls, budget)
		if err != nil {
			return err
		}
		results = []model.Result{cmp.Greedy, cmp.Backtracking}
	} else {
		alg, err := model.ParseAlgorithm(runOpts.algorithm)
		if err != nil {
			return err
		}
		var res model.Result
		if alg == model.AlgorithmGreedy {
			res, err = svc.Greedy(batch.Events, halls)
		} else {
			res, err = svc.Backtracking(batch.Events, halls, budget)
		}
		if err != nil {
			return err
		}
		results = []model.Result{res}
	}

	out := cmd.OutOrStdout()
	if runOpts.output != "" {
		f, err := os.Create(runOpts.output)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	if err := writeResults(out, runOpts.format, results); err != nil {
		return err
	}
	if runOpts.report != "" {
		f, err := os.Create(runOpts.report)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		if err := report.Render(f, results...); err != nil {
			return fmt.Errorf("render report: %w", err)
		}
	}
	return nil
}

// resolveHalls prefers the flag, then the batch, then the configured default.
func resolveHalls(flag, batch int) int {
	switch {
	case flag != 0:
		return flag
	case batch != 0:
		return batch
	default:
		return cfg.Scheduler.DefaultHalls
	}
}

func writeResults(w io.Writer, format string, results []model.Result) error {
	if format == "text" {
		for _, r := range results {
			printResult(w, r)
		}
		return nil
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	if f == export.FormatJSON && len(results) > 1 {
		return export.WriteJSON(w, results)
	}
	for _, r := range results {
		if err := export.Write(w, f, r); err != nil {
			return err
		}
	}
	return nil
}

func printResult(w io.Writer, r model.Result) {
	fmt.Fprintf(w, "%s: %d/%d events scheduled on %d halls in %.3f ms",
		r.Algorithm, r.ScheduledCount, r.ScheduledCount+len(r.Unscheduled), r.Halls, r.ElapsedMS())
	if r.TimedOut {
		fmt.Fprint(w, " (budget exhausted)")
	}
	fmt.Fprintln(w)
	for i, h := range r.Scheduled {
		pct := 0.0
		if i < len(r.Utilization) {
			pct = r.Utilization[i].Percent
		}
		fmt.Fprintf(w, "  hall %d (%.1f%%):", h.Hall+1, pct)
		for _, e := range h.Events {
			fmt.Fprintf(w, " %s", e.Event)
		}
		fmt.Fprintln(w)
	}
	if len(r.Unscheduled) > 0 {
		fmt.Fprint(w, "  unscheduled:")
		for _, e := range r.Unscheduled {
			fmt.Fprintf(w, " %s", e)
		}
		fmt.Fprintln(w)
	}
	sum := app.Summarize(r.Utilization)
	fmt.Fprintf(w, "  utilization mean %.1f%% std %.1f min %.1f%% max %.1f%%\n", sum.Mean, sum.StdDev, sum.Min, sum.Max)
	if cx, ok := scheduler.ComplexityOf(r.Algorithm); ok {
		fmt.Fprintf(w, "  complexity: time %s; space %s\n", cx.Time, cx.Space)
	}
}
