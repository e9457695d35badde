package main

import (
	"fmt"

	"github.com/pthm/flight/lib/scenario"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var traceCmd = &cobra.Command{
	Use:   "trace <file> <scenario.yaml>",
	Short: "Replay an event scenario against a page and report leaks",
	Long: `Attach a tracing component to the nodes a scenario names, replay its
events, tear everything down and report what was delivered.

The command fails when teardown leaves listeners registered.`,
	Example: `  flight trace page.html clicks.yaml
  flight trace -v page.html clicks.yaml`,
	Args: cobra.ExactArgs(2),
	RunE: runTrace,
}

func runTrace(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	doc, err := parseFile(args[0])
	if err != nil {
		return err
	}
	sc, err := scenario.LoadFile(args[1])
	if err != nil {
		return err
	}

	report, err := scenario.Run(doc, sc, logger)
	if err != nil {
		return err
	}

	logger.Info("trace complete",
		zap.Int("instances", report.Instances),
		zap.Int("bound", report.Bound),
		zap.Int("delivered", len(report.Deliveries)),
		zap.Int("leaked", report.Leaked))

	out := cmd.OutOrStdout()
	for _, d := range report.Deliveries {
		fmt.Fprintf(out, "step %d\t%s\t%s\t%s\t%s\n", d.Step, d.Event, d.Target, d.Matched, d.Instance)
	}
	if report.Leaked > 0 {
		return fmt.Errorf("%d listeners still registered after teardown", report.Leaked)
	}
	return nil
}
