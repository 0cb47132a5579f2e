package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/railops/inductd/app"
	"github.com/railops/inductd/config"
	"github.com/railops/inductd/core/facts"
	"github.com/railops/inductd/core/induction"
	"github.com/railops/inductd/core/model"
	"github.com/railops/inductd/pkg/export"
)

var (
	inductDepot  string
	inductCap    int
	inductActor  string
	inductOut    string
	inductFormat string
)

var inductCmd = &cobra.Command{
	Use:   "induct",
	Short: "Run one induction over the configured fleet and print the plan",
	RunE:  runInduct,
}

func init() {
	inductCmd.Flags().StringVar(&inductDepot, "depot", "", "restrict the run to one depot")
	inductCmd.Flags().IntVar(&inductCap, "cap", -1, "revenue cap (-1 means uncapped)")
	inductCmd.Flags().StringVar(&inductActor, "actor", "", "actor recorded on the run")
	inductCmd.Flags().StringVar(&inductOut, "out", "", "write the plan to a file instead of stdout")
	inductCmd.Flags().StringVar(&inductFormat, "format", "table", "output format: table, csv or json")
	rootCmd.AddCommand(inductCmd)
}

func runInduct(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg, nil)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	opts := induction.Options{Actor: inductActor}
	if inductCap >= 0 {
		opts.RevenueCap = &inductCap
	} else if cfg.Induction.DefaultRevenueCap > 0 {
		cap := cfg.Induction.DefaultRevenueCap
		opts.RevenueCap = &cap
	}

	run, err := svc.Engine.RunInduction(context.Background(), facts.Filter{Depot: inductDepot}, opts)
	var recErr *induction.RunRecordError
	switch {
	case err == nil:
	case errors.As(err, &recErr):
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", recErr)
	default:
		return err
	}

	out := cmd.OutOrStdout()
	if inductOut != "" {
		f, err := os.Create(inductOut)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	switch inductFormat {
	case "json":
		return export.WriteJSON(out, run)
	case "csv":
		return export.WriteCSV(out, run)
	case "table":
		printRun(cmd, run)
		return nil
	default:
		return fmt.Errorf("unknown format %q", inductFormat)
	}
}

func printRun(cmd *cobra.Command, run *model.InductionRun) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "run %s (%s)  revenue=%d standby=%d ibl=%d\n",
		run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"),
		run.Counts.Revenue, run.Counts.Standby, run.Counts.IBL)
	for _, warning := range run.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warning)
	}
	for _, o := range run.Results {
		detail := strings.Join(o.Reasons, "; ")
		fmt.Fprintf(w, "%-8s %-8s %7.1f  %s\n", o.TrainsetID, o.Decision, o.Score, detail)
	}
}
