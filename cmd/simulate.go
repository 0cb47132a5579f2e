package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/railops/inductd/app"
	"github.com/railops/inductd/config"
	"github.com/railops/inductd/core/facts"
	"github.com/railops/inductd/core/model"
)

var (
	simDepot         string
	simIgnoreJobs    bool
	simIgnoreClean   bool
	simForceBranding bool
	simLowMileage    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a what-if simulation under rule toggles",
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&simDepot, "depot", "", "restrict the run to one depot")
	simulateCmd.Flags().BoolVar(&simIgnoreJobs, "ignore-job-cards", false, "skip the open-job-card override")
	simulateCmd.Flags().BoolVar(&simIgnoreClean, "ignore-cleaning", false, "skip the cleaning-overdue downgrade")
	simulateCmd.Flags().BoolVar(&simForceBranding, "force-high-branding", false, "promote safe high-branding standbys")
	simulateCmd.Flags().BoolVar(&simLowMileage, "prioritize-low-mileage", false, "promote safe low-mileage standbys")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg, nil)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	rules := model.SimulationRuleSet{
		IgnoreJobCards:       simIgnoreJobs,
		IgnoreCleaning:       simIgnoreClean,
		ForceHighBranding:    simForceBranding,
		PrioritizeLowMileage: simLowMileage,
	}
	outcomes, err := svc.Engine.RunSimulation(context.Background(), facts.Filter{Depot: simDepot}, rules)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	counts := model.Recount(outcomes)
	fmt.Fprintf(w, "simulation  revenue=%d standby=%d ibl=%d\n", counts.Revenue, counts.Standby, counts.IBL)
	for _, o := range outcomes {
		fmt.Fprintf(w, "%-8s %-8s %s\n", o.TrainsetID, o.Decision, strings.Join(o.Reasons, "; "))
	}
	return nil
}
