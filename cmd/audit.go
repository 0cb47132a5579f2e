package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/railops/inductd/app"
	"github.com/railops/inductd/config"
	"github.com/railops/inductd/core/audit"
)

var (
	auditLimit    int
	auditDepot    string
	auditTrainset string
	auditSince    string
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit log commands",
}

var auditLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List recorded induction runs, newest first",
	RunE:  runAuditLs,
}

func init() {
	auditLsCmd.Flags().IntVar(&auditLimit, "limit", 20, "maximum runs to list")
	auditLsCmd.Flags().StringVar(&auditDepot, "depot", "", "filter by depot")
	auditLsCmd.Flags().StringVar(&auditTrainset, "trainset", "", "filter by trainset id")
	auditLsCmd.Flags().StringVar(&auditSince, "since", "", "only runs at or after this RFC3339 time")
	auditCmd.AddCommand(auditLsCmd)
	rootCmd.AddCommand(auditCmd)
}

func runAuditLs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg, nil)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	q := audit.Query{Limit: auditLimit, Depot: auditDepot, TrainsetID: auditTrainset}
	if auditSince != "" {
		t, err := time.Parse(time.RFC3339, auditSince)
		if err != nil {
			return fmt.Errorf("parse --since: %w", err)
		}
		q.Start = t
	}
	runs, err := svc.Store.Query(context.Background(), q)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	for _, r := range runs {
		fmt.Fprintf(w, "%s  %s  revenue=%d standby=%d ibl=%d  rule_set=%s\n",
			r.ID, r.CreatedAt.Format(time.RFC3339),
			r.Counts.Revenue, r.Counts.Standby, r.Counts.IBL, r.RuleSetID)
	}
	return nil
}
