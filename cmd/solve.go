package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fleetmas/infra/logger"
	inframetrics "fleetmas/infra/metrics"
	"fleetmas/simulator"
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a generated scenario offline with late acceptance",
	RunE:  runSolve,
}

func init() {
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.NewWithLevel("solve", cfg.Logging.Level)
	sink, err := inframetrics.NewFromConfig(cfg.Metrics, logg)
	if err != nil {
		return err
	}

	sc := simulator.Generate(cfg.Scenario)
	logg.Infof("solving %d requests with %d vehicles", len(sc.Requests), sc.Vehicles)
	sol, err := simulator.SolveOffline(sc, cfg.Solver, logg, sink)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "objective: %.0f\n", sol.Objective)
	for v, vs := range sol.Vehicles {
		fmt.Fprintf(cmd.OutOrStdout(), "vehicle-%d: %v (%.0f)\n", v, vs.Route, vs.Objective)
	}
	return nil
}
