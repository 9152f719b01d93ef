package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fleetmas/infra/logger"
	inframetrics "fleetmas/infra/metrics"
	"fleetmas/infra/mqtt"
	"fleetmas/internal/eventbus"
	"fleetmas/simulator"
)

var auctionCmd = &cobra.Command{
	Use:   "auction",
	Short: "Run the online auction allocation loop over a generated scenario",
	RunE:  runAuction,
}

func init() {
	rootCmd.AddCommand(auctionCmd)
}

func runAuction(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.NewWithLevel("auction", cfg.Logging.Level)
	sink, err := inframetrics.NewFromConfig(cfg.Metrics, logg)
	if err != nil {
		return err
	}
	if cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := inframetrics.StartPromServer(cfg.Metrics.PrometheusPort); err != nil {
				logg.Errorf("prom server: %v", err)
			}
		}()
	}

	bus := eventbus.New()
	defer bus.Close()
	_, sub := bus.Subscribe(64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range sub {
			switch {
			case ev.Change != nil:
				logg.Debugf("change: %s %s on %s", ev.Change.Kind, ev.Change.Request.ID, ev.Change.VehicleID)
			case ev.Auction != nil:
				logg.Debugf("auction: %s won by %s", ev.Auction.RequestID, ev.Auction.WinnerID)
			}
		}
	}()

	var pub mqtt.Publisher
	if cfg.MQTT.Enabled {
		p, err := mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("mqtt publisher: %w", err)
		}
		defer p.Disconnect()
		pub = p
	}

	sc := simulator.Generate(cfg.Scenario)
	runner := simulator.NewRunner(sc, cfg, logg, sink, bus, pub)
	report, err := runner.Run()
	if err != nil {
		return err
	}
	bus.Close()
	<-done

	fmt.Fprintf(cmd.OutOrStdout(), "delivered %d/%d, makespan %d, travel %d, tardiness %d, objective %.0f\n",
		report.Delivered, report.Requests, report.Makespan, report.TravelTime, report.Tardiness, report.Objective)
	return nil
}
