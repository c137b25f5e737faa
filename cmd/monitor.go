/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"dominum/domain"
	"dominum/interface/exporter"
	"dominum/interface/repository"
	"dominum/usecase"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// monitorCmd polls the deployed gas pool
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Polls the gas pool and publishes snapshots",
	Long: `Reads the gas pool every poll_interval, together with the market maker
when market_maker_address is set. Writes the latest snapshot to
output_file_path, stores it in the database when one is configured and exports
the balances as prometheus gauges.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := defaultLogger()

		pool, err := domain.GetGasPoolAddress()
		if err != nil {
			return err
		}
		client, err := defaultTongoClient()
		if err != nil {
			return err
		}

		contract := usecase.NewContractInteractor(client, log)
		cfg := usecase.MonitorConfig{
			Logger:         log,
			Reader:         usecase.NewChainPoolReader(contract, pool),
			Network:        domain.GetNetwork(),
			OutputFilePath: domain.GetOutputFilePath(),
			PollInterval:   domain.GetPollInterval(),
			DomDecimals:    domain.GetDomDecimals(),
			TonDecimals:    domain.GetTonDecimals(),
		}

		if maker := domain.GetMarketMakerAddress(); maker != nil {
			cfg.MarketMaker = usecase.NewChainMarketMakerReader(contract, *maker)
			log.Info("market maker is monitored", "market_maker", domain.FormatAddress(maker, domain.AddrFormatBouncable))
		}

		db, err := defaultDatabase()
		if err != nil {
			return err
		}
		if db != nil {
			defer db.Close()
			snapshots := repository.NewSnapshotRepository(db)
			cfg.Snapshots = snapshots

			address := domain.FormatAddress(&pool, domain.AddrFormatBouncable)
			if latest, err := snapshots.FindLatest(address); err != nil {
				log.Warn("🟡 reading latest snapshot", "error", err)
			} else if latest != nil {
				log.Info("resuming after stored snapshot",
					"read_at", latest.ReadAt,
					"run_id", latest.RunId,
					"price_ton_per_dom", latest.PriceTonPerDom)
			}
			cfg.Memo = usecase.NewMemoInteractor(repository.NewMemoRepository(db))
		}

		monitor, err := usecase.NewMonitorInteractor(cfg)
		if err != nil {
			return err
		}

		exporter.Init()

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		g, ctx := errgroup.WithContext(ctx)

		if address := domain.GetMetricsAddress(); address != "" {
			listener, err := net.Listen("tcp", address)
			if err != nil {
				return err
			}
			server := &http.Server{Handler: promhttp.Handler(), ReadHeaderTimeout: 5 * time.Second}
			log.Info("prometheus metrics server listening", "address", listener.Addr().String())

			g.Go(func() error {
				if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
				defer done()
				return server.Shutdown(shutdownCtx)
			})
		}

		g.Go(func() error {
			return monitor.Run(ctx)
		})

		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}
