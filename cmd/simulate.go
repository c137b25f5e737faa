/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"dominum/domain"
	"dominum/domain/util"
	"dominum/interface/repository"
	"dominum/usecase"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"github.com/tonkeeper/tongo/tlb"
)

var simulateAmount uint64
var simulateReserve uint64
var simulateSnapshot string
var simulateTimeout time.Duration

// simulateCmd runs the reference settlement locally
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Runs a mint through a local settlement network",
	Long: `Deploys a settlement network in-process, mints the given amount, waits until
every message has been handled and prints the resulting ledger.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), simulateTimeout)
		defer cancel()

		log := defaultLogger()

		cfg := usecase.NetworkConfig{
			Logger: log,
			Clock:  clockwork.NewFakeClockAt(time.Now()),
		}
		db, err := defaultDatabase()
		if err != nil {
			return err
		}
		if db != nil {
			cfg.Journal = repository.NewMessageRepository(db)
		}

		network, err := usecase.NewNetwork(cfg)
		if err != nil {
			return err
		}
		defer network.Close()

		deployment, err := usecase.NewDeployer(network, log).Deploy(ctx, usecase.DefaultDeploymentConfig())
		if err != nil {
			return err
		}
		if simulateReserve > 0 {
			sponsor := domain.AddressFromSeed("reserve-sponsor")
			if err := deployment.TopUpReserve(ctx, sponsor, tlb.Grams(simulateReserve)); err != nil {
				return err
			}
		}
		if err := deployment.Mint(ctx, tlb.Grams(simulateAmount)); err != nil {
			return err
		}

		report, err := deployment.Report(ctx)
		if err != nil {
			return err
		}
		printReport(report, domain.GetDomDecimals())

		if simulateSnapshot != "" {
			monitor, err := usecase.NewMonitorInteractor(usecase.MonitorConfig{
				Logger:         log,
				Clock:          network.Clock(),
				Reader:         usecase.NewNetworkPoolReader(deployment.State(), deployment.GasPool),
				Network:        "simulation",
				OutputFilePath: simulateSnapshot,
				PollInterval:   time.Second,
				DomDecimals:    domain.GetDomDecimals(),
				TonDecimals:    domain.GetTonDecimals(),
			})
			if err != nil {
				return err
			}
			if _, err := monitor.Poll(ctx); err != nil {
				return err
			}
		}

		if !report.Conserved() {
			return fmt.Errorf("supply %v is not conserved, %v accounted", report.TotalSupply, report.Accounted())
		}
		return nil
	},
}

func printReport(report *domain.SettlementReport, decimals int) {
	fmt.Printf("------------- SETTLEMENT -----------------\n")
	fmt.Printf("total supply : %v\n", util.UnitsString(report.TotalSupply, decimals, "DOM"))
	for i, holder := range report.Holders {
		label := holder.Label
		if label == "" {
			label = holder.Owner.ToRaw()
		}
		fmt.Printf("#%03d - %-22v %v\n", i+1, label, util.UnitsString(holder.Balance, decimals, "DOM"))
	}
	fmt.Printf("treasury     : %v\n", util.UnitsString(report.Treasury, decimals, "DOM"))
	fmt.Printf("gas pool     : %v\n", util.UnitsString(report.GasPoolDom, decimals, "DOM"))
	fmt.Printf("gas reserve  : %v\n", util.GramToTonString(int64(report.GasPoolTon)))

	if report.Conserved() {
		fmt.Printf("✅ supply conserved\n")
	} else {
		fmt.Printf("❌ supply not conserved\n")
	}
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().Uint64Var(&simulateAmount, "amount", 4_000_000_000, "amount to mint in raw units")
	simulateCmd.Flags().Uint64Var(&simulateReserve, "reserve", 0, "nanotons to top up the gas pool reserve with before minting")
	simulateCmd.Flags().StringVar(&simulateSnapshot, "snapshot", "", "write a gas pool snapshot of the final state to this file")
	simulateCmd.Flags().DurationVar(&simulateTimeout, "timeout", 30*time.Second, "time limit for the whole run")
}
