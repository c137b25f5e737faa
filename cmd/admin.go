/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"dominum/domain"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tonkeeper/tongo"
	"github.com/tonkeeper/tongo/tlb"
)

// adminCmd groups the operator's messages to deployed contracts
var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Sends administrative messages from the operator wallet",
}

var mintCmd = &cobra.Command{
	Use:   "mint <amount>",
	Short: "Mints raw units through the issuer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", args[0], err)
		}
		issuer, err := domain.GetIssuerAddress()
		if err != nil {
			return err
		}
		admin, err := defaultAdminInteractor()
		if err != nil {
			return err
		}
		return admin.Mint(cmd.Context(), issuer, tlb.Grams(amount))
	},
}

var setGiverWalletCmd = &cobra.Command{
	Use:   "set-giver-wallet <giver> <wallet>",
	Short: "Points a giver at its token account through the registry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		giver, err := parseAddress(args[0])
		if err != nil {
			return err
		}
		wallet, err := parseAddress(args[1])
		if err != nil {
			return err
		}
		registry, err := domain.GetRegistryAddress()
		if err != nil {
			return err
		}
		admin, err := defaultAdminInteractor()
		if err != nil {
			return err
		}
		return admin.SetGiverWallet(cmd.Context(), registry, giver, wallet)
	},
}

var setWalletConfigCmd = &cobra.Command{
	Use:   "set-wallet-config <wallet-code.boc>",
	Short: "Commits the gas proxy wallet config, once",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		proxy, err := domain.GetGasProxyAddress()
		if err != nil {
			return err
		}
		issuer, err := domain.GetIssuerAddress()
		if err != nil {
			return err
		}
		admin, err := defaultAdminInteractor()
		if err != nil {
			return err
		}
		return admin.SetWalletConfig(cmd.Context(), proxy, issuer, code)
	},
}

var requestChangePoolCmd = &cobra.Command{
	Use:   "request-change-pool [candidate]",
	Short: "Starts the timelock for pointing the gas proxy at a new pool",
	Long:  `Starts the timelock for pointing the gas proxy at a new pool. Without an argument the configured gas_pool_address is used.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var candidate tongo.AccountID
		var err error
		if len(args) == 1 {
			candidate, err = parseAddress(args[0])
		} else {
			candidate, err = domain.GetGasPoolAddress()
		}
		if err != nil {
			return err
		}
		proxy, err := domain.GetGasProxyAddress()
		if err != nil {
			return err
		}
		admin, err := defaultAdminInteractor()
		if err != nil {
			return err
		}
		return admin.RequestChangePool(cmd.Context(), proxy, candidate)
	},
}

var confirmChangePoolCmd = &cobra.Command{
	Use:   "confirm-change-pool",
	Short: "Confirms the pending gas pool change after the timelock",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		proxy, err := domain.GetGasProxyAddress()
		if err != nil {
			return err
		}
		admin, err := defaultAdminInteractor()
		if err != nil {
			return err
		}
		return admin.ConfirmChangePool(cmd.Context(), proxy)
	},
}

func parseAddress(value string) (tongo.AccountID, error) {
	parse := tongo.AccountIDFromBase64Url
	if strings.Contains(value, ":") {
		parse = tongo.AccountIDFromRaw
	}
	accid, err := parse(value)
	if err != nil {
		return tongo.AccountID{}, fmt.Errorf("invalid address %q: %w", value, err)
	}
	return accid, nil
}

func init() {
	rootCmd.AddCommand(adminCmd)

	adminCmd.AddCommand(mintCmd)
	adminCmd.AddCommand(setGiverWalletCmd)
	adminCmd.AddCommand(setWalletConfigCmd)
	adminCmd.AddCommand(requestChangePoolCmd)
	adminCmd.AddCommand(confirmChangePoolCmd)
}
