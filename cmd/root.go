/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"dominum/domain"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dominum",
	Short: "Dominum token settlement network",
	Long: `Runs the Dominum settlement network locally, monitors a deployed gas pool
and sends administrative messages to deployed contracts.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		domain.ReadConfig(cfgFile)
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "./config.yaml", "config file")
}
