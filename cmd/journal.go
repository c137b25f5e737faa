/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"dominum/domain"
	"dominum/interface/repository"
	"fmt"

	"github.com/spf13/cobra"
)

var journalQueryId uint64
var journalLimit int

// journalCmd prints handled messages recorded by simulate
var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Prints the message journal",
	Long: `Reads the messages recorded in the database. With --query-id every message
of one cascade is printed, otherwise the latest rejected and bounced ones.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := defaultDatabase()
		if err != nil {
			return err
		}
		if db == nil {
			return fmt.Errorf("service_db_uri is not configured")
		}
		defer db.Close()

		repo := repository.NewMessageRepository(db)

		var entries []domain.JournalEntry
		if cmd.Flags().Changed("query-id") {
			entries, err = repo.FindByQueryId(journalQueryId)
		} else {
			entries, err = repo.FindRejected(journalLimit)
		}
		if err != nil {
			return err
		}

		for _, e := range entries {
			line := fmt.Sprintf("%v %-14v %-24v %-9v", e.HandledAt.UTC().Format("2006-01-02T15:04:05Z"),
				e.Contract, domain.OpName(e.Opcode), e.Result)
			if e.ExitCode != 0 {
				line += fmt.Sprintf(" code=%v (%v)", e.ExitCode, e.Error)
			}
			fmt.Println(line)
		}
		fmt.Printf("%v message(s)\n", len(entries))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(journalCmd)

	journalCmd.Flags().Uint64Var(&journalQueryId, "query-id", 0, "print the cascade of one query id")
	journalCmd.Flags().IntVar(&journalLimit, "limit", 20, "number of rejected messages to print")
}
