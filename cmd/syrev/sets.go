package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	setsCmd.AddCommand(setsRmCmd)
	rootCmd.AddCommand(setsCmd)
}

var setsCmd = &cobra.Command{
	Use:   "sets",
	Short: "List cached record sets",
	RunE:  runSets,
}

func runSets(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	db := mustOpenDB(cfg)
	defer db.Close()

	sets, err := db.ListSets()
	if err != nil {
		exitWithError(ExitError, "listing sets: %v", err)
	}
	if len(sets) == 0 {
		fmt.Println("No cached record sets")
		return nil
	}

	for _, s := range sets {
		fmt.Printf("%-24s %6d records  %s  %s\n",
			s.Name, s.Records, s.CreatedAt.Format("2006-01-02 15:04"), truncateString(s.Query, 60))
	}
	return nil
}

var setsRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a cached record set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		db := mustOpenDB(cfg)
		defer db.Close()

		if err := db.DeleteSet(args[0]); err != nil {
			exitWithError(ExitError, "deleting set %q: %v", args[0], err)
		}
		success("Deleted set %q", args[0])
		return nil
	},
}
