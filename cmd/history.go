package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luigi970/Signal-Hunter/internal/hunter"
	"github.com/luigi970/Signal-Hunter/internal/persist"
)

var historyOwner string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List persisted hunts",
	Run:   runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historyOwner, "owner", "local", "Owner identity")
}

func runHistory(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	store, err := persist.NewStore(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	searches, err := store.ListSearches(historyOwner)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading history: %v\n", err)
		os.Exit(1)
	}
	if len(searches) == 0 {
		fmt.Println("No hunts recorded yet.")
		return
	}

	for _, s := range searches {
		goldMines := 0
		for _, p := range s.Problems {
			if p.Category == hunter.CategoryGoldMine {
				goldMines++
			}
		}
		fmt.Printf("%s  %-30q  %d signals (%d gold mines)\n",
			s.Timestamp.Format("2006-01-02 15:04"), s.Query, len(s.Problems), goldMines)
	}
}
