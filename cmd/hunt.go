package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/luigi970/Signal-Hunter/internal/hunter"
	"github.com/luigi970/Signal-Hunter/internal/inference"
	"github.com/luigi970/Signal-Hunter/internal/persist"
)

var huntOwner string

var huntCmd = &cobra.Command{
	Use:   "hunt <niche>",
	Short: "Run one signal hunt from the terminal",
	Args:  cobra.MinimumNArgs(1),
	Run:   runHunt,
}

func init() {
	rootCmd.AddCommand(huntCmd)
	huntCmd.Flags().StringVar(&huntOwner, "owner", "local", "Owner identity for persistence and credits")
}

func runHunt(cmd *cobra.Command, args []string) {
	niche := strings.Join(args, " ")
	cfg := loadConfig()

	client, err := inference.NewClient(cmd.Context(), cfg.Inference)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating inference client: %v\n", err)
		os.Exit(1)
	}

	store, err := persist.NewStore(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if profile, err := store.EnsureProfile(huntOwner); err == nil {
		pro := ""
		if profile.IsPro {
			pro = " [PRO]"
		}
		fmt.Printf("Hunter: %s%s — %d credits used\n\n", huntOwner, pro, profile.CreditsUsed)
	}

	controller := hunter.NewController(
		hunter.NewExpander(client),
		hunter.NewSynthesizer(client),
		store,
		time.Duration(cfg.Pipeline.StageTimeoutSec)*time.Second,
	)

	statusCh, cancelSub := controller.Subscribe()
	defer cancelSub()
	go func() {
		for st := range statusCh {
			switch st.Stage {
			case hunter.StageExpanding, hunter.StageHunting, hunter.StageSynthesizing:
				fmt.Printf("  > %-13s %s\n", st.Stage, st.Message)
			}
		}
	}()

	outcome, err := controller.Run(cmd.Context(), hunter.RunContext{OwnerID: huntOwner, Query: niche})
	if err != nil {
		if errors.Is(err, hunter.ErrEmptyQuery) || errors.Is(err, hunter.ErrBusy) {
			fmt.Fprintln(os.Stderr, err)
		} else {
			fmt.Fprintln(os.Stderr, controller.Status().Message)
		}
		os.Exit(1)
	}

	fmt.Print(renderSignalMap(outcome))
}

// categoryOrder fixes the display order of the signal map.
var categoryOrder = []hunter.Category{
	hunter.CategoryGoldMine,
	hunter.CategoryNicheGem,
	hunter.CategoryNoise,
}

var categoryHeadings = map[hunter.Category]string{
	hunter.CategoryGoldMine: "GOLD MINES (high pain, high frequency)",
	hunter.CategoryNicheGem: "NICHE GEMS (high pain, low frequency)",
	hunter.CategoryNoise:    "NOISE (low impact)",
}

// renderSignalMap renders a completed run as the terminal signal map.
func renderSignalMap(outcome *hunter.RunOutcome) string {
	var b strings.Builder
	r := outcome.Result

	fmt.Fprintf(&b, "\nSIGNAL MAP — %q (%d signals)\n", r.Query, len(r.Problems))

	if outcome.Synthesis == hunter.OutcomeDegraded {
		b.WriteString("The synthesis output could not be parsed; showing an empty map.\n")
	} else if len(r.Problems) == 0 {
		b.WriteString("No signals found for this niche.\n")
	}

	for _, cat := range categoryOrder {
		wroteHeading := false
		for _, p := range r.Problems {
			if p.Category != cat {
				continue
			}
			if !wroteHeading {
				fmt.Fprintf(&b, "\n== %s ==\n", categoryHeadings[cat])
				wroteHeading = true
			}
			fmt.Fprintf(&b, "\n  %s\n", p.Title)
			fmt.Fprintf(&b, "  pain %.1f/10 · frequency %.1f/10\n", p.PainScore, p.FrequencyScore)
			if p.Evidence != "" {
				fmt.Fprintf(&b, "  | %s\n", p.Evidence)
			}
			fmt.Fprintf(&b, "  idea: %s (%s) — %s\n",
				p.SolutionIdea.Title, p.SolutionIdea.Type, p.SolutionIdea.Pitch)
		}
	}

	if len(r.GroundingSources) > 0 {
		b.WriteString("\nSources:\n")
		for _, src := range r.GroundingSources {
			if src.Title != "" {
				fmt.Fprintf(&b, "  - %s (%s)\n", src.Title, src.URI)
			} else {
				fmt.Fprintf(&b, "  - %s\n", src.URI)
			}
		}
	}

	for _, warn := range outcome.Warnings {
		fmt.Fprintf(&b, "\nwarning: %s\n", warn)
	}
	if !outcome.Persisted {
		fmt.Fprintf(&b, "\nwarning: result was not saved to history: %v\n", outcome.PersistErr)
	}

	return b.String()
}
