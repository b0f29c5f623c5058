package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/luigi970/Signal-Hunter/internal/hunter"
)

func mapOutcome() *hunter.RunOutcome {
	return &hunter.RunOutcome{
		Result: &hunter.SearchResult{
			ID:    "run-1",
			Query: "pet grooming",
			Problems: []hunter.Problem{
				{
					ID:             "p-noise",
					Title:          "Waiting room music",
					PainScore:      2,
					FrequencyScore: 3,
					Category:       hunter.CategoryNoise,
					SolutionIdea:   hunter.SolutionIdea{Title: "Playlists", Pitch: "Curated playlists", Type: "Service"},
				},
				{
					ID:             "p-gold",
					Title:          "Scheduling is chaos",
					PainScore:      9,
					FrequencyScore: 8,
					Evidence:       "I hate calling three times to book a slot",
					Category:       hunter.CategoryGoldMine,
					SolutionIdea:   hunter.SolutionIdea{Title: "GroomBook", Pitch: "Self-serve booking", Type: "SaaS"},
				},
			},
			GroundingSources: []hunter.GroundingSource{
				{URI: "https://reddit.com/r/doggrooming/1", Title: "groomer rant"},
				{URI: "https://example.com/forum"},
			},
		},
		Synthesis: hunter.OutcomeFound,
		Persisted: true,
	}
}

func TestRenderSignalMapGroupsByCategory(t *testing.T) {
	out := renderSignalMap(mapOutcome())

	if !strings.Contains(out, `SIGNAL MAP — "pet grooming" (2 signals)`) {
		t.Fatalf("missing header:\n%s", out)
	}

	goldIdx := strings.Index(out, "GOLD MINES")
	noiseIdx := strings.Index(out, "NOISE")
	if goldIdx < 0 || noiseIdx < 0 {
		t.Fatalf("missing category headings:\n%s", out)
	}
	// Categories render in fixed priority order regardless of input order.
	if goldIdx > noiseIdx {
		t.Fatalf("gold mines must render before noise:\n%s", out)
	}
	if strings.Contains(out, "NICHE GEMS") {
		t.Fatalf("empty categories must not render a heading:\n%s", out)
	}

	if !strings.Contains(out, "pain 9.0/10 · frequency 8.0/10") {
		t.Fatalf("missing scores:\n%s", out)
	}
	if !strings.Contains(out, "| I hate calling three times to book a slot") {
		t.Fatalf("missing evidence quote:\n%s", out)
	}
	if !strings.Contains(out, "idea: GroomBook (SaaS)") {
		t.Fatalf("missing solution idea:\n%s", out)
	}
	if !strings.Contains(out, "groomer rant (https://reddit.com/r/doggrooming/1)") {
		t.Fatalf("missing titled source:\n%s", out)
	}
	if !strings.Contains(out, "- https://example.com/forum") {
		t.Fatalf("missing untitled source:\n%s", out)
	}
	if strings.Contains(out, "warning:") {
		t.Fatalf("clean run must not print warnings:\n%s", out)
	}
}

func TestRenderSignalMapEmptyAndDegraded(t *testing.T) {
	empty := &hunter.RunOutcome{
		Result:    &hunter.SearchResult{Query: "pet grooming", Problems: []hunter.Problem{}},
		Synthesis: hunter.OutcomeEmpty,
		Persisted: true,
	}
	out := renderSignalMap(empty)
	if !strings.Contains(out, "No signals found for this niche.") {
		t.Fatalf("missing empty notice:\n%s", out)
	}

	degraded := &hunter.RunOutcome{
		Result:    &hunter.SearchResult{Query: "pet grooming", Problems: []hunter.Problem{}},
		Synthesis: hunter.OutcomeDegraded,
		Persisted: true,
	}
	out = renderSignalMap(degraded)
	if !strings.Contains(out, "could not be parsed") {
		t.Fatalf("missing degraded notice:\n%s", out)
	}
}

func TestRenderSignalMapSurfacesWarningsAndPersistence(t *testing.T) {
	outcome := mapOutcome()
	outcome.Warnings = []string{`problem "spiky" has out-of-range scores`}
	outcome.Persisted = false
	outcome.PersistErr = errors.New("disk full")

	out := renderSignalMap(outcome)
	if !strings.Contains(out, "warning: problem \"spiky\" has out-of-range scores") {
		t.Fatalf("missing data-quality warning:\n%s", out)
	}
	if !strings.Contains(out, "result was not saved to history: disk full") {
		t.Fatalf("missing persistence warning:\n%s", out)
	}
}
