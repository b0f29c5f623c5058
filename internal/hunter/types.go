// Package hunter implements the signal-hunting pipeline: query expansion,
// grounded evidence hunting, synthesis into categorized opportunity records,
// and the controller that drives one run through its stages.
package hunter

import "time"

// Category ranks an opportunity by pain and frequency potential.
type Category string

const (
	// CategoryGoldMine marks high pain, high frequency problems.
	CategoryGoldMine Category = "GOLD_MINE"
	// CategoryNicheGem marks high pain, low frequency problems.
	CategoryNicheGem Category = "NICHE_GEM"
	// CategoryNoise marks low-impact complaints.
	CategoryNoise Category = "NOISE"
)

// Valid reports whether c is one of the three defined categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryGoldMine, CategoryNicheGem, CategoryNoise:
		return true
	}
	return false
}

// SolutionIdea is the product idea attached to a problem. Type is "SaaS" or
// "Service".
type SolutionIdea struct {
	Title string `json:"title"`
	Pitch string `json:"pitch"`
	Type  string `json:"type"`
}

// Problem is a single identified opportunity ("signal"). Scores are intended
// on a 0-10 scale; out-of-range values are flagged during synthesis, not
// rejected. IDs are generated locally and are unique within a batch.
type Problem struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	PainScore      float64      `json:"pain_score"`
	FrequencyScore float64      `json:"frequency_score"`
	Evidence       string       `json:"evidence"`
	Category       Category     `json:"category"`
	SolutionIdea   SolutionIdea `json:"solution_idea"`
}

// GroundingSource is one citation returned alongside a grounded answer.
type GroundingSource struct {
	URI   string `json:"uri"`
	Title string `json:"title,omitempty"`
}

// SearchResult is the persisted unit of work: one completed pipeline run.
type SearchResult struct {
	ID               string            `json:"id"`
	Query            string            `json:"query"`
	Problems         []Problem         `json:"problems"`
	Timestamp        time.Time         `json:"timestamp"`
	GroundingSources []GroundingSource `json:"groundingSources"`
}

// Stage is the pipeline state machine label.
type Stage string

const (
	StageIdle         Stage = "idle"
	StageExpanding    Stage = "expanding"
	StageHunting      Stage = "hunting"
	StageSynthesizing Stage = "synthesizing"
	StageCompleted    Stage = "completed"
	StageError        Stage = "error"
)

// PipelineStatus is emitted to the presentation layer after every transition.
type PipelineStatus struct {
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
}

// Outcome distinguishes "nothing found" from "output could not be parsed".
type Outcome string

const (
	// OutcomeFound means synthesis produced at least one problem.
	OutcomeFound Outcome = "found"
	// OutcomeEmpty means synthesis parsed cleanly but produced no problems.
	OutcomeEmpty Outcome = "empty"
	// OutcomeDegraded means the synthesis output could not be parsed and was
	// collapsed to an empty result.
	OutcomeDegraded Outcome = "degraded"
)
