package hunter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/luigi970/Signal-Hunter/internal/inference"
	"github.com/luigi970/Signal-Hunter/internal/logger"
)

// SynthesisOutput carries the structured result of the fused hunt/synthesize
// stage. Outcome distinguishes a genuinely empty hunt from a degraded parse;
// Warnings records data-quality findings (dropped categories, out-of-range
// scores) without failing the run.
type SynthesisOutput struct {
	Problems []Problem
	Sources  []GroundingSource
	Outcome  Outcome
	Warnings []string
}

// Synthesizer is stages 2+3 fused: one grounded inference call hunts for
// evidence across the expanded queries and synthesizes it into categorized
// problems plus citation sources.
type Synthesizer struct {
	client inference.Client
}

func NewSynthesizer(client inference.Client) *Synthesizer {
	return &Synthesizer{client: client}
}

// problemShape is the wire shape of one problem as contracted with the
// provider. It never carries an id; ids are assigned locally.
type problemShape struct {
	Title          string       `json:"title"`
	PainScore      float64      `json:"pain_score"`
	FrequencyScore float64      `json:"frequency_score"`
	Evidence       string       `json:"evidence"`
	Category       string       `json:"category"`
	SolutionIdea   SolutionIdea `json:"solution_idea"`
}

// HuntAndSynthesize issues a single grounded call for all queries. A failure
// of the call itself propagates; a parse failure of its output is swallowed
// and reported as OutcomeDegraded with empty problems and sources.
func (s *Synthesizer) HuntAndSynthesize(ctx context.Context, queries []string) (*SynthesisOutput, error) {
	prompt := huntPrompt(strings.Join(queries, ", "))

	res, err := s.client.Invoke(ctx, inference.Request{
		Prompt:    prompt,
		Schema:    problemsSchema(),
		Grounding: true,
	})
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Problems []problemShape `json:"problems"`
	}
	if err := json.Unmarshal([]byte(res.Text), &parsed); err != nil {
		logger.Warnf("synthesis output did not parse, degrading to empty result: %v", err)
		return &SynthesisOutput{
			Problems: []Problem{},
			Sources:  []GroundingSource{},
			Outcome:  OutcomeDegraded,
		}, nil
	}

	out := &SynthesisOutput{
		Problems: make([]Problem, 0, len(parsed.Problems)),
		Sources:  filterSources(res.Sources),
	}

	for _, p := range parsed.Problems {
		cat := Category(p.Category)
		if !cat.Valid() {
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("dropped problem %q: unknown category %q", p.Title, p.Category))
			continue
		}
		if p.PainScore < 0 || p.PainScore > 10 || p.FrequencyScore < 0 || p.FrequencyScore > 10 {
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("problem %q has out-of-range scores (pain=%.1f, frequency=%.1f)",
					p.Title, p.PainScore, p.FrequencyScore))
		}
		out.Problems = append(out.Problems, Problem{
			ID:             uuid.NewString(),
			Title:          p.Title,
			PainScore:      p.PainScore,
			FrequencyScore: p.FrequencyScore,
			Evidence:       p.Evidence,
			Category:       cat,
			SolutionIdea:   p.SolutionIdea,
		})
	}

	if len(out.Problems) == 0 {
		out.Outcome = OutcomeEmpty
	} else {
		out.Outcome = OutcomeFound
	}
	return out, nil
}

// filterSources drops citation entries without a usable uri.
func filterSources(in []inference.Source) []GroundingSource {
	out := make([]GroundingSource, 0, len(in))
	for _, src := range in {
		if src.URI == "" {
			continue
		}
		out = append(out, GroundingSource{URI: src.URI, Title: src.Title})
	}
	return out
}

func huntPrompt(combinedQueries string) string {
	return fmt.Sprintf(`Search for real-world pain points regarding: %s.
Look specifically for complaints on Reddit, specialized forums, and reviews.

ROLE: You are an expert market analyst and venture builder. You will receive noisy text collected from the internet about a niche. Your job is to ignore the noise and extract business opportunities.
ANALYSIS RULES:
1. Detect pain: look for strong emotions ("I hate", "lost money", "impossible").
2. Filter: ignore complaints that are only about pricing or aesthetics. Look for broken functionality and money problems.
3. Ideate: for every serious problem, invent a B2B or micro-SaaS solution.

OUTPUT FORMAT (JSON ONLY):
Return a JSON object with a "problems" array.
Assign a 'category' based on potential: 'GOLD_MINE' (high pain, high frequency), 'NICHE_GEM' (high pain, low frequency), 'NOISE' (low impact).`, combinedQueries)
}

// problemsSchema is the object shape contracted with the provider for the
// fused stage: { problems: [ ...problemShape ] }.
func problemsSchema() *inference.Schema {
	return &inference.Schema{
		Type: inference.TypeObject,
		Properties: map[string]*inference.Schema{
			"problems": {
				Type: inference.TypeArray,
				Items: &inference.Schema{
					Type: inference.TypeObject,
					Properties: map[string]*inference.Schema{
						"title":           {Type: inference.TypeString},
						"pain_score":      {Type: inference.TypeNumber},
						"frequency_score": {Type: inference.TypeNumber},
						"evidence":        {Type: inference.TypeString},
						"category": {
							Type: inference.TypeString,
							Enum: []string{
								string(CategoryGoldMine),
								string(CategoryNicheGem),
								string(CategoryNoise),
							},
						},
						"solution_idea": {
							Type: inference.TypeObject,
							Properties: map[string]*inference.Schema{
								"title": {Type: inference.TypeString},
								"pitch": {Type: inference.TypeString},
								"type": {
									Type: inference.TypeString,
									Enum: []string{"SaaS", "Service"},
								},
							},
						},
					},
					Required: []string{"title", "pain_score", "frequency_score", "evidence", "category", "solution_idea"},
				},
			},
		},
	}
}
