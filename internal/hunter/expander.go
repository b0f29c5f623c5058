package hunter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/luigi970/Signal-Hunter/internal/inference"
	"github.com/luigi970/Signal-Hunter/internal/logger"
)

// Expander is stage 1: it turns one niche string into several targeted,
// pain-oriented search-query variants.
type Expander struct {
	client inference.Client
}

func NewExpander(client inference.Client) *Expander {
	return &Expander{client: client}
}

// Expand asks the inference provider for 5 aggressive search-query variants
// and parses them as a JSON array of strings. Unparseable output degrades to
// a deterministic 2-item fallback set, so the returned slice is never empty;
// only a provider failure produces an error.
func (e *Expander) Expand(ctx context.Context, niche string) ([]string, error) {
	prompt := fmt.Sprintf(`Generate 5 specific, aggressive search queries to find real customer pain points, complaints, and "hated" aspects for the niche: %q.
Focus on keywords like "hate", "nightmare", "cost", "manual process", "broken", "unreliable".
Return ONLY a JSON array of strings.`, niche)

	res, err := e.client.Invoke(ctx, inference.Request{
		Prompt: prompt,
		Schema: &inference.Schema{
			Type:  inference.TypeArray,
			Items: &inference.Schema{Type: inference.TypeString},
		},
	})
	if err != nil {
		return nil, err
	}

	var queries []string
	if err := json.Unmarshal([]byte(res.Text), &queries); err != nil || len(queries) == 0 {
		logger.Debugf("query expansion output unusable, using fallback set: %v", err)
		return fallbackQueries(niche), nil
	}
	return queries, nil
}

// fallbackQueries is the deterministic degradation path for stage 1.
func fallbackQueries(niche string) []string {
	return []string{
		niche + " pain points",
		niche + " reddit complaints",
	}
}
