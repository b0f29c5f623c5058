package hunter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/luigi970/Signal-Hunter/internal/inference"
)

// scriptedClient answers successive Invoke calls from a fixed script: call N
// gets response N. It records every request for assertions.
type scriptedClient struct {
	responses []scriptedResponse
	requests  []inference.Request
}

type scriptedResponse struct {
	result *inference.Result
	err    error
}

func (c *scriptedClient) Invoke(_ context.Context, req inference.Request) (*inference.Result, error) {
	c.requests = append(c.requests, req)
	i := len(c.requests) - 1
	if i >= len(c.responses) {
		return nil, fmt.Errorf("%w: unscripted call %d", inference.ErrInferenceFailed, i)
	}
	r := c.responses[i]
	return r.result, r.err
}

func (c *scriptedClient) Name() string { return "scripted" }

type memStore struct {
	err    error
	owners []string
	saved  []*SearchResult
}

func (m *memStore) SaveRun(ownerID string, result *SearchResult) error {
	if m.err != nil {
		return m.err
	}
	m.owners = append(m.owners, ownerID)
	m.saved = append(m.saved, result)
	return nil
}

func newTestController(client inference.Client, store Store) *Controller {
	return NewController(NewExpander(client), NewSynthesizer(client), store, 5*time.Second)
}

func drainStatuses(ch <-chan PipelineStatus) []PipelineStatus {
	var out []PipelineStatus
	for {
		select {
		case st := <-ch:
			out = append(out, st)
		default:
			return out
		}
	}
}

func expansionResponse() scriptedResponse {
	return scriptedResponse{result: &inference.Result{
		Text: `["pet grooming pain", "pet grooming complaints reddit", "pet grooming hate", "pet grooming broken booking", "pet grooming lost money"]`,
	}}
}

func TestRunFullPipeline(t *testing.T) {
	client := &scriptedClient{responses: []scriptedResponse{
		expansionResponse(),
		{result: &inference.Result{
			Text:    validSynthesisText,
			Sources: []inference.Source{{URI: "https://reddit.com/r/doggrooming/1"}},
		}},
	}}
	store := &memStore{}
	c := newTestController(client, store)

	statusCh, cancel := c.Subscribe()
	defer cancel()

	outcome, err := c.Run(context.Background(), RunContext{OwnerID: "owner-1", Query: "pet grooming"})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(outcome.Result.Problems) != 3 {
		t.Fatalf("expected 3 problems, got %d", len(outcome.Result.Problems))
	}
	wantCategories := []Category{CategoryGoldMine, CategoryNicheGem, CategoryNoise}
	for i, p := range outcome.Result.Problems {
		if p.Category != wantCategories[i] {
			t.Fatalf("problem %d: category = %s, want %s", i, p.Category, wantCategories[i])
		}
	}
	if outcome.Synthesis != OutcomeFound {
		t.Fatalf("expected found outcome, got %s", outcome.Synthesis)
	}
	if !outcome.Persisted {
		t.Fatalf("expected the run to be persisted: %v", outcome.PersistErr)
	}
	if len(store.saved) != 1 || store.owners[0] != "owner-1" {
		t.Fatalf("expected one save for owner-1, got %v", store.owners)
	}
	if c.Result() == nil || c.Result().ID != outcome.Result.ID {
		t.Fatal("controller does not expose the completed result")
	}

	stages := []Stage{}
	for _, st := range drainStatuses(statusCh) {
		stages = append(stages, st.Stage)
	}
	want := []Stage{StageExpanding, StageHunting, StageSynthesizing, StageCompleted}
	if len(stages) != len(want) {
		t.Fatalf("expected stages %v, got %v", want, stages)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Fatalf("expected stages %v, got %v", want, stages)
		}
	}
}

func TestRunRejectsEmptyQuery(t *testing.T) {
	store := &memStore{}
	c := newTestController(&scriptedClient{}, store)

	statusCh, cancel := c.Subscribe()
	defer cancel()

	for _, query := range []string{"", "   ", "\t\n"} {
		if _, err := c.Run(context.Background(), RunContext{OwnerID: "o", Query: query}); !errors.Is(err, ErrEmptyQuery) {
			t.Fatalf("query %q: expected ErrEmptyQuery, got %v", query, err)
		}
	}

	if st := c.Status(); st.Stage != StageIdle {
		t.Fatalf("empty submissions must not transition, stage = %s", st.Stage)
	}
	if got := drainStatuses(statusCh); len(got) != 0 {
		t.Fatalf("expected no status emissions, got %v", got)
	}
	if len(store.saved) != 0 {
		t.Fatal("nothing should have been persisted")
	}
}

func TestRunSurfacesTransportFailureAsError(t *testing.T) {
	client := &scriptedClient{responses: []scriptedResponse{
		{err: fmt.Errorf("%w: connection refused", inference.ErrInferenceFailed)},
	}}
	store := &memStore{}
	c := newTestController(client, store)

	outcome, err := c.Run(context.Background(), RunContext{OwnerID: "o", Query: "pet grooming"})
	if !errors.Is(err, inference.ErrInferenceFailed) {
		t.Fatalf("expected inference failure, got %v", err)
	}
	if outcome != nil {
		t.Fatalf("expected nil outcome, got %+v", outcome)
	}

	st := c.Status()
	if st.Stage != StageError {
		t.Fatalf("expected error stage, got %s", st.Stage)
	}
	if st.Message != "The signal was lost. Please check your connection." {
		t.Fatalf("error message must stay generic, got %q", st.Message)
	}
	if strings.Contains(st.Message, "connection refused") {
		t.Fatal("underlying cause leaked into the user-facing message")
	}
	if c.Result() != nil {
		t.Fatal("no result should be exposed after a failed run")
	}
	if len(store.saved) != 0 {
		t.Fatal("nothing should have been persisted")
	}
}

func TestRunDegradedSynthesisStillCompletes(t *testing.T) {
	client := &scriptedClient{responses: []scriptedResponse{
		expansionResponse(),
		{result: &inference.Result{Text: "no json here"}},
	}}
	c := newTestController(client, &memStore{})

	outcome, err := c.Run(context.Background(), RunContext{OwnerID: "o", Query: "pet grooming"})
	if err != nil {
		t.Fatalf("degraded synthesis must not fail the run: %v", err)
	}
	if c.Status().Stage != StageCompleted {
		t.Fatalf("expected completed, got %s", c.Status().Stage)
	}
	if len(outcome.Result.Problems) != 0 {
		t.Fatalf("expected zero problems, got %d", len(outcome.Result.Problems))
	}
	if outcome.Synthesis != OutcomeDegraded {
		t.Fatalf("degraded parse must be distinguishable, got %s", outcome.Synthesis)
	}
}

func TestRunExpansionFallbackFeedsHunt(t *testing.T) {
	client := &scriptedClient{responses: []scriptedResponse{
		{result: &inference.Result{Text: "not an array"}},
		{result: &inference.Result{Text: `{"problems": []}`}},
	}}
	c := newTestController(client, &memStore{})

	if _, err := c.Run(context.Background(), RunContext{OwnerID: "o", Query: "pet grooming"}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(client.requests) != 2 {
		t.Fatalf("expected 2 inference calls, got %d", len(client.requests))
	}
	huntPrompt := client.requests[1].Prompt
	if !strings.Contains(huntPrompt, "pet grooming pain points, pet grooming reddit complaints") {
		t.Fatalf("hunt prompt must carry the fallback query set, got: %s", huntPrompt)
	}
}

func TestRunBusyUntilReset(t *testing.T) {
	client := &scriptedClient{responses: []scriptedResponse{
		expansionResponse(),
		{result: &inference.Result{Text: `{"problems": []}`}},
		expansionResponse(),
		{result: &inference.Result{Text: `{"problems": []}`}},
	}}
	c := newTestController(client, &memStore{})

	if _, err := c.Run(context.Background(), RunContext{OwnerID: "o", Query: "pet grooming"}); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	// completed is not idle: the submission gate stays closed until reset.
	if _, err := c.Run(context.Background(), RunContext{OwnerID: "o", Query: "dog walking"}); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy before reset, got %v", err)
	}

	c.Reset()
	if _, err := c.Run(context.Background(), RunContext{OwnerID: "o", Query: "dog walking"}); err != nil {
		t.Fatalf("run after reset failed: %v", err)
	}
}

func TestResetIsIdempotent(t *testing.T) {
	client := &scriptedClient{responses: []scriptedResponse{
		expansionResponse(),
		{result: &inference.Result{Text: `{"problems": []}`}},
	}}
	c := newTestController(client, &memStore{})

	if _, err := c.Run(context.Background(), RunContext{OwnerID: "o", Query: "pet grooming"}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	for i := 0; i < 3; i++ {
		c.Reset()
		st := c.Status()
		if st.Stage != StageIdle || st.Message != "" {
			t.Fatalf("reset %d: status = %+v, want idle with empty message", i, st)
		}
		if c.Result() != nil {
			t.Fatalf("reset %d: result must be nil", i)
		}
	}
}

func TestRunPersistenceFailureIsPartial(t *testing.T) {
	client := &scriptedClient{responses: []scriptedResponse{
		expansionResponse(),
		{result: &inference.Result{Text: validSynthesisText}},
	}}
	store := &memStore{err: errors.New("disk full")}
	c := newTestController(client, store)

	outcome, err := c.Run(context.Background(), RunContext{OwnerID: "o", Query: "pet grooming"})
	if err != nil {
		t.Fatalf("persistence failure must not fail the run: %v", err)
	}
	if outcome.Persisted {
		t.Fatal("outcome must report the failed persistence")
	}
	if outcome.PersistErr == nil {
		t.Fatal("expected the persistence error to be recorded")
	}
	if len(outcome.Result.Problems) != 3 {
		t.Fatal("the assembled result must still be returned")
	}
	if c.Status().Stage != StageCompleted {
		t.Fatalf("expected completed, got %s", c.Status().Stage)
	}
}
