package hunter

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/luigi970/Signal-Hunter/internal/logger"
)

var (
	// ErrBusy is returned by Run while another run is in flight or while a
	// finished run has not been reset. It is the only backpressure mechanism.
	ErrBusy = errors.New("a hunt is already in flight")
	// ErrEmptyQuery is returned for empty or whitespace-only queries. No
	// state transition occurs.
	ErrEmptyQuery = errors.New("query must not be empty")
)

// genericErrorMessage is the only failure text shown to the user. The
// underlying cause is logged, never surfaced.
const genericErrorMessage = "The signal was lost. Please check your connection."

// Store is the persistence collaborator. SaveRun must persist the whole
// result atomically, including the owner's usage-counter increment.
type Store interface {
	SaveRun(ownerID string, result *SearchResult) error
}

// RunContext carries the explicit per-run identity instead of ambient
// session state.
type RunContext struct {
	OwnerID string
	Query   string
}

// RunOutcome reports a completed run. The pipeline's success criterion is
// "assembled a result to show"; durable persistence is tracked separately so
// a persistence failure is observable without failing the run.
type RunOutcome struct {
	Result     *SearchResult
	Synthesis  Outcome
	Warnings   []string
	Persisted  bool
	PersistErr error
}

// Controller drives the pipeline state machine
// (idle → expanding → hunting → synthesizing → completed/error) and owns the
// single in-flight run. Subscribers receive a PipelineStatus after every
// transition.
type Controller struct {
	expander     *Expander
	synthesizer  *Synthesizer
	store        Store
	stageTimeout time.Duration

	mu      sync.Mutex
	status  PipelineStatus
	result  *SearchResult
	subs    map[int]chan PipelineStatus
	nextSub int
}

// NewController wires the pipeline stages. store may be nil (no persistence,
// e.g. in tests); stageTimeout bounds each external call.
func NewController(expander *Expander, synthesizer *Synthesizer, store Store, stageTimeout time.Duration) *Controller {
	if stageTimeout <= 0 {
		stageTimeout = 2 * time.Minute
	}
	return &Controller{
		expander:     expander,
		synthesizer:  synthesizer,
		store:        store,
		stageTimeout: stageTimeout,
		status:       PipelineStatus{Stage: StageIdle, Message: ""},
		subs:         make(map[int]chan PipelineStatus),
	}
}

// Subscribe registers a status listener. The returned cancel func must be
// called when the listener goes away. Slow listeners miss updates rather
// than blocking the pipeline.
func (c *Controller) Subscribe() (<-chan PipelineStatus, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan PipelineStatus, 16)
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Status returns the current pipeline status.
func (c *Controller) Status() PipelineStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Result returns the result of the last completed run, or nil.
func (c *Controller) Result() *SearchResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Reset returns the controller to idle and clears the current result. It is
// idempotent and is the only way back to idle from completed or error.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.status = PipelineStatus{Stage: StageIdle, Message: ""}
	c.result = nil
	c.mu.Unlock()
	c.notify(PipelineStatus{Stage: StageIdle, Message: ""})
}

// Run executes one full pipeline run. It rejects empty queries without a
// transition and rejects submissions while not idle. Any provider failure
// transitions to error with the generic message; parse degradation does not.
func (c *Controller) Run(ctx context.Context, rc RunContext) (*RunOutcome, error) {
	query := strings.TrimSpace(rc.Query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	c.mu.Lock()
	if c.status.Stage != StageIdle {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	status := PipelineStatus{Stage: StageExpanding, Message: "Expanding search queries with AI..."}
	c.status = status
	c.result = nil
	c.mu.Unlock()
	c.notify(status)

	logger.Infof("hunt started: owner=%s query=%q", rc.OwnerID, query)

	stageCtx, cancel := context.WithTimeout(ctx, c.stageTimeout)
	queries, err := c.expander.Expand(stageCtx, query)
	cancel()
	if err != nil {
		return nil, c.fail("expansion", err)
	}

	c.setStatus(PipelineStatus{Stage: StageHunting, Message: "Hunting for real-world pain points..."})

	stageCtx, cancel = context.WithTimeout(ctx, c.stageTimeout)
	synth, err := c.synthesizer.HuntAndSynthesize(stageCtx, queries)
	cancel()
	if err != nil {
		return nil, c.fail("synthesis", err)
	}

	c.setStatus(PipelineStatus{Stage: StageSynthesizing, Message: "Mapping signals into opportunities..."})

	result := &SearchResult{
		ID:               uuid.NewString(),
		Query:            query,
		Problems:         synth.Problems,
		Timestamp:        time.Now().UTC(),
		GroundingSources: synth.Sources,
	}

	outcome := &RunOutcome{
		Result:    result,
		Synthesis: synth.Outcome,
		Warnings:  synth.Warnings,
		Persisted: c.store != nil,
	}
	if c.store != nil {
		if err := c.store.SaveRun(rc.OwnerID, result); err != nil {
			logger.Errorf("persisting run %s failed: %v", result.ID, err)
			outcome.Persisted = false
			outcome.PersistErr = err
		}
	}

	c.mu.Lock()
	c.result = result
	c.mu.Unlock()
	c.setStatus(PipelineStatus{Stage: StageCompleted, Message: "Analysis complete."})

	logger.Infof("hunt finished: %d signals, %d sources, outcome=%s",
		len(result.Problems), len(result.GroundingSources), synth.Outcome)
	return outcome, nil
}

// fail moves the machine to error with the generic user-facing message and
// logs the real cause.
func (c *Controller) fail(stage string, err error) error {
	logger.Errorf("pipeline %s stage failed: %v", stage, err)
	c.setStatus(PipelineStatus{Stage: StageError, Message: genericErrorMessage})
	return err
}

func (c *Controller) setStatus(status PipelineStatus) {
	c.mu.Lock()
	c.status = status
	c.mu.Unlock()
	c.notify(status)
}

func (c *Controller) notify(status PipelineStatus) {
	// Sends stay under the lock so a concurrent cancel cannot close a
	// channel mid-send; they never block thanks to the buffered channels.
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- status:
		default:
		}
	}
}
