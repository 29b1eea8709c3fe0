// Package updates applies a batch of issue operations read from a file.
package updates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"issuemanager/internal/github"
	"issuemanager/internal/logging"
	"issuemanager/internal/tickets"
)

// ErrNothingToDo means the source was missing, empty or unreadable
var ErrNothingToDo = errors.New("no issue updates to process")

// Action values understood in an update file
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionClose  = "close"
)

// Outcome of one operation
type Outcome string

const (
	OutcomeCreated     Outcome = "created"
	OutcomeExists      Outcome = "exists"
	OutcomeFailed      Outcome = "failed"
	OutcomeInvalid     Outcome = "invalid"
	OutcomeUnsupported Outcome = "unsupported"
)

// Operation is one entry of an update file
type Operation struct {
	Action string   `json:"action" yaml:"action"`
	Title  string   `json:"title" yaml:"title"`
	Body   string   `json:"body" yaml:"body"`
	Labels []string `json:"labels" yaml:"labels"`
}

// Result reports what happened to one operation
type Result struct {
	Index     int
	Operation Operation
	Outcome   Outcome
	Issue     *github.Issue
}

// Report is the outcome of one batch
type Report struct {
	NothingToDo bool
	Results     []Result
}

// Count returns how many results have the given outcome
func (r Report) Count(outcome Outcome) int {
	n := 0
	for _, result := range r.Results {
		if result.Outcome == outcome {
			n++
		}
	}
	return n
}

// Load reads operations from a JSON array, or YAML for .yml/.yaml paths
func Load(path string) ([]Operation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNothingToDo, err)
	}

	var ops []Operation
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, &ops)
	default:
		err = json.Unmarshal(data, &ops)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %w", ErrNothingToDo, path, err)
	}
	if len(ops) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrNothingToDo, path)
	}
	return ops, nil
}

// Processor applies operations through the ticket policy
type Processor struct {
	policy *tickets.Policy
	logger *slog.Logger
}

// NewProcessor creates a processor bound to one tracker client
func NewProcessor(tracker github.Tracker, logger *slog.Logger) *Processor {
	logger = logging.OrDiscard(logger)
	return &Processor{
		policy: tickets.NewPolicy(tracker, logger),
		logger: logger,
	}
}

// Process loads path and applies every operation. A failing operation never
// halts the rest.
func (p *Processor) Process(ctx context.Context, path string) Report {
	ops, err := Load(path)
	if err != nil {
		p.logger.Info("nothing to process", "path", path, "error", err)
		return Report{NothingToDo: true}
	}
	return p.Apply(ctx, ops)
}

// Apply runs operations in order
func (p *Processor) Apply(ctx context.Context, ops []Operation) Report {
	report := Report{Results: make([]Result, 0, len(ops))}
	for i, op := range ops {
		result := p.apply(ctx, op)
		result.Index = i
		p.logger.Debug("applied update", "index", i, "action", op.Action, "outcome", result.Outcome)
		report.Results = append(report.Results, result)
	}
	return report
}

func (p *Processor) apply(ctx context.Context, op Operation) Result {
	if op.Action != ActionCreate {
		p.logger.Warn("unsupported update action", "action", op.Action, "title", op.Title)
		return Result{Operation: op, Outcome: OutcomeUnsupported}
	}

	ensured := p.policy.Ensure(ctx, tickets.Ticket{Title: op.Title, Body: op.Body, Labels: op.Labels})
	result := Result{Operation: op, Issue: ensured.Issue}
	switch ensured.Outcome {
	case tickets.OutcomeCreated:
		result.Outcome = OutcomeCreated
	case tickets.OutcomeExists:
		result.Outcome = OutcomeExists
	case tickets.OutcomeInvalid:
		result.Outcome = OutcomeInvalid
	default:
		result.Outcome = OutcomeFailed
	}
	return result
}
