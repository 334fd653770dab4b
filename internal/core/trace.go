package core

import (
	"sync"
	"time"
)

// DecisionTrace captures a single decision-table evaluation: which rules
// matched, what each produced, and a human-readable rendering of the
// output expressions with fact values substituted in. Traces are
// immutable once constructed.
type DecisionTrace struct {
	// ID is a unique identifier for this trace (correlation across logs).
	ID string `yaml:"id" json:"id"`

	// RecordedAt is the timestamp the trace was captured.
	RecordedAt time.Time `yaml:"recorded_at" json:"recorded_at"`

	// TableTitle identifies the decision table that was evaluated.
	TableTitle string `yaml:"table_title" json:"table_title"`

	// Facts is a snapshot of the input facts the table was evaluated against.
	Facts map[string]FactValue `yaml:"facts" json:"facts"`

	// RuleResults holds one entry per rule row, in table row order:
	// whether that row's conditions matched the facts.
	RuleResults []bool `yaml:"rule_results" json:"rule_results"`

	// MatchedRules are the row indices where RuleResults is true,
	// ascending. Derived from RuleResults, never set independently.
	MatchedRules []int `yaml:"matched_rules" json:"matched_rules"`

	// Outputs are the raw per-rule output values produced by the engine.
	// Their structure is opaque to the recorder.
	Outputs []any `yaml:"outputs" json:"outputs"`

	// FinalResult is the engine's resolved decision result after
	// hit-policy resolution.
	FinalResult []map[string]any `yaml:"final_result" json:"final_result"`

	// InputExpressions / OutputExpressions hold the raw expression cells
	// per rule, when the engine supplied them.
	InputExpressions  [][]string `yaml:"input_expressions,omitempty" json:"input_expressions,omitempty"`
	OutputExpressions [][]string `yaml:"output_expressions,omitempty" json:"output_expressions,omitempty"`

	// InputColIDs / OutputColIDs identify the table columns, when supplied.
	InputColIDs  []string `yaml:"input_col_ids,omitempty" json:"input_col_ids,omitempty"`
	OutputColIDs []string `yaml:"output_col_ids,omitempty" json:"output_col_ids,omitempty"`

	// EvaluatedOutputs mirrors OutputExpressions with every recognized
	// fact variable replaced by its literal rendering. Empty when no
	// output expressions were supplied.
	EvaluatedOutputs [][]string `yaml:"evaluated_outputs,omitempty" json:"evaluated_outputs,omitempty"`
}

// MatchedRules returns the indices of the true entries, ascending.
func MatchedRules(ruleResults []bool) []int {
	matched := make([]int, 0, len(ruleResults))
	for i, ok := range ruleResults {
		if ok {
			matched = append(matched, i)
		}
	}
	return matched
}

// AuditTrail is an ordered, append-only collection of the decision
// traces captured during one recording session. Insertion order is
// evaluation order. Appends are serialized so concurrent evaluations
// sharing a session cannot lose traces.
type AuditTrail struct {
	mu     sync.Mutex
	traces []DecisionTrace
}

func NewAuditTrail() *AuditTrail {
	return &AuditTrail{
		traces: make([]DecisionTrace, 0),
	}
}

// Add appends a trace to the trail. It never fails.
func (t *AuditTrail) Add(trace DecisionTrace) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.traces = append(t.traces, trace)
}

// Traces returns a copy of the collected traces in insertion order.
func (t *AuditTrail) Traces() []DecisionTrace {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]DecisionTrace, len(t.traces))
	copy(out, t.traces)
	return out
}

func (t *AuditTrail) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.traces)
}
