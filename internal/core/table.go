package core

import (
	"fmt"

	"github.com/expr-lang/expr/vm"
)

// HitPolicy controls how multiple matching rules are resolved into the
// final decision result.
type HitPolicy string

const (
	// HitUnique expects at most one rule to match; more than one is an error.
	HitUnique HitPolicy = "unique"
	// HitFirst takes the first matching rule in row order.
	HitFirst HitPolicy = "first"
	// HitCollect keeps the outputs of every matching rule, in row order.
	HitCollect HitPolicy = "collect"
)

func (h HitPolicy) IsValid() bool {
	switch h {
	case HitUnique, HitFirst, HitCollect:
		return true
	default:
		return false
	}
}

// Column describes one input or output column of a decision table.
type Column struct {
	// ID is the column identifier referenced in traces and results.
	ID string `yaml:"id" json:"id"`

	// Label is an optional human-readable name for display.
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
}

// TableRule is one row of a decision table: one expression cell per
// input column plus one per output column.
type TableRule struct {
	// Inputs holds one boolean condition expression per input column.
	// An empty cell matches anything.
	Inputs []string `yaml:"inputs" json:"inputs"`

	// Outputs holds one value expression per output column, evaluated
	// against the facts when the rule matches.
	Outputs []string `yaml:"outputs" json:"outputs"`

	// CompiledInputs / CompiledOutputs hold the pre-compiled cells for
	// efficient evaluation. Populated by validation, nil entries fall
	// back to on-the-fly evaluation.
	CompiledInputs  []*vm.Program `yaml:"-" json:"-"`
	CompiledOutputs []*vm.Program `yaml:"-" json:"-"`
}

// DecisionTable binds input/output columns to rule rows under a hit policy.
type DecisionTable struct {
	// Title is a human-readable identifier used in traces and logs.
	Title string `yaml:"title" json:"title"`

	// HitPolicy resolves multiple matches. Defaults to "unique".
	HitPolicy HitPolicy `yaml:"hit_policy" json:"hit_policy"`

	// Inputs / Outputs describe the table columns.
	Inputs  []Column `yaml:"inputs" json:"inputs"`
	Outputs []Column `yaml:"outputs" json:"outputs"`

	// Rules are the rows, evaluated in order.
	Rules []TableRule `yaml:"rules" json:"rules"`
}

// InputColIDs returns the input column identifiers in column order.
func (t *DecisionTable) InputColIDs() []string {
	ids := make([]string, len(t.Inputs))
	for i, col := range t.Inputs {
		ids[i] = col.ID
	}
	return ids
}

// OutputColIDs returns the output column identifiers in column order.
func (t *DecisionTable) OutputColIDs() []string {
	ids := make([]string, len(t.Outputs))
	for i, col := range t.Outputs {
		ids[i] = col.ID
	}
	return ids
}

func (t *DecisionTable) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("decision table missing title")
	}
	if t.HitPolicy != "" && !t.HitPolicy.IsValid() {
		return fmt.Errorf("table '%s' has invalid hit policy '%s'", t.Title, t.HitPolicy)
	}
	if len(t.Outputs) == 0 {
		return fmt.Errorf("table '%s' has no output columns", t.Title)
	}

	seenCols := make(map[string]struct{})
	for i, col := range t.Inputs {
		if col.ID == "" {
			return fmt.Errorf("table '%s' input column #%d missing id", t.Title, i)
		}
		if _, exists := seenCols[col.ID]; exists {
			return fmt.Errorf("table '%s' column id '%s' is not unique", t.Title, col.ID)
		}
		seenCols[col.ID] = struct{}{}
	}
	for i, col := range t.Outputs {
		if col.ID == "" {
			return fmt.Errorf("table '%s' output column #%d missing id", t.Title, i)
		}
		if _, exists := seenCols[col.ID]; exists {
			return fmt.Errorf("table '%s' column id '%s' is not unique", t.Title, col.ID)
		}
		seenCols[col.ID] = struct{}{}
	}

	for i, rule := range t.Rules {
		if len(rule.Inputs) != len(t.Inputs) {
			return fmt.Errorf("table '%s' rule #%d has %d input cells, expected %d",
				t.Title, i, len(rule.Inputs), len(t.Inputs))
		}
		if len(rule.Outputs) != len(t.Outputs) {
			return fmt.Errorf("table '%s' rule #%d has %d output cells, expected %d",
				t.Title, i, len(rule.Outputs), len(t.Outputs))
		}
	}

	return nil
}

// EffectiveHitPolicy returns the configured hit policy, defaulting to unique.
func (t *DecisionTable) EffectiveHitPolicy() HitPolicy {
	if t.HitPolicy == "" {
		return HitUnique
	}
	return t.HitPolicy
}
