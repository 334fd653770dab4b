package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/techmaxsolucoes/bkflow-dmn/internal/audit"
	"github.com/techmaxsolucoes/bkflow-dmn/internal/core"
)

var (
	ErrUnknownTable      = fmt.Errorf("unknown decision table")
	ErrHitPolicyViolated = fmt.Errorf("hit policy 'unique' violated: more than one rule matched")
)

// DecisionResult is the resolved outcome of evaluating one decision
// table against a set of facts.
type DecisionResult struct {
	TableTitle string `json:"table_title"`

	// RuleResults holds the full match vector, one entry per rule row.
	RuleResults []bool `json:"rule_results"`

	// MatchedRules are the row indices that matched, ascending.
	MatchedRules []int `json:"matched_rules"`

	// Outputs holds one output record per matched rule, in row order.
	Outputs []map[string]any `json:"outputs"`

	// FinalResult is Outputs after hit-policy resolution.
	FinalResult []map[string]any `json:"final_result"`
}

// Engine holds the loaded decision tables and evaluates them.
type Engine struct {
	tables map[string]*core.DecisionTable
}

// New creates a new Engine with the given tables, keyed by title.
// Tables are expected to be validated (and their cells compiled) first.
func New(tables []core.DecisionTable) *Engine {
	byTitle := make(map[string]*core.DecisionTable, len(tables))
	for i := range tables {
		byTitle[tables[i].Title] = &tables[i]
	}
	return &Engine{tables: byTitle}
}

// Table returns the loaded table with the given title.
func (e *Engine) Table(title string) (*core.DecisionTable, bool) {
	t, ok := e.tables[title]
	return t, ok
}

// Titles returns the loaded table titles, sorted.
func (e *Engine) Titles() []string {
	titles := make([]string, 0, len(e.tables))
	for title := range e.tables {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}

// Decide evaluates the named table against the facts and resolves the
// hit policy. Every evaluation is recorded to the audit session carried
// by ctx, if any; expression cells are only gathered for the trace when
// a session is actually auditing.
func (e *Engine) Decide(ctx context.Context, title string, facts map[string]any) (*DecisionResult, error) {
	table, ok := e.tables[title]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownTable, title)
	}

	ruleResults := make([]bool, len(table.Rules))
	for i, rule := range table.Rules {
		ruleResults[i] = ruleMatches(table.Title, i, rule, facts)
	}
	matched := core.MatchedRules(ruleResults)

	outputs := make([]map[string]any, 0, len(matched))
	for _, idx := range matched {
		outputs = append(outputs, evalOutputs(table, idx, facts))
	}

	result := &DecisionResult{
		TableTitle:   table.Title,
		RuleResults:  ruleResults,
		MatchedRules: matched,
		Outputs:      outputs,
	}

	var policyErr error
	switch table.EffectiveHitPolicy() {
	case core.HitUnique:
		if len(outputs) > 1 {
			policyErr = fmt.Errorf("%w: table '%s' matched rules %v", ErrHitPolicyViolated, table.Title, matched)
		} else {
			result.FinalResult = outputs
		}
	case core.HitFirst:
		if len(outputs) > 0 {
			result.FinalResult = outputs[:1]
		}
	case core.HitCollect:
		result.FinalResult = outputs
	}

	record(ctx, table, facts, result)

	if policyErr != nil {
		return result, policyErr
	}
	return result, nil
}

// record hands the evaluation to the audit session on ctx. The trace is
// captured even when the hit policy was violated: that is exactly the
// situation an audit trail is for.
func record(ctx context.Context, table *core.DecisionTable, facts map[string]any, result *DecisionResult) {
	d := audit.Decision{
		TableTitle:  table.Title,
		Facts:       facts,
		RuleResults: result.RuleResults,
		Outputs:     anySlice(result.Outputs),
		FinalResult: result.FinalResult,
	}

	// expression cells are trace-only data, skip gathering them unless
	// someone is listening
	if audit.IsAuditing(ctx) {
		d.InputExpressions = inputRows(table)
		d.OutputExpressions = outputRows(table)
		d.InputColIDs = table.InputColIDs()
		d.OutputColIDs = table.OutputColIDs()
	}

	audit.Record(ctx, d)
}

func anySlice(in []map[string]any) []any {
	out := make([]any, len(in))
	for i, m := range in {
		out[i] = m
	}
	return out
}

func inputRows(table *core.DecisionTable) [][]string {
	rows := make([][]string, len(table.Rules))
	for i, rule := range table.Rules {
		row := make([]string, len(rule.Inputs))
		copy(row, rule.Inputs)
		rows[i] = row
	}
	return rows
}

func outputRows(table *core.DecisionTable) [][]string {
	rows := make([][]string, len(table.Rules))
	for i, rule := range table.Rules {
		row := make([]string, len(rule.Outputs))
		copy(row, rule.Outputs)
		rows[i] = row
	}
	return rows
}
