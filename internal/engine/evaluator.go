package engine

import (
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog/log"

	"github.com/techmaxsolucoes/bkflow-dmn/internal/core"
)

// ruleMatches evaluates every input cell of a rule row against the
// facts. An empty cell matches anything. Evaluation errors and non-bool
// results count as no-match: a broken cell must never abort the
// decision, only lose that row.
func ruleMatches(tableTitle string, ruleIdx int, rule core.TableRule, facts map[string]any) bool {
	for col, cell := range rule.Inputs {
		var compiled *vm.Program
		if col < len(rule.CompiledInputs) {
			compiled = rule.CompiledInputs[col]
		}

		ok, err := evalBoolCell(cell, compiled, facts)
		if err != nil {
			log.Warn().
				Err(err).
				Str("table", tableTitle).
				Int("rule", ruleIdx).
				Int("col", col).
				Msgf("error evaluating input cell '%s'", cell)
			return false
		}
		if !ok {
			return false
		}
	}
	return true
}

// evalOutputs evaluates the output cells of a matched rule into an
// output record keyed by output column id. A failing cell yields nil
// for that column.
func evalOutputs(table *core.DecisionTable, ruleIdx int, facts map[string]any) map[string]any {
	rule := table.Rules[ruleIdx]
	out := make(map[string]any, len(table.Outputs))

	for col, cell := range rule.Outputs {
		var compiled *vm.Program
		if col < len(rule.CompiledOutputs) {
			compiled = rule.CompiledOutputs[col]
		}

		val, err := evalValueCell(cell, compiled, facts)
		if err != nil {
			log.Warn().
				Err(err).
				Str("table", table.Title).
				Int("rule", ruleIdx).
				Str("col", table.Outputs[col].ID).
				Msgf("error evaluating output cell '%s'", cell)
			val = nil
		}
		out[table.Outputs[col].ID] = val
	}
	return out
}

func evalBoolCell(cell string, compiled *vm.Program, facts map[string]any) (bool, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return true, nil
	}

	var (
		out any
		err error
	)
	if compiled != nil {
		out, err = expr.Run(compiled, facts)
	} else {
		out, err = expr.Eval(cell, facts)
	}
	if err != nil {
		return false, err
	}

	b, ok := out.(bool)
	if !ok {
		// a condition cell that does not yield a bool simply does not match
		return false, nil
	}
	return b, nil
}

func evalValueCell(cell string, compiled *vm.Program, facts map[string]any) (any, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil, nil
	}

	if compiled != nil {
		return expr.Run(compiled, facts)
	}
	return expr.Eval(cell, facts)
}
