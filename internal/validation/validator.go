package validation

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/techmaxsolucoes/bkflow-dmn/internal/core"
)

// ValidateTables checks structural validity of the loaded decision
// tables and pre-compiles every non-empty expression cell. A cell that
// fails to compile is rejected at load time rather than at decision
// time, where evaluation errors are only logged.
func ValidateTables(tables []core.DecisionTable) ([]core.DecisionTable, error) {
	seenTitles := make(map[string]struct{})
	var validTables []core.DecisionTable

	for i, table := range tables {
		if err := table.Validate(); err != nil {
			return nil, fmt.Errorf("table #%d: %w", i, err)
		}
		if _, exists := seenTitles[table.Title]; exists {
			return nil, fmt.Errorf("table title '%s' is not unique", table.Title)
		}
		seenTitles[table.Title] = struct{}{}

		for r := range table.Rules {
			rule := &table.Rules[r]

			rule.CompiledInputs = make([]*vm.Program, len(rule.Inputs))
			for c, cell := range rule.Inputs {
				if cell == "" {
					continue
				}
				prog, err := expr.Compile(cell, expr.AllowUndefinedVariables(), expr.AsBool())
				if err != nil {
					return nil, fmt.Errorf("compiling input cell [%d,%d] of table '%s': %w",
						r, c, table.Title, err)
				}
				rule.CompiledInputs[c] = prog
			}

			rule.CompiledOutputs = make([]*vm.Program, len(rule.Outputs))
			for c, cell := range rule.Outputs {
				if cell == "" {
					continue
				}
				prog, err := expr.Compile(cell, expr.AllowUndefinedVariables())
				if err != nil {
					return nil, fmt.Errorf("compiling output cell [%d,%d] of table '%s': %w",
						r, c, table.Title, err)
				}
				rule.CompiledOutputs[c] = prog
			}
		}

		validTables = append(validTables, table)
	}

	return validTables, nil
}
