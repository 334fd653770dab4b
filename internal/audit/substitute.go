package audit

import (
	"regexp"
	"sort"

	"github.com/techmaxsolucoes/bkflow-dmn/internal/core"
)

// EvaluateExpression rewrites an expression string for human display,
// replacing every whole-token occurrence of a fact variable name with
// the literal rendering of its value. This is textual rewriting only:
// the expression is never parsed or executed, malformed input passes
// through untouched, and names not present in facts are left as-is.
//
// Substitution is sequential and cumulative: names are processed
// longest-first (ties broken lexically for deterministic output), each
// pass scanning the text as rewritten so far. A substituted string
// literal that happens to contain a later fact name as a token will be
// substituted again. That quirk is part of the contract; the output is
// a debugging aid, not something to re-parse.
func EvaluateExpression(expr string, facts map[string]core.FactValue) string {
	if expr == "" || len(facts) == 0 {
		return expr
	}

	names := make([]string, 0, len(facts))
	for name := range facts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	evaluated := expr
	for _, name := range names {
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(name) + `\b`)
		if err != nil {
			// cannot happen for quoted input; skip rather than fail
			continue
		}
		evaluated = re.ReplaceAllLiteralString(evaluated, facts[name].Render())
	}
	return evaluated
}
