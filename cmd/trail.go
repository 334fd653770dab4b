package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/techmaxsolucoes/bkflow-dmn/internal/core"
)

// printTrail renders every trace of a finished trail in detail:
// the facts, the per-rule match vector with the raw condition cells,
// the substituted output expressions, and the final result.
func printTrail(trail *core.AuditTrail) {
	if trail == nil || trail.Len() == 0 {
		fmt.Println(faint("(no traces recorded)"))
		return
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	for _, trace := range trail.Traces() {
		fmt.Printf("\n%s %s %s\n",
			bold("Decision Trace"),
			bold(trace.TableTitle),
			faint("("+trace.ID+")"))

		fmt.Println(faint("---------------------------------------------------"))

		fmt.Println(bold("Facts:"))
		names := make([]string, 0, len(trace.Facts))
		for name := range trace.Facts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %-20s %s\n", faint(name+":"), trace.Facts[name].Render())
		}

		fmt.Println(bold("Rules:"))
		for i, matched := range trace.RuleResults {
			icon := red("✖")
			if matched {
				icon = green("✔")
			}

			cells := ""
			if i < len(trace.InputExpressions) {
				cells = strings.Join(trace.InputExpressions[i], " && ")
			}
			if cells == "" {
				cells = faint("(always)")
			}
			fmt.Printf("  %s rule #%d: %s\n", icon, i, cells)

			if matched && i < len(trace.EvaluatedOutputs) {
				fmt.Printf("      ↳ %s\n", cyan(strings.Join(trace.EvaluatedOutputs[i], ", ")))
			}
		}

		fmt.Println(bold("Result:"))
		if len(trace.FinalResult) == 0 {
			fmt.Printf("  %s\n", faint("(no rule matched)"))
		}
		for _, record := range trace.FinalResult {
			cols := make([]string, 0, len(record))
			for col := range record {
				cols = append(cols, col)
			}
			sort.Strings(cols)
			for _, col := range cols {
				fmt.Printf("  %-20s %v\n", faint(col+":"), record[col])
			}
		}
	}
	fmt.Println()
}

// printTrailSummary renders a one-line-per-trace overview table.
func printTrailSummary(trail *core.AuditTrail) {
	if trail == nil {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{
		"Recorded", "Trace ID", "Table", "Rules", "Matched",
	})

	for _, trace := range trail.Traces() {
		t.AppendRow(table.Row{
			trace.RecordedAt.Format(time.RFC3339),
			trace.ID,
			truncate(trace.TableTitle, 35),
			len(trace.RuleResults),
			fmt.Sprintf("%v", trace.MatchedRules),
		})
	}

	t.Render()
}
