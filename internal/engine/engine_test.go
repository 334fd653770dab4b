package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/techmaxsolucoes/bkflow-dmn/internal/audit"
	"github.com/techmaxsolucoes/bkflow-dmn/internal/core"
)

// loanTable is a small but realistic table used across the tests.
func loanTable(policy core.HitPolicy) core.DecisionTable {
	return core.DecisionTable{
		Title:     "Loan Approval",
		HitPolicy: policy,
		Inputs: []core.Column{
			{ID: "amount", Label: "Requested amount"},
			{ID: "score", Label: "Credit score"},
		},
		Outputs: []core.Column{
			{ID: "approved"},
			{ID: "rate"},
		},
		Rules: []core.TableRule{
			{Inputs: []string{"amount <= 1000", ""}, Outputs: []string{"true", "0.05"}},
			{Inputs: []string{"amount > 1000", "score >= 700"}, Outputs: []string{"true", "0.03"}},
			{Inputs: []string{"amount > 1000", "score < 700"}, Outputs: []string{"false", "0.0"}},
		},
	}
}

func TestEngine_Decide(t *testing.T) {
	tests := []struct {
		name        string
		policy      core.HitPolicy
		facts       map[string]any
		wantErr     bool
		wantMatched []int
		wantFinal   []map[string]any
	}{
		{
			name:        "Small Amount",
			policy:      core.HitUnique,
			facts:       map[string]any{"amount": 500, "score": 650},
			wantMatched: []int{0},
			wantFinal:   []map[string]any{{"approved": true, "rate": 0.05}},
		},
		{
			name:        "Large Amount Good Score",
			policy:      core.HitUnique,
			facts:       map[string]any{"amount": 5000, "score": 720},
			wantMatched: []int{1},
			wantFinal:   []map[string]any{{"approved": true, "rate": 0.03}},
		},
		{
			name:        "Large Amount Bad Score",
			policy:      core.HitUnique,
			facts:       map[string]any{"amount": 5000, "score": 600},
			wantMatched: []int{2},
			wantFinal:   []map[string]any{{"approved": false, "rate": 0.0}},
		},
		{
			name:        "No Match",
			policy:      core.HitUnique,
			facts:       map[string]any{"amount": "not a number", "score": 700},
			wantMatched: []int{},
			wantFinal:   []map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := New([]core.DecisionTable{loanTable(tt.policy)})

			result, err := eng.Decide(context.Background(), "Loan Approval", tt.facts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decide() error = %v, wantErr %v", err, tt.wantErr)
			}

			if diff := cmp.Diff(tt.wantMatched, result.MatchedRules); diff != "" {
				t.Errorf("MatchedRules mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantFinal, result.FinalResult); diff != "" {
				t.Errorf("FinalResult mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEngine_Decide_UnknownTable(t *testing.T) {
	eng := New(nil)

	_, err := eng.Decide(context.Background(), "missing", map[string]any{})
	if !errors.Is(err, ErrUnknownTable) {
		t.Errorf("error = %v, want ErrUnknownTable", err)
	}
}

func TestEngine_HitPolicies(t *testing.T) {
	// overlapping rules: both match for amount=100
	table := core.DecisionTable{
		Title:   "Overlap",
		Outputs: []core.Column{{ID: "tier"}},
		Rules: []core.TableRule{
			{Inputs: []string{"amount > 0"}, Outputs: []string{`"low"`}},
			{Inputs: []string{"amount > 50"}, Outputs: []string{`"high"`}},
		},
	}
	facts := map[string]any{"amount": 100}

	t.Run("Unique Violated", func(t *testing.T) {
		table := table
		table.HitPolicy = core.HitUnique
		eng := New([]core.DecisionTable{table})

		result, err := eng.Decide(context.Background(), "Overlap", facts)
		if !errors.Is(err, ErrHitPolicyViolated) {
			t.Fatalf("error = %v, want ErrHitPolicyViolated", err)
		}
		// the partial result still carries the match vector for debugging
		if diff := cmp.Diff([]int{0, 1}, result.MatchedRules); diff != "" {
			t.Errorf("MatchedRules mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("First", func(t *testing.T) {
		table := table
		table.HitPolicy = core.HitFirst
		eng := New([]core.DecisionTable{table})

		result, err := eng.Decide(context.Background(), "Overlap", facts)
		if err != nil {
			t.Fatalf("Decide() error = %v", err)
		}
		want := []map[string]any{{"tier": "low"}}
		if diff := cmp.Diff(want, result.FinalResult); diff != "" {
			t.Errorf("FinalResult mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Collect", func(t *testing.T) {
		table := table
		table.HitPolicy = core.HitCollect
		eng := New([]core.DecisionTable{table})

		result, err := eng.Decide(context.Background(), "Overlap", facts)
		if err != nil {
			t.Fatalf("Decide() error = %v", err)
		}
		want := []map[string]any{{"tier": "low"}, {"tier": "high"}}
		if diff := cmp.Diff(want, result.FinalResult); diff != "" {
			t.Errorf("FinalResult mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestEngine_Decide_RecordsTrace(t *testing.T) {
	eng := New([]core.DecisionTable{loanTable(core.HitUnique)})

	session := audit.NewSession()
	session.Start()
	ctx := audit.NewContext(context.Background(), session)

	_, err := eng.Decide(ctx, "Loan Approval", map[string]any{"amount": 5000, "score": 720})
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}

	trail := session.Stop()
	traces := trail.Traces()
	if len(traces) != 1 {
		t.Fatalf("got %d traces, want 1", len(traces))
	}

	trace := traces[0]
	if trace.TableTitle != "Loan Approval" {
		t.Errorf("TableTitle = %q", trace.TableTitle)
	}
	if diff := cmp.Diff([]int{1}, trace.MatchedRules); diff != "" {
		t.Errorf("MatchedRules mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"amount", "score"}, trace.InputColIDs); diff != "" {
		t.Errorf("InputColIDs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"approved", "rate"}, trace.OutputColIDs); diff != "" {
		t.Errorf("OutputColIDs mismatch (-want +got):\n%s", diff)
	}

	// the matched row's output cells rendered with fact values; these
	// particular cells reference no facts so they pass through unchanged
	if len(trace.EvaluatedOutputs) != len(trace.OutputExpressions) {
		t.Fatalf("EvaluatedOutputs rows = %d, want %d", len(trace.EvaluatedOutputs), len(trace.OutputExpressions))
	}

	// and the facts themselves were snapshotted with type tags
	if got := trace.Facts["amount"].Kind; got != core.KindNumber {
		t.Errorf("amount fact kind = %v, want number", got)
	}
}

func TestEngine_Decide_SubstitutesFactsIntoOutputCells(t *testing.T) {
	table := core.DecisionTable{
		Title:   "Pricing",
		Inputs:  []core.Column{{ID: "qty"}},
		Outputs: []core.Column{{ID: "total"}},
		Rules: []core.TableRule{
			{Inputs: []string{"qty > 0"}, Outputs: []string{"qty * price"}},
		},
	}
	eng := New([]core.DecisionTable{table})

	session := audit.NewSession()
	session.Start()
	ctx := audit.NewContext(context.Background(), session)

	_, err := eng.Decide(ctx, "Pricing", map[string]any{"qty": 3, "price": 2.5})
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}

	trace := session.Stop().Traces()[0]
	want := [][]string{{"3 * 2.5"}}
	if diff := cmp.Diff(want, trace.EvaluatedOutputs); diff != "" {
		t.Errorf("EvaluatedOutputs mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_Decide_NoSessionNoTrace(t *testing.T) {
	eng := New([]core.DecisionTable{loanTable(core.HitUnique)})

	// plain context: recording must be a silent no-op
	result, err := eng.Decide(context.Background(), "Loan Approval", map[string]any{"amount": 500, "score": 650})
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}
	if len(result.FinalResult) != 1 {
		t.Errorf("FinalResult len = %d, want 1", len(result.FinalResult))
	}
}

func TestManager_HotSwap(t *testing.T) {
	m := NewManager([]core.DecisionTable{loanTable(core.HitUnique)})

	if _, ok := m.GetEngine().Table("Loan Approval"); !ok {
		t.Fatal("initial table missing")
	}

	replacement := core.DecisionTable{
		Title:   "Replacement",
		Outputs: []core.Column{{ID: "r"}},
		Rules:   []core.TableRule{{Inputs: []string{}, Outputs: []string{"1"}}},
	}
	if err := m.Update([]core.DecisionTable{replacement}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	eng := m.GetEngine()
	if _, ok := eng.Table("Loan Approval"); ok {
		t.Error("old table still visible after Update")
	}
	if _, ok := eng.Table("Replacement"); !ok {
		t.Error("new table not visible after Update")
	}
}
