package audit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"

	"github.com/techmaxsolucoes/bkflow-dmn/internal/core"
)

// Decision carries the raw results of one decision-table evaluation, as
// computed by the engine. The recorder snapshots everything it keeps, so
// the caller remains free to reuse or mutate these structures afterward.
type Decision struct {
	TableTitle  string
	Facts       map[string]any
	RuleResults []bool
	Outputs     []any
	FinalResult []map[string]any

	// Optional per-rule expression cells and column ids. Leave empty
	// when the engine did not gather them (e.g. auditing disabled).
	InputExpressions  [][]string
	OutputExpressions [][]string
	InputColIDs       []string
	OutputColIDs      []string
}

// Session owns at most one active audit trail. It is the explicit
// per-execution-context recording handle: each logical unit of work
// (request, CLI invocation, test) creates its own Session and threads
// it through the call tree via context, so concurrent evaluations in
// different contexts never observe each other's trail.
type Session struct {
	mu    sync.Mutex
	trail *core.AuditTrail
}

func NewSession() *Session {
	return &Session{}
}

// Start installs a fresh trail and returns it. If a trail was already
// active it is replaced; the previous trail stays valid only through
// handles the caller retained. Restarting an active session is almost
// always a caller bug, so it is logged.
func (s *Session) Start() *core.AuditTrail {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.trail != nil {
		log.Warn().
			Int("abandoned_traces", s.trail.Len()).
			Msg("audit session restarted while active, previous trail replaced")
	}
	s.trail = core.NewAuditTrail()
	return s.trail
}

// Stop clears the active trail and returns it, or nil if none was
// active. Idempotent.
func (s *Session) Stop() *core.AuditTrail {
	s.mu.Lock()
	defer s.mu.Unlock()

	trail := s.trail
	s.trail = nil
	return trail
}

// Active reports whether a trail is currently collecting traces.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.trail != nil
}

// Record captures one decision-table evaluation into the active trail.
// It is a no-op when no trail is active, so the engine can call it
// unconditionally. Recording never returns an error: tracing failures
// must degrade trace fidelity, never the evaluation itself.
func (s *Session) Record(d Decision) {
	s.mu.Lock()
	trail := s.trail
	s.mu.Unlock()

	if trail == nil {
		return
	}

	facts := core.SnapshotFacts(d.Facts)

	trail.Add(core.DecisionTrace{
		ID:                xid.New().String(),
		RecordedAt:        time.Now(),
		TableTitle:        d.TableTitle,
		Facts:             facts,
		RuleResults:       copySlice(d.RuleResults),
		MatchedRules:      core.MatchedRules(d.RuleResults),
		Outputs:           copySlice(d.Outputs),
		FinalResult:       copyResult(d.FinalResult),
		InputExpressions:  copyRows(d.InputExpressions),
		OutputExpressions: copyRows(d.OutputExpressions),
		InputColIDs:       copySlice(d.InputColIDs),
		OutputColIDs:      copySlice(d.OutputColIDs),
		EvaluatedOutputs:  evaluateRows(d.OutputExpressions, facts),
	})
}

// evaluateRows substitutes fact values into every output expression
// cell. Skipped entirely when no output expressions were supplied.
func evaluateRows(rows [][]string, facts map[string]core.FactValue) [][]string {
	if len(rows) == 0 {
		return nil
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, expr := range row {
			cells[j] = EvaluateExpression(expr, facts)
		}
		out[i] = cells
	}
	return out
}

func copySlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func copyRows(in [][]string) [][]string {
	if in == nil {
		return nil
	}
	out := make([][]string, len(in))
	for i, row := range in {
		out[i] = copySlice(row)
	}
	return out
}

func copyResult(in []map[string]any) []map[string]any {
	if in == nil {
		return nil
	}
	out := make([]map[string]any, len(in))
	for i, m := range in {
		cp := make(map[string]any, len(m))
		for k, v := range m {
			cp[k] = v
		}
		out[i] = cp
	}
	return out
}

type sessionCtxKey struct{}

// NewContext returns a context carrying the session, so evaluation code
// deep in the call tree can record traces without signature changes.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

// FromContext returns the session carried by ctx, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionCtxKey{}).(*Session)
	return s
}

// Record forwards to the session carried by ctx; no-op without one.
func Record(ctx context.Context, d Decision) {
	if s := FromContext(ctx); s != nil {
		s.Record(d)
	}
}

// IsAuditing reports whether ctx carries a session with an active
// trail. Callers use it to skip computing trace-only data.
func IsAuditing(ctx context.Context) bool {
	s := FromContext(ctx)
	return s != nil && s.Active()
}
