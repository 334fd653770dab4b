package audit

import "github.com/techmaxsolucoes/bkflow-dmn/internal/core"

var _ core.TraceSink = (*NoopSink)(nil)

// NoopSink is a sink that discards everything.
type NoopSink struct{}

func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

func (n *NoopSink) Write(trace core.DecisionTrace) error {
	// noop
	return nil
}

func (n *NoopSink) Close() error {
	// nothing to close
	return nil
}
