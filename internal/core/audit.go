package core

// TraceSink receives completed decision traces for persistence outside
// process memory (files, log shippers, ...). Sinks must tolerate being
// handed traces they cannot fully interpret: the recorder stores caller
// data verbatim.
type TraceSink interface {
	Write(trace DecisionTrace) error
	Close() error
}
