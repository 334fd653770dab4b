package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/techmaxsolucoes/bkflow-dmn/internal/core"
)

var _ core.TraceSink = (*FileSink)(nil)

// FileSink appends decision traces to a file, one JSON object per line.
type FileSink struct {
	mu      sync.Mutex
	file    *os.File
	encoder *json.Encoder
}

func NewFileSink(filePath string) (*FileSink, error) {
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening trace export file: %w", err)
	}
	return &FileSink{
		file:    file,
		encoder: json.NewEncoder(file),
	}, nil
}

func (f *FileSink) Write(trace core.DecisionTrace) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.encoder.Encode(trace); err != nil {
		return fmt.Errorf("writing decision trace: %w", err)
	}
	return nil
}

func (f *FileSink) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.file.Close()
}

// ExportTrail writes every trace of the trail to the sink, in order.
func ExportTrail(sink core.TraceSink, trail *core.AuditTrail) error {
	if trail == nil {
		return nil
	}
	for _, trace := range trail.Traces() {
		if err := sink.Write(trace); err != nil {
			return err
		}
	}
	return nil
}
