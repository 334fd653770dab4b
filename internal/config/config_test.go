package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/techmaxsolucoes/bkflow-dmn/internal/core"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tables.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}
	return path
}

const validConfig = `
tables:
  - title: Loan Approval
    hit_policy: first
    inputs:
      - id: amount
        label: Requested amount
      - id: score
    outputs:
      - id: approved
    rules:
      - inputs: ["amount <= 1000", ""]
        outputs: ["true"]
      - inputs: ["amount > 1000", "score >= 700"]
        outputs: ["true"]
audit:
  enabled: true
  type: file
  path: /tmp/trail.jsonl
`

func TestLoad(t *testing.T) {
	path := writeConfig(t, validConfig)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(cfg.Tables))
	}

	table := cfg.Tables[0]
	if table.Title != "Loan Approval" {
		t.Errorf("Title = %q", table.Title)
	}
	if table.HitPolicy != core.HitFirst {
		t.Errorf("HitPolicy = %q, want first", table.HitPolicy)
	}
	if len(table.Rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(table.Rules))
	}

	// non-empty cells were compiled during load
	if table.Rules[0].CompiledInputs[0] == nil {
		t.Error("rule 0 input cell not compiled")
	}
	// empty cells stay nil and match anything at runtime
	if table.Rules[0].CompiledInputs[1] != nil {
		t.Error("empty cell should not be compiled")
	}

	if !cfg.Audit.Enabled || cfg.Audit.Type != "file" {
		t.Errorf("audit config not parsed: %+v", cfg.Audit)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "No Tables",
			content: "tables: []",
			wantErr: "no decision tables",
		},
		{
			name: "Duplicate Titles",
			content: `
tables:
  - title: Same
    outputs: [{id: a}]
    rules: []
  - title: Same
    outputs: [{id: a}]
    rules: []
`,
			wantErr: "not unique",
		},
		{
			name: "Uncompilable Cell",
			content: `
tables:
  - title: Broken
    inputs: [{id: x}]
    outputs: [{id: a}]
    rules:
      - inputs: ["x >"]
        outputs: ["1"]
`,
			wantErr: "compiling input cell",
		},
		{
			name: "File Audit Without Path",
			content: `
tables:
  - title: T
    outputs: [{id: a}]
    rules: []
audit:
  type: file
`,
			wantErr: "requires a path",
		},
		{
			name: "Unknown Audit Type",
			content: `
tables:
  - title: T
    outputs: [{id: a}]
    rules: []
audit:
  type: syslog
`,
			wantErr: "unknown audit type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "reading config file") {
		t.Errorf("Load() error = %v, want reading error", err)
	}
}
