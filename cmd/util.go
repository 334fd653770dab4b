package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/viper"

	"github.com/techmaxsolucoes/bkflow-dmn/internal/config"
)

var (
	bold  = color.New(color.Bold).SprintFunc()
	faint = color.New(color.Faint).SprintFunc()
)

func loadConfig() (*config.Config, error) {
	path := viper.GetString(TablesFileKey)
	if path == "" {
		return nil, fmt.Errorf("tables file not configured, provide via --tables or env")
	}
	return config.Load(path)
}

// parseFacts turns CLI key=value arguments into a fact map, guessing
// literal types the same way the table cells express them.
func parseFacts(args []string) (map[string]any, error) {
	facts := make(map[string]any, len(args))
	for _, arg := range args {
		kv := strings.SplitN(arg, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid fact %q (expected key=value)", arg)
		}
		key := strings.TrimSpace(kv[0])
		if key == "" {
			return nil, fmt.Errorf("empty key in fact %q", arg)
		}
		facts[key] = parseLiteral(kv[1])
	}
	return facts, nil
}

func parseLiteral(s string) any {
	s = strings.TrimSpace(s)

	if s == "true" {
		return true
	}
	if s == "false" {
		return false
	}

	if i, err := strconv.Atoi(s); err == nil {
		return i
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}

	if len(s) >= 2 && ((s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'')) {
		if s[0] == '\'' {
			s = `"` + s[1:len(s)-1] + `"`
		}
		if unq, err := strconv.Unquote(s); err == nil {
			return unq
		}
	}

	return s
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
