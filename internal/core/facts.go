package core

import (
	"fmt"
	"strconv"
)

// FactKind tags the runtime type of a fact value so rendering does not
// need repeated type switches at the point of substitution.
type FactKind string

const (
	KindBool   FactKind = "bool"
	KindString FactKind = "string"
	KindNumber FactKind = "number"
	// KindOther covers everything we do not special-case (lists, maps,
	// nil, custom types). Rendered with the default %v form.
	KindOther FactKind = "other"
)

// FactValue is a tagged variant over the scalar types a decision table
// works with. Constructed via FactOf; the zero value is a KindOther nil.
type FactValue struct {
	Kind  FactKind `yaml:"kind" json:"kind"`
	Value any      `yaml:"value" json:"value"`
}

// FactOf classifies a raw caller-supplied value into a FactValue.
func FactOf(v any) FactValue {
	switch v.(type) {
	case bool:
		return FactValue{Kind: KindBool, Value: v}
	case string:
		return FactValue{Kind: KindString, Value: v}
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return FactValue{Kind: KindNumber, Value: v}
	default:
		return FactValue{Kind: KindOther, Value: v}
	}
}

// Render returns the literal form of the value as it should appear when
// substituted into an expression string for display.
//
// Strings are wrapped in double quotes without escaping embedded quotes.
// That is a documented limitation: the output is for humans reading an
// audit trail, not for re-parsing.
func (f FactValue) Render() string {
	switch f.Kind {
	case KindBool:
		if b, ok := f.Value.(bool); ok && b {
			return "true"
		}
		return "false"
	case KindString:
		s, _ := f.Value.(string)
		return `"` + s + `"`
	case KindNumber:
		return renderNumber(f.Value)
	default:
		return fmt.Sprintf("%v", f.Value)
	}
}

func renderNumber(v any) string {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n)
	case int8:
		return strconv.FormatInt(int64(n), 10)
	case int16:
		return strconv.FormatInt(int64(n), 10)
	case int32:
		return strconv.FormatInt(int64(n), 10)
	case int64:
		return strconv.FormatInt(n, 10)
	case uint:
		return strconv.FormatUint(uint64(n), 10)
	case uint8:
		return strconv.FormatUint(uint64(n), 10)
	case uint16:
		return strconv.FormatUint(uint64(n), 10)
	case uint32:
		return strconv.FormatUint(uint64(n), 10)
	case uint64:
		return strconv.FormatUint(n, 10)
	case float32:
		return strconv.FormatFloat(float64(n), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(n, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// SnapshotFacts classifies and copies a caller-owned fact map so later
// mutation of the caller's map cannot alter a stored trace.
func SnapshotFacts(facts map[string]any) map[string]FactValue {
	snap := make(map[string]FactValue, len(facts))
	for name, v := range facts {
		snap[name] = FactOf(v)
	}
	return snap
}
