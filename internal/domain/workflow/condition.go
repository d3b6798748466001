package workflow

import (
	"math"
	"strconv"
	"strings"

	"github.com/garyjia/doc-workflow/internal/domain/entity"
)

// ConditionKind tags the variant a step condition was parsed into
type ConditionKind string

const (
	// ConditionAlways is an empty condition
	ConditionAlways ConditionKind = "always"
	// ConditionThreshold is the "amount > N" rule
	ConditionThreshold ConditionKind = "threshold"
	// ConditionUnrecognized is any other text; it is treated as satisfied
	ConditionUnrecognized ConditionKind = "unrecognized"
)

const thresholdMarker = "amount >"

// Condition is a parsed step condition
type Condition struct {
	Kind     ConditionKind
	Raw      string
	Field    string
	Operator string
	Value    float64
	// Valid is false when the threshold text had no leading integer
	Valid bool
}

// ParseCondition classifies raw step condition text.
// The threshold is the integer prefix of the text between the first and second '>'.
func ParseCondition(raw string) Condition {
	if raw == "" {
		return Condition{Kind: ConditionAlways}
	}
	if !strings.Contains(raw, thresholdMarker) {
		return Condition{Kind: ConditionUnrecognized, Raw: raw}
	}

	segment := strings.SplitN(raw, ">", 3)[1]
	value, ok := leadingInt(strings.TrimSpace(segment))

	return Condition{
		Kind:     ConditionThreshold,
		Raw:      raw,
		Field:    "amount",
		Operator: ">",
		Value:    value,
		Valid:    ok,
	}
}

// Evaluate reports whether doc satisfies the condition
func (c Condition) Evaluate(doc entity.Document) bool {
	switch c.Kind {
	case ConditionThreshold:
		if !c.Valid {
			return false
		}
		amount, ok := doc.Number(c.Field)
		if !ok {
			return false
		}
		return amount > c.Value
	default:
		return true
	}
}

// EvaluateCondition parses raw and evaluates it against doc
func EvaluateCondition(raw string, doc entity.Document) bool {
	return ParseCondition(raw).Evaluate(doc)
}

// leadingInt reads an optionally signed integer prefix, accepting a 0x prefix for hex.
// Trailing garbage is ignored.
func leadingInt(s string) (float64, bool) {
	sign := 1.0
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}

	base := 10
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	end := 0
	for end < len(s) && isDigit(s[end], base) {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.ParseUint(s[:end], base, 64)
	if err != nil {
		// overflowed uint64; fall back to float parsing for decimal input
		if base == 10 {
			f, ferr := strconv.ParseFloat(s[:end], 64)
			if ferr == nil {
				return sign * f, true
			}
		}
		return sign * math.MaxFloat64, true
	}
	return sign * float64(n), true
}

func isDigit(c byte, base int) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case base == 16 && ((c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')):
		return true
	}
	return false
}
