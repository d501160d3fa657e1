package querybuilder

import (
	"fmt"
	"strings"
)

type CondType int

const (
	CondTypeAnd CondType = iota + 1
	CondTypeOr
)

func (c CondType) String() string {
	switch c {
	case CondTypeAnd:
		return "AND"
	case CondTypeOr:
		return "OR"
	default:
		return ""
	}
}

// Condition is either a single clause or a parenthesised group of conditions.
// condType joins it to the condition before it.
type Condition struct {
	condType   CondType
	clause     string
	args       []interface{}
	subCond    []Condition
	isSubGroup bool
}

// renderConditions joins conditions in order, wrapping groups in parentheses.
// Empty groups are dropped together with their connective.
func renderConditions(conditions []Condition) (string, []interface{}) {
	parts := make([]string, 0, len(conditions)*2)
	args := make([]interface{}, 0)

	for _, cond := range conditions {
		if cond.isSubGroup && len(cond.subCond) == 0 {
			continue
		}
		if len(parts) > 0 {
			parts = append(parts, cond.condType.String())
		}
		if cond.isSubGroup {
			clause, subArgs := renderConditions(cond.subCond)
			parts = append(parts, fmt.Sprintf("(%s)", clause))
			args = append(args, subArgs...)
			continue
		}

		parts = append(parts, cond.clause)
		args = append(args, cond.args...)
	}

	return strings.Join(parts, " "), args
}
