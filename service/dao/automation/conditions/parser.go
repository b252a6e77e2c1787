// Package conditions parses pull-request automation match conditions of the
// form `[-]attribute[ operator value ]`, e.g. `base=main`, `-closed`,
// `#approved-reviews-by>=1` or `check-success~=^ci/`.
package conditions

import (
	"strings"

	"github.com/viant/parsly"

	"github.com/procdoc/procdoc/model/automation"
)

// Parse parses a single raw condition string into its structured form.
// Presence-only conditions (no operator) yield a condition with empty
// Operator and Value.
func Parse(input []byte) (*automation.Condition, error) {
	cursor := parsly.NewCursor("", input, 0)
	condition := &automation.Condition{Raw: string(input)}

	// Optional negation prefix
	matched := cursor.MatchAfterOptional(whitespaceToken, negationToken)
	if matched.Code == negationToken.Code {
		condition.Negated = true
	}

	// Match the attribute name
	matched = cursor.MatchAfterOptional(whitespaceToken, attributeToken)
	if matched.Code != attributeToken.Code {
		return nil, cursor.NewError(attributeToken)
	}
	condition.Attribute = matched.Text(cursor)

	// A condition may end after the attribute (presence check)
	matched = cursor.MatchAfterOptional(whitespaceToken, operatorToken)
	if matched.Code != operatorToken.Code {
		if cursor.Pos < cursor.InputSize {
			return nil, cursor.NewError(operatorToken)
		}
		return condition, nil
	}
	condition.Operator = matched.Text(cursor)

	// Match the comparison value
	matched = cursor.MatchAfterOptional(whitespaceToken, valueToken)
	if matched.Code != valueToken.Code {
		return nil, cursor.NewError(valueToken)
	}
	condition.Value = strings.TrimSpace(matched.Text(cursor))
	if condition.Value == "" {
		return nil, cursor.NewError(valueToken)
	}

	return condition, nil
}
