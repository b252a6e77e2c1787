package conditions

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes
const (
	whitespaceCode = iota
	negationCode
	attributeCode
	operatorCode
	valueCode
)

// Token definitions
var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	negationToken   = parsly.NewToken(negationCode, "-", matcher.NewByte('-'))
	attributeToken  = parsly.NewToken(attributeCode, "Attribute", newAttributeMatcher())
	operatorToken   = parsly.NewToken(operatorCode, "Operator", newOperatorMatcher())
	valueToken      = parsly.NewToken(valueCode, "Value", newValueMatcher())
)

// Custom matchers
func newAttributeMatcher() parsly.Matcher {
	return &attributeMatcher{}
}

func newOperatorMatcher() parsly.Matcher {
	return &operatorMatcher{}
}

func newValueMatcher() parsly.Matcher {
	return &valueMatcher{}
}

// attributeMatcher matches condition attribute names, e.g. `base`,
// `check-success` or the count form `#approved-reviews-by`
type attributeMatcher struct{}

func (m *attributeMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos >= size {
		return 0
	}

	matched := 0
	// Optional count prefix
	if input[pos] == '#' {
		matched++
		pos++
	}

	if pos >= size || (!isLetter(input[pos]) && input[pos] != '_') {
		return 0
	}

	for i := pos; i < size; i++ {
		if isLetter(input[i]) || isDigit(input[i]) || input[i] == '_' || input[i] == '-' || input[i] == '.' {
			matched++
			continue
		}
		break
	}

	return matched
}

// operatorMatcher matches comparison operators; two-character forms take
// precedence over their single-character prefixes
type operatorMatcher struct{}

func (m *operatorMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos >= size {
		return 0
	}

	if pos+1 < size && input[pos+1] == '=' {
		switch input[pos] {
		case '~', '!', '>', '<':
			return 2
		}
	}

	switch input[pos] {
	case '=', '>', '<':
		return 1
	}
	return 0
}

// valueMatcher captures everything until the end of the input
type valueMatcher struct{}

func (m *valueMatcher) Match(cursor *parsly.Cursor) int {
	return cursor.InputSize - cursor.Pos
}

// Helper functions
func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
