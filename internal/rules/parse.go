// Package rules implements the routing-rule mini-language and its
// compilation into directional packet-filter statements.
//
// A rule is `<left> <arrow> <right>` where the arrow is one of `->`, `<-`
// or `<->` and each side is a host name or the wildcard `*`. A `<-` rule is
// normalized to `->` with the operands swapped, so after parsing only the
// forward and bidirectional cases remain.
package rules

import (
	"fmt"
	"strings"
)

// Wildcard is the selector matching any address.
const Wildcard = "*"

// SyntaxError reports a routing rule that does not match the
// `<selector> <arrow> <selector>` grammar. Text carries the offending rule
// verbatim.
type SyntaxError struct {
	Text   string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("unable to parse routing rule %q: %s", e.Text, e.Reason)
}

// Rule is a parsed routing rule, normalized so that Left is the initiating
// side. For a bidirectional rule either side may initiate.
type Rule struct {
	Left          string
	Right         string
	Bidirectional bool
}

// String renders the rule in its normalized textual form.
func (r Rule) String() string {
	arrow := "->"
	if r.Bidirectional {
		arrow = "<->"
	}
	return fmt.Sprintf("%s %s %s", r.Left, arrow, r.Right)
}

func isArrow(tok string) bool {
	switch tok {
	case "->", "<-", "<->":
		return true
	}
	return false
}

// Parse parses a single rule string. The rule must consist of exactly three
// whitespace-separated tokens with the arrow in the middle.
func Parse(text string) (Rule, error) {
	tokens := strings.Fields(text)
	if len(tokens) != 3 {
		return Rule{}, &SyntaxError{Text: text, Reason: "expected `<selector> <arrow> <selector>`"}
	}

	left, arrow, right := tokens[0], tokens[1], tokens[2]
	if !isArrow(arrow) {
		return Rule{}, &SyntaxError{Text: text, Reason: fmt.Sprintf("%q is not one of ->, <-, <->", arrow)}
	}
	if isArrow(left) || isArrow(right) {
		return Rule{}, &SyntaxError{Text: text, Reason: "selector may not be an arrow"}
	}

	switch arrow {
	case "<-":
		// Normalize: right side initiates.
		return Rule{Left: right, Right: left}, nil
	case "<->":
		return Rule{Left: left, Right: right, Bidirectional: true}, nil
	default:
		return Rule{Left: left, Right: right}, nil
	}
}

// ParseAll parses an ordered rule list, stopping at the first malformed
// rule.
func ParseAll(texts []string) ([]Rule, error) {
	parsed := make([]Rule, 0, len(texts))
	for _, text := range texts {
		r, err := Parse(text)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, r)
	}
	return parsed, nil
}
