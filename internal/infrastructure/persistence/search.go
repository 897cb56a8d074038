package persistence

import (
	"strings"
)

// productSearchFields is the fixed set of columns free-text search runs
// against. Each term becomes a disjunction of case-insensitive substring
// matches across these columns; the whole predicate is store-native and
// never needs client-side evaluation.
var productSearchFields = []string{"name", "code", "barcode", "description", "supplier_code"}

type searchToken struct {
	text   string
	quoted bool
}

// operator precedence: NOT binds tightest, then AND, then OR.
// Adjacent bare terms combine with an implicit AND.
func isOperator(tok searchToken, op string) bool {
	return !tok.quoted && strings.EqualFold(tok.text, op)
}

// buildSearchCondition compiles a raw search string into a SQL condition
// and its arguments over the given columns. Empty or whitespace-only input
// yields an empty condition (match-all), never an error; unparseable
// fragments degrade to plain terms.
func buildSearchCondition(raw string, fields []string) (string, []any) {
	tokens := tokenizeSearch(raw)
	if len(tokens) == 0 {
		return "", nil
	}
	p := &searchParser{tokens: tokens, fields: fields}
	sql, args := p.parseOr()
	return sql, args
}

type searchParser struct {
	tokens []searchToken
	pos    int
	fields []string
}

func (p *searchParser) peek() (searchToken, bool) {
	if p.pos >= len(p.tokens) {
		return searchToken{}, false
	}
	return p.tokens[p.pos], true
}

func (p *searchParser) parseOr() (string, []any) {
	sql, args := p.parseAnd()
	for {
		tok, ok := p.peek()
		if !ok || !isOperator(tok, "OR") {
			return sql, args
		}
		p.pos++
		rightSQL, rightArgs := p.parseAnd()
		if rightSQL == "" {
			return sql, args
		}
		if sql == "" {
			sql, args = rightSQL, rightArgs
			continue
		}
		sql = "(" + sql + " OR " + rightSQL + ")"
		args = append(args, rightArgs...)
	}
}

func (p *searchParser) parseAnd() (string, []any) {
	sql, args := p.parseNot()
	for {
		tok, ok := p.peek()
		if !ok || isOperator(tok, "OR") {
			return sql, args
		}
		if isOperator(tok, "AND") {
			p.pos++
		}
		rightSQL, rightArgs := p.parseNot()
		if rightSQL == "" {
			return sql, args
		}
		if sql == "" {
			sql, args = rightSQL, rightArgs
			continue
		}
		sql = "(" + sql + " AND " + rightSQL + ")"
		args = append(args, rightArgs...)
	}
}

func (p *searchParser) parseNot() (string, []any) {
	tok, ok := p.peek()
	if !ok {
		return "", nil
	}
	if isOperator(tok, "NOT") {
		p.pos++
		sql, args := p.parseNot()
		if sql == "" {
			return "", nil
		}
		return "NOT " + sql, args
	}
	p.pos++
	return p.termCondition(tok)
}

// termCondition expands one term into the per-field disjunction
func (p *searchParser) termCondition(tok searchToken) (string, []any) {
	pattern := searchPattern(tok)
	if pattern == "" {
		return "", nil
	}

	parts := make([]string, len(p.fields))
	args := make([]any, len(p.fields))
	for i, field := range p.fields {
		parts[i] = "LOWER(" + field + ") LIKE ?"
		args[i] = pattern
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

// searchPattern converts a term into a LIKE pattern. Bare terms match as
// substrings; a `*` in the term is an explicit wildcard and suppresses the
// automatic wrapping so the user controls anchoring.
func searchPattern(tok searchToken) string {
	term := strings.ToLower(strings.TrimSpace(tok.text))
	if term == "" {
		return ""
	}
	if !tok.quoted && strings.Contains(term, "*") {
		return strings.ReplaceAll(term, "*", "%")
	}
	return "%" + term + "%"
}

// tokenizeSearch splits the raw input into terms, keeping quoted phrases
// atomic. An unterminated quote runs to the end of the input.
func tokenizeSearch(raw string) []searchToken {
	var tokens []searchToken
	var current strings.Builder
	inQuote := false

	flush := func(quoted bool) {
		if current.Len() == 0 {
			return
		}
		tokens = append(tokens, searchToken{text: current.String(), quoted: quoted})
		current.Reset()
	}

	for _, r := range raw {
		switch {
		case r == '"':
			if inQuote {
				flush(true)
				inQuote = false
			} else {
				flush(false)
				inQuote = true
			}
		case !inQuote && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			flush(false)
		default:
			current.WriteRune(r)
		}
	}
	flush(inQuote)

	return tokens
}
