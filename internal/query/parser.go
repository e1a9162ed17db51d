package query

import (
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/grafana/regexp"
)

// Parse is total: it never fails, per spec.md §4.5/§7. Unrecognized
// modifier/function names degrade to literal text; unterminated strings
// consume to end of input (handled by the lexer); invalid regexes fall
// back to ".*".
func Parse(src string) Q {
	l := newLexer(src)
	q := parseOr(l, false)
	if q == nil {
		return &Literal{Text: ""}
	}
	return q
}

func peekKind(l *lexer) tokenKind { return l.peek().kind }

func skipWhitespace(l *lexer) {
	for peekKind(l) == tokWhitespace {
		l.next()
	}
}

// parseOr parses a left-leaning AND chain, then (if a '|' follows) wraps
// it and a recursively-parsed right side in an Or. stopAtGt is true while
// parsing inside a '<...>' group, so a bare '>' ends the chain instead of
// being folded into a condition.
func parseOr(l *lexer, stopAtGt bool) Q {
	left := parseAndChain(l, stopAtGt)
	skipWhitespace(l)
	if peekKind(l) == tokPipe {
		l.next()
		skipWhitespace(l)
		right := parseOr(l, stopAtGt)
		return &Or{Children: []Q{left, right}}
	}
	return left
}

func parseAndChain(l *lexer, stopAtGt bool) Q {
	var result Q
	for {
		skipWhitespace(l)
		k := peekKind(l)
		if k == tokEOF || k == tokPipe {
			break
		}
		if stopAtGt && k == tokGt {
			break
		}
		cond := parseCondition(l, stopAtGt)
		if result == nil {
			result = cond
			continue
		}
		// Left-leaning: each new condition nests the accumulator as the
		// left child, per spec.md §4.5 and the And(And(a,b),c) shape in
		// its worked example.
		result = &And{Children: []Q{result, cond}}
	}
	if result == nil {
		return &Literal{Text: ""}
	}
	return result
}

func parseCondition(l *lexer, stopAtGt bool) Q {
	return parseConditionWithMods(l, Modifiers{}, stopAtGt)
}

// parseConditionWithMods parses one condition, threading an
// already-active modifier set in from an enclosing modifier chain.
func parseConditionWithMods(l *lexer, mods Modifiers, stopAtGt bool) Q {
	negate := false
	if peekKind(l) == tokBang {
		l.next()
		negate = true
	}

	var q Q
	switch peekKind(l) {
	case tokLt:
		l.next()
		skipWhitespace(l)
		inner := parseOr(l, true)
		skipWhitespace(l)
		if peekKind(l) == tokGt {
			l.next()
		}
		q = inner
	case tokIdent:
		ident := l.next()
		if peekKind(l) == tokColon {
			q = parseAfterColon(l, ident.text, mods, stopAtGt)
		} else {
			q = parseLiteralMerge(l, ident.text, mods, stopAtGt)
		}
	case tokString:
		str := l.next()
		q = makeLiteral(str.text, mods)
	default:
		tok := l.next()
		q = makeLiteral(tok.text, mods)
	}

	if negate {
		q = &Not{Child: q}
	}
	return q
}

// parseAfterColon handles "ident:" where ident was already consumed and
// the colon is the next token. ident is resolved (case-insensitively)
// against the function table, then the modifier table; an unrecognized
// name falls through to literal text per spec.md §4.5/§7.
func parseAfterColon(l *lexer, ident string, mods Modifiers, stopAtGt bool) Q {
	lower := strings.ToLower(ident)

	if fn, ok := functionTable[lower]; ok {
		l.next() // consume ':'
		return parseFunctionArgs(l, fn)
	}
	if apply, ok := modifierTable[lower]; ok {
		l.next() // consume ':'
		apply(&mods)
		return parseConditionWithMods(l, mods, stopAtGt)
	}

	l.next() // consume ':' as part of the literal
	return parseLiteralMerge(l, ident+":", mods, stopAtGt)
}

// parseLiteralMerge concatenates consecutive non-whitespace, non-'|'
// tokens into one literal's text, per spec.md §4.5. A '>' is only
// absorbed when stopAtGt is false, so group closes are never swallowed.
func parseLiteralMerge(l *lexer, prefix string, mods Modifiers, stopAtGt bool) Q {
	var b strings.Builder
	b.WriteString(prefix)
loop:
	for {
		switch peekKind(l) {
		case tokIdent, tokString:
			b.WriteString(l.next().text)
		case tokColon:
			l.next()
			b.WriteString(":")
		case tokBang:
			l.next()
			b.WriteString("!")
		case tokEqual:
			l.next()
			b.WriteString("=")
		case tokLt:
			l.next()
			b.WriteString("<")
		case tokLe:
			l.next()
			b.WriteString("<=")
		case tokGe:
			l.next()
			b.WriteString(">=")
		case tokGt:
			if stopAtGt {
				break loop
			}
			l.next()
			b.WriteString(">")
		default:
			break loop
		}
	}
	return makeLiteral(b.String(), mods)
}

func makeLiteral(text string, mods Modifiers) Q {
	lit := &Literal{Text: text, Mods: mods}
	if mods.wantRegex {
		flags := "(?i)"
		if mods.CaseSensitive {
			flags = ""
		}
		re, err := regexp.Compile(flags + text)
		if err != nil {
			re = regexp.MustCompile(".*")
		}
		lit.Regex = re
	}
	return lit
}

func parseComparator(l *lexer) Comparator {
	switch peekKind(l) {
	case tokEqual:
		l.next()
		return CmpEq
	case tokLt:
		l.next()
		return CmpLt
	case tokLe:
		l.next()
		return CmpLe
	case tokGt:
		l.next()
		return CmpGt
	case tokGe:
		l.next()
		return CmpGe
	default:
		return CmpEq
	}
}

// parseOperandToken consumes one ident/string token to use as a function
// operand; returns "" if none is available.
func parseOperandToken(l *lexer) string {
	switch peekKind(l) {
	case tokIdent, tokString:
		return l.next().text
	default:
		return ""
	}
}

func parseFunctionArgs(l *lexer, kind FunctionKind) Q {
	switch kind {
	case FnSize:
		cmp := parseComparator(l)
		raw := parseOperandToken(l)
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return &Function{Kind: FnSize, Cmp: cmp, IntOperand: v}
		}
		if v, err := humanize.ParseBytes(raw); err == nil {
			return &Function{Kind: FnSize, Cmp: cmp, IntOperand: int64(v)}
		}
		return makeLiteral("size:"+cmp.String()+raw, Modifiers{})
	case FnDateModified, FnDateCreated:
		cmp := parseComparator(l)
		raw := parseOperandToken(l)
		return &Function{Kind: kind, Cmp: cmp, StrOperand: raw, DateOperand: ParseDate(raw, time.Now())}
	case FnParent:
		raw := parseOperandToken(l)
		return &Function{Kind: FnParent, StrOperand: raw}
	case FnExt:
		var exts []string
		for {
			skipWhitespace(l)
			if !looksLikeExtToken(l) {
				break
			}
			exts = append(exts, l.next().text)
		}
		return &Function{Kind: FnExt, ExtOperands: exts}
	default:
		return &Literal{Text: ""}
	}
}

// looksLikeExtToken reports whether the next token should be consumed as
// another ext: operand. It stops before a token that is itself the head
// of a new recognized modifier/function condition (ident immediately
// followed by ':' with a known name), or an operator/negation token,
// resolving the "ext: is greedy" Open Question from spec.md §9.
func looksLikeExtToken(l *lexer) bool {
	k := peekKind(l)
	if k != tokIdent && k != tokString {
		return false
	}
	if k == tokIdent && l.peekAt(1).kind == tokColon {
		lower := strings.ToLower(l.peek().text)
		if _, ok := functionTable[lower]; ok {
			return false
		}
		if _, ok := modifierTable[lower]; ok {
			return false
		}
	}
	return true
}

type modifierApply func(*Modifiers)

var modifierTable = map[string]modifierApply{
	"case":   func(m *Modifiers) { m.CaseSensitive = true },
	"nocase": func(m *Modifiers) { m.CaseSensitive = false },

	"diacritics":   func(m *Modifiers) { m.Diacritics = true },
	"nodiacritics": func(m *Modifiers) { m.Diacritics = false },

	"file":         func(m *Modifiers) { m.FileOnly = true; m.FolderOnly = false },
	"files":        func(m *Modifiers) { m.FileOnly = true; m.FolderOnly = false },
	"nofileonly":   func(m *Modifiers) { m.FileOnly = false },
	"folder":       func(m *Modifiers) { m.FolderOnly = true; m.FileOnly = false },
	"folders":      func(m *Modifiers) { m.FolderOnly = true; m.FileOnly = false },
	"nofolderonly": func(m *Modifiers) { m.FolderOnly = false },

	"path":   func(m *Modifiers) { m.MatchPath = true },
	"nopath": func(m *Modifiers) { m.MatchPath = false },

	"regex":   func(m *Modifiers) { m.wantRegex = true },
	"noregex": func(m *Modifiers) { m.wantRegex = false },

	"wholefilename":   func(m *Modifiers) { m.WholeFilename = true },
	"wfn":             func(m *Modifiers) { m.WholeFilename = true },
	"exact":           func(m *Modifiers) { m.WholeFilename = true },
	"nowfn":           func(m *Modifiers) { m.WholeFilename = false },
	"nowholefilename": func(m *Modifiers) { m.WholeFilename = false },

	"wholeword":   func(m *Modifiers) { m.WholeWord = true },
	"ww":          func(m *Modifiers) { m.WholeWord = true },
	"nowholeword": func(m *Modifiers) { m.WholeWord = false },
	"noww":        func(m *Modifiers) { m.WholeWord = false },

	"wildcards":   func(m *Modifiers) { m.Wildcards = true },
	"nowildcards": func(m *Modifiers) { m.Wildcards = false },
}

var functionTable = map[string]FunctionKind{
	"size": FnSize,

	"datemodified": FnDateModified,
	"dm":           FnDateModified,
	"datecreated":  FnDateCreated,
	"dc":           FnDateCreated,

	"parent":       FnParent,
	"infolder":     FnParent,
	"nosubfolders": FnParent,

	"ext": FnExt,
}
