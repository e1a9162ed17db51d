package query

import (
	"fmt"
	"strings"

	"github.com/grafana/regexp"
)

// Q is the sum type for a parsed query expression: Literal, Function,
// And, Or, or Not. Modeled on zoekt's query.Q interface.
type Q interface {
	String() string
}

// Comparator is the relational operator a Function condition compares
// its operand with.
type Comparator int

const (
	CmpEq Comparator = iota
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

func (c Comparator) String() string {
	switch c {
	case CmpLt:
		return "<"
	case CmpLe:
		return "<="
	case CmpGt:
		return ">"
	case CmpGe:
		return ">="
	default:
		return "="
	}
}

// Modifiers is the set of flags a TextQuery/RegexQuery literal carries,
// inherited from any modifier chain that preceded it in the DSL.
type Modifiers struct {
	CaseSensitive bool
	Diacritics    bool
	FileOnly      bool
	FolderOnly    bool
	MatchPath     bool
	WholeFilename bool
	WholeWord     bool
	Wildcards     bool

	wantRegex bool
}

// Literal is a bare text or regex match against a filename (or full path,
// if Modifiers.MatchPath is set).
type Literal struct {
	Text  string
	Regex *regexp.Regexp // non-nil when the "regex" modifier was active
	Mods  Modifiers
}

func (q *Literal) String() string {
	kind := "text"
	if q.Regex != nil {
		kind = "regex"
	}
	var flags []string
	if q.Mods.FileOnly {
		flags = append(flags, "file")
	}
	if q.Mods.FolderOnly {
		flags = append(flags, "folder")
	}
	if q.Mods.MatchPath {
		flags = append(flags, "path")
	}
	if q.Mods.CaseSensitive {
		flags = append(flags, "case")
	}
	if q.Mods.WholeFilename {
		flags = append(flags, "wholefilename")
	}
	if q.Mods.WholeWord {
		flags = append(flags, "wholeword")
	}
	if len(flags) == 0 {
		return fmt.Sprintf("%s:%q", kind, q.Text)
	}
	return fmt.Sprintf("%s:%q[%s]", kind, q.Text, strings.Join(flags, ","))
}

// FunctionKind names the recognized function heads.
type FunctionKind int

const (
	FnSize FunctionKind = iota
	FnDateModified
	FnDateCreated
	FnParent
	FnExt
)

func (k FunctionKind) String() string {
	switch k {
	case FnSize:
		return "size"
	case FnDateModified:
		return "datemodified"
	case FnDateCreated:
		return "datecreated"
	case FnParent:
		return "parent"
	case FnExt:
		return "ext"
	default:
		return "?"
	}
}

// Function is a structured condition: a comparator plus an operand whose
// shape depends on Kind (int64 for Size, Date for date functions, string
// for Parent, []string for Ext). Date functions also keep their raw
// literal in StrOperand.
type Function struct {
	Kind FunctionKind
	Cmp  Comparator

	IntOperand  int64
	DateOperand Date
	StrOperand  string
	ExtOperands []string
}

func (q *Function) String() string {
	switch q.Kind {
	case FnSize:
		return fmt.Sprintf("size(%s%d)", q.Cmp, q.IntOperand)
	case FnDateModified, FnDateCreated:
		return fmt.Sprintf("%s(%s%s)", q.Kind, q.Cmp, q.DateOperand)
	case FnParent:
		return fmt.Sprintf("parent(%q)", q.StrOperand)
	case FnExt:
		return fmt.Sprintf("ext(%v)", q.ExtOperands)
	default:
		return "function(?)"
	}
}

// And is matched when every child matches.
type And struct{ Children []Q }

func (q *And) String() string {
	var sub []string
	for _, c := range q.Children {
		sub = append(sub, c.String())
	}
	return fmt.Sprintf("(and %s)", strings.Join(sub, " "))
}

// Or is matched when any child matches.
type Or struct{ Children []Q }

func (q *Or) String() string {
	var sub []string
	for _, c := range q.Children {
		sub = append(sub, c.String())
	}
	return fmt.Sprintf("(or %s)", strings.Join(sub, " "))
}

// Not inverts its child.
type Not struct{ Child Q }

func (q *Not) String() string {
	return fmt.Sprintf("(not %s)", q.Child)
}

// NewAnd is syntactic sugar for constructing And queries, mirroring
// zoekt's query.NewAnd.
func NewAnd(qs ...Q) Q {
	if len(qs) == 1 {
		return qs[0]
	}
	return &And{Children: qs}
}

// NewOr is syntactic sugar for constructing Or queries.
func NewOr(qs ...Q) Q {
	if len(qs) == 1 {
		return qs[0]
	}
	return &Or{Children: qs}
}

// Map applies f bottom-up to every node of q, rebuilding the tree as it
// goes. Mirrors zoekt's query.Map, for callers that rewrite the
// literal/function leaves of a parsed tree.
func Map(q Q, f func(Q) Q) Q {
	switch v := q.(type) {
	case *And:
		children := make([]Q, len(v.Children))
		for i, c := range v.Children {
			children[i] = Map(c, f)
		}
		return f(&And{Children: children})
	case *Or:
		children := make([]Q, len(v.Children))
		for i, c := range v.Children {
			children[i] = Map(c, f)
		}
		return f(&Or{Children: children})
	case *Not:
		return f(&Not{Child: Map(v.Child, f)})
	default:
		return f(q)
	}
}
