package search

import (
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/SNisin/VaultSeek/internal/bigram"
	"github.com/SNisin/VaultSeek/internal/query"
	"github.com/SNisin/VaultSeek/internal/tree"
)

// Evaluate walks a parsed query.Q expression tree and returns the sorted,
// duplicate-free set of element indices it matches. And/Or/Not become
// set intersection/union/complement over the candidate sets their
// children produce; Literal and Function leaves are resolved directly
// against the tree and bigram index. Modeled on zoekt's eval.go
// indexData.simplify visitor, per spec.md §9's note that this pipeline
// is distinct from Searcher.Search's raw-string path: only here do the
// whole-filename, whole-word, wildcard, and diacritic modifiers take
// effect.
func Evaluate(t *tree.FileTree, bi *bigram.Index, q query.Q) ([]uint64, error) {
	return evalNode(t, bi, q), nil
}

func evalNode(t *tree.FileTree, bi *bigram.Index, q query.Q) []uint64 {
	switch v := q.(type) {
	case *query.And:
		sets := make([][]uint64, len(v.Children))
		for i, c := range v.Children {
			sets[i] = evalNode(t, bi, c)
		}
		return intersectAll(sets)
	case *query.Or:
		sets := make([][]uint64, len(v.Children))
		for i, c := range v.Children {
			sets[i] = evalNode(t, bi, c)
		}
		return unionAll(sets)
	case *query.Not:
		return complement(universe(t), evalNode(t, bi, v.Child))
	case *query.Literal:
		return literalCandidates(t, bi, v)
	case *query.Function:
		return functionCandidates(t, v)
	default:
		return nil
	}
}

func universe(t *tree.FileTree) []uint64 {
	n := t.Len()
	out := make([]uint64, n)
	for i := range out {
		out[i] = uint64(i)
	}
	return out
}

// intersectAll reduces sorted, duplicate-free sets via a multi-way
// two-pointer merge; an empty input list matches nothing.
func intersectAll(sets [][]uint64) []uint64 {
	if len(sets) == 0 {
		return nil
	}
	result := sets[0]
	for _, s := range sets[1:] {
		result = intersectTwo(result, s)
		if len(result) == 0 {
			return result
		}
	}
	return result
}

func intersectTwo(a, b []uint64) []uint64 {
	out := make([]uint64, 0, minInt(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

// unionAll merges sorted, duplicate-free sets, de-duplicating values that
// appear in more than one child.
func unionAll(sets [][]uint64) []uint64 {
	var out []uint64
	for _, s := range sets {
		out = append(out, s...)
	}
	sortUint64(out)
	return dedupUint64(out)
}

// complement returns universe minus exclude, both sorted and
// duplicate-free.
func complement(universe, exclude []uint64) []uint64 {
	out := make([]uint64, 0, len(universe))
	j := 0
	for _, v := range universe {
		for j < len(exclude) && exclude[j] < v {
			j++
		}
		if j < len(exclude) && exclude[j] == v {
			continue
		}
		out = append(out, v)
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func sortUint64(xs []uint64) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}

func dedupUint64(xs []uint64) []uint64 {
	if len(xs) == 0 {
		return xs
	}
	out := xs[:1]
	for _, x := range xs[1:] {
		if x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}

// literalCandidates resolves a Literal leaf. A plain substring match with
// no modifiers that require a full scan takes the fast bigram-index path
// (mirroring Searcher.Search); regex, wildcard, whole-filename,
// whole-word, match-path, and case-sensitive modifiers instead fall back
// to scanning every element, since none of those predicates can be
// answered from the case-folded bigram index alone.
func literalCandidates(t *tree.FileTree, bi *bigram.Index, lit *query.Literal) []uint64 {
	mods := lit.Mods
	needsScan := lit.Regex != nil || mods.MatchPath || mods.Wildcards || mods.WholeFilename || mods.WholeWord || mods.CaseSensitive

	var out []uint64
	if !needsScan {
		text := lit.Text
		if !mods.CaseSensitive {
			text = strings.ToLower(text)
		}
		if !mods.Diacritics {
			text = stripDiacritics(text)
		}
		switch {
		case text == "":
			out = universe(t)
		case len([]rune(text)) == 1:
			r := []rune(text)[0]
			out = bi.QueryChar(r)
		default:
			out = bi.QueryWord(text)
			if len(text) > 2 {
				out = PostFilter(t, out, text)
			}
		}
	} else {
		out = scanMatching(t, func(i int) bool { return matchesLiteral(t, lit, i) })
	}

	if mods.FileOnly {
		out = filterByDir(t, out, false)
	} else if mods.FolderOnly {
		out = filterByDir(t, out, true)
	}
	return out
}

func scanMatching(t *tree.FileTree, pred func(i int) bool) []uint64 {
	var out []uint64
	for i := 0; i < t.Len(); i++ {
		if pred(i) {
			out = append(out, uint64(i))
		}
	}
	return out
}

func filterByDir(t *tree.FileTree, in []uint64, wantDir bool) []uint64 {
	out := in[:0]
	for _, i := range in {
		if t.IsDir(int(i)) == wantDir {
			out = append(out, i)
		}
	}
	return out
}

func matchesLiteral(t *tree.FileTree, lit *query.Literal, i int) bool {
	mods := lit.Mods
	haystack := t.FilenameOf(i)
	if mods.MatchPath {
		e, _ := t.Get(i)
		if p := t.FullPath(e.Parent); p != "" {
			haystack = p + `\` + haystack
		}
	}
	if !mods.CaseSensitive {
		haystack = strings.ToLower(haystack)
	}
	if !mods.Diacritics {
		haystack = stripDiacritics(haystack)
	}

	if lit.Regex != nil {
		return lit.Regex.MatchString(haystack)
	}

	needle := lit.Text
	if !mods.CaseSensitive {
		needle = strings.ToLower(needle)
	}
	if !mods.Diacritics {
		needle = stripDiacritics(needle)
	}

	switch {
	case mods.Wildcards:
		ok, _ := doublestar.Match(needle, haystack)
		return ok
	case mods.WholeFilename:
		return haystack == needle
	case mods.WholeWord:
		return matchesWholeWord(haystack, needle)
	default:
		return strings.Contains(haystack, needle)
	}
}

func matchesWholeWord(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	start := 0
	for {
		idx := strings.Index(haystack[start:], needle)
		if idx < 0 {
			return false
		}
		abs := start + idx
		before := rune(0)
		if abs > 0 {
			before = rune(haystack[abs-1])
		}
		after := rune(0)
		end := abs + len(needle)
		if end < len(haystack) {
			after = rune(haystack[end])
		}
		if !isWordByte(before) && !isWordByte(after) {
			return true
		}
		start = abs + 1
	}
}

func isWordByte(r rune) bool {
	return r == '_' ||
		(r >= '0' && r <= '9') ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z')
}

// functionCandidates resolves a Function leaf by scanning every element,
// since size/date/parent/extension metadata is not bigram-indexed.
func functionCandidates(t *tree.FileTree, fn *query.Function) []uint64 {
	switch fn.Kind {
	case query.FnSize:
		return scanMatching(t, func(i int) bool {
			e, _ := t.Get(i)
			return compareInt64(int64ptr(e.Size), fn.Cmp, fn.IntOperand)
		})
	case query.FnDateModified:
		return scanMatching(t, func(i int) bool {
			e, _ := t.Get(i)
			return matchesDate(e.Modified, fn)
		})
	case query.FnDateCreated:
		return scanMatching(t, func(i int) bool {
			e, _ := t.Get(i)
			return matchesDate(e.Created, fn)
		})
	case query.FnParent:
		want := strings.ToLower(fn.StrOperand)
		return scanMatching(t, func(i int) bool {
			e, _ := t.Get(i)
			for _, seg := range strings.Split(t.FullPath(e.Parent), `\`) {
				if strings.ToLower(seg) == want {
					return true
				}
			}
			return false
		})
	case query.FnExt:
		wanted := make(map[string]bool, len(fn.ExtOperands))
		for _, e := range fn.ExtOperands {
			wanted[strings.ToLower(strings.TrimPrefix(e, "."))] = true
		}
		return scanMatching(t, func(i int) bool {
			return wanted[strings.ToLower(extensionOf(t.FilenameOf(i)))]
		})
	default:
		return nil
	}
}

func extensionOf(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return ""
	}
	return name[idx+1:]
}

func compareInt64(v int64, cmp query.Comparator, operand int64) bool {
	switch cmp {
	case query.CmpLt:
		return v < operand
	case query.CmpLe:
		return v <= operand
	case query.CmpGt:
		return v > operand
	case query.CmpGe:
		return v >= operand
	default:
		return v == operand
	}
}

// matchesDate evaluates a date Function against a (possibly nil) metadata
// timestamp. A nil timestamp only matches DateUnknown.
func matchesDate(ts *int64, fn *query.Function) bool {
	d := query.ParseDate(fn.StrOperand, time.Now())
	if ts == nil {
		return d.Kind == query.DateUnknown
	}
	v := *ts

	switch d.Kind {
	case query.DateUnknown:
		return false
	case query.DateWeekday:
		return time.Unix(v, 0).UTC().Weekday() == d.Weekday
	case query.DateMonthOfYear:
		return time.Unix(v, 0).UTC().Month() == d.Month
	default: // DateRange
		if d.Start == 0 && d.End == 0 {
			return false // invalid date literal
		}
		switch fn.Cmp {
		case query.CmpLt:
			return v < d.Start
		case query.CmpLe:
			return v <= d.End
		case query.CmpGt:
			return v > d.End
		case query.CmpGe:
			return v >= d.Start
		default: // CmpEq: within range
			return v >= d.Start && v <= d.End
		}
	}
}
