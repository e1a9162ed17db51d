// Package search implements the verification, ranking, and orchestration
// stages that sit on top of internal/tree and internal/bigram: PostFilter
// (exact substring verification), Sorter (cached rank-table subset sort),
// Searcher (the raw-string pipeline), and Evaluate (the structured
// expression-tree pipeline, per spec.md §9's deliberate layering).
package search

import (
	"strings"

	"github.com/grafana/regexp"

	"github.com/SNisin/VaultSeek/internal/tree"
)

// PostFilter removes indices from candidates whose (lower-cased) filename
// does not actually contain query as a substring, eliminating the bigram
// index's false positives. query must already be lower-cased by the
// caller. Used only for queries longer than two characters, per
// spec.md §4.7.
func PostFilter(t *tree.FileTree, candidates []uint64, query string) []uint64 {
	pattern := regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
	out := candidates[:0]
	for _, i := range candidates {
		name := strings.ToLower(t.FilenameOf(int(i)))
		if pattern.MatchString(name) {
			out = append(out, i)
		}
	}
	return out
}
