package search

import (
	"strings"
	"unicode/utf8"

	"github.com/SNisin/VaultSeek/internal/bigram"
	"github.com/SNisin/VaultSeek/internal/tree"
)

// Searcher is the raw-string query pipeline: lower-case, generate
// candidates from the bigram index, post-filter, optionally sort. It is
// kept deliberately separate from Evaluate's structured expression-tree
// pipeline, per spec.md §9's design note that the two serve different
// callers (a plain search box versus the DSL).
type Searcher struct {
	tree   *tree.FileTree
	bigram *bigram.Index
	sorter *Sorter
}

// NewSearcher builds a Searcher over t and bi, with its own Sorter.
func NewSearcher(t *tree.FileTree, bi *bigram.Index) *Searcher {
	return &Searcher{tree: t, bigram: bi, sorter: NewSorter(t)}
}

// Search returns every element index whose filename contains query as a
// substring (case-insensitively), optionally ordered by sortField/order.
// An empty query matches every element in the tree. Queries of exactly
// one character are answered by QueryChar; longer queries go through
// QueryWord and, since the bigram index only guarantees a superset match,
// are verified by PostFilter when longer than two bytes (a two-character
// ASCII query is a single bigram, whose postings are already exact).
func (s *Searcher) Search(query string, sortField SortField, order SortOrder) []uint64 {
	query = strings.ToLower(query)

	var candidates []uint64
	switch {
	case query == "":
		candidates = make([]uint64, s.tree.Len())
		for i := range candidates {
			candidates[i] = uint64(i)
		}
	case utf8.RuneCountInString(query) == 1:
		ch, _ := utf8.DecodeRuneInString(query)
		candidates = s.bigram.QueryChar(ch)
	default:
		candidates = s.bigram.QueryWord(query)
		if len(query) > 2 {
			candidates = PostFilter(s.tree, candidates, query)
		}
	}

	return s.sorter.Sort(candidates, sortField, order)
}

// Sort orders an arbitrary candidate set (such as one produced by
// Evaluate) using this Searcher's shared rank tables.
func (s *Searcher) Sort(candidates []uint64, field SortField, order SortOrder) []uint64 {
	return s.sorter.Sort(candidates, field, order)
}
