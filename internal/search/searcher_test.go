package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SNisin/VaultSeek/internal/bigram"
	"github.com/SNisin/VaultSeek/internal/tree"
)

// buildThreeFileTree mirrors spec scenario S1: a/b/c.txt (10), a/b/d.txt
// (20), a/e.txt (30).
func buildThreeFileTree(t *testing.T) (*tree.FileTree, *Searcher, int, int, int) {
	t.Helper()
	tr := tree.New()
	c := tr.Upsert("a/b/c.txt", int64p(10), nil, nil, 0)
	d := tr.Upsert("a/b/d.txt", int64p(20), nil, nil, 0)
	e := tr.Upsert("a/e.txt", int64p(30), nil, nil, 0)

	bi, err := bigram.Build(tr)
	require.NoError(t, err)
	return tr, NewSearcher(tr, bi), c, d, e
}

func TestSearchThreeCharWordMatchesAllThree(t *testing.T) {
	_, s, c, d, e := buildThreeFileTree(t)
	got := s.Search("txt", SortNone, Ascending)
	assert.ElementsMatch(t, []uint64{uint64(c), uint64(d), uint64(e)}, got)
}

func TestSearchNarrowQueryMatchesOne(t *testing.T) {
	_, s, c, _, _ := buildThreeFileTree(t)
	got := s.Search("c.tx", SortNone, Ascending)
	assert.Equal(t, []uint64{uint64(c)}, got)
}

func TestSearchEmptyQueryMatchesEverythingIncludingDirsAndRoot(t *testing.T) {
	tr, s, _, _, _ := buildThreeFileTree(t)
	got := s.Search("", SortNone, Ascending)
	assert.Len(t, got, tr.Len())
}

func TestSearchSortsBySize(t *testing.T) {
	_, s, c, d, e := buildThreeFileTree(t)
	got := s.Search("txt", SortSize, Ascending)
	require.Equal(t, []uint64{uint64(c), uint64(d), uint64(e)}, got)

	desc := s.Search("txt", SortSize, Descending)
	require.Equal(t, []uint64{uint64(e), uint64(d), uint64(c)}, desc)
}
