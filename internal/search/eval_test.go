package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SNisin/VaultSeek/internal/bigram"
	"github.com/SNisin/VaultSeek/internal/query"
	"github.com/SNisin/VaultSeek/internal/tree"
)

func buildEvalFixture(t *testing.T) (*tree.FileTree, *bigram.Index, map[string]int) {
	t.Helper()
	tr := tree.New()
	ids := make(map[string]int)
	ids["report.txt"] = tr.Upsert("report.txt", int64p(2000), nil, nil, 0)
	ids["report.tmp"] = tr.Upsert("report.tmp", int64p(500), nil, nil, 0)
	ids["homework/notes.txt"] = tr.Upsert("homework/notes.txt", int64p(150000), nil, nil, 0)
	ids["docs"] = tr.Upsert("docs", nil, nil, nil, tree.AttrDirectory)
	ids["reportdir"] = tr.Upsert("reportdir", nil, nil, nil, tree.AttrDirectory)

	bi, err := bigram.Build(tr)
	require.NoError(t, err)
	return tr, bi, ids
}

func TestEvaluateSizeAndExtAndNot(t *testing.T) {
	tr, bi, ids := buildEvalFixture(t)
	q := query.Parse(`size:>1000 !ext:tmp`)

	got, err := Evaluate(tr, bi, q)
	require.NoError(t, err)

	assert.Contains(t, got, uint64(ids["report.txt"]))
	assert.Contains(t, got, uint64(ids["homework/notes.txt"]))
	assert.NotContains(t, got, uint64(ids["report.tmp"]))
}

func TestEvaluateMatchPathModifier(t *testing.T) {
	tr, bi, ids := buildEvalFixture(t)
	q := query.Parse(`path:homework`)

	got, err := Evaluate(tr, bi, q)
	require.NoError(t, err)

	assert.Contains(t, got, uint64(ids["homework/notes.txt"]))
	assert.NotContains(t, got, uint64(ids["report.txt"]))
}

func TestEvaluateFileOnlyExcludesDirectories(t *testing.T) {
	tr, bi, ids := buildEvalFixture(t)
	q := query.Parse(`file:report`)

	got, err := Evaluate(tr, bi, q)
	require.NoError(t, err)

	assert.Contains(t, got, uint64(ids["report.txt"]))
	assert.NotContains(t, got, uint64(ids["reportdir"]))
}

func TestEvaluateOrUnion(t *testing.T) {
	tr, bi, ids := buildEvalFixture(t)
	q := query.Parse(`report.tmp | notes.txt`)

	got, err := Evaluate(tr, bi, q)
	require.NoError(t, err)

	assert.Contains(t, got, uint64(ids["report.tmp"]))
	assert.Contains(t, got, uint64(ids["homework/notes.txt"]))
}

func TestEvaluateWholeFilenameExactMatch(t *testing.T) {
	tr, bi, ids := buildEvalFixture(t)
	q := query.Parse(`wfn:"report.txt"`)

	got, err := Evaluate(tr, bi, q)
	require.NoError(t, err)

	assert.Equal(t, []uint64{uint64(ids["report.txt"])}, got)
}
