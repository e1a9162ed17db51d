package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64p(v int64) *int64 { return &v }

func TestUpsertThreeFileIndex(t *testing.T) {
	tr := New()
	cIdx := tr.Upsert("a/b/c.txt", int64p(10), nil, nil, 0)
	dIdx := tr.Upsert("a/b/d.txt", int64p(20), nil, nil, 0)
	eIdx := tr.Upsert("a/e.txt", int64p(30), nil, nil, 0)

	require.NotEqual(t, cIdx, dIdx)
	require.NotEqual(t, dIdx, eIdx)

	assert.Equal(t, "c.txt", tr.FilenameOf(cIdx))
	assert.Equal(t, "d.txt", tr.FilenameOf(dIdx))
	assert.Equal(t, "e.txt", tr.FilenameOf(eIdx))

	cElem, ok := tr.Get(cIdx)
	require.True(t, ok)
	require.NotNil(t, cElem.Size)
	assert.Equal(t, int64(10), *cElem.Size)
}

func TestFullPathReconstruction(t *testing.T) {
	tr := New()
	idx := tr.Upsert("a/b/c.txt", int64p(10), nil, nil, 0)
	elem, ok := tr.Get(idx)
	require.True(t, ok)

	got := tr.FullPath(elem.Parent) + `\` + tr.FilenameOf(idx)
	assert.Equal(t, `a\b\c.txt`, got)
}

func TestChildrenSortedAscendingNoDuplicates(t *testing.T) {
	tr := New()
	tr.Upsert("dir/zeta.txt", nil, nil, nil, 0)
	tr.Upsert("dir/alpha.txt", nil, nil, nil, 0)
	tr.Upsert("dir/mid.txt", nil, nil, nil, 0)

	dirIdx := tr.Upsert("dir", nil, nil, nil, AttrDirectory)
	assert.True(t, sortChildren(tr, dirIdx))

	seen := map[int]bool{}
	for _, c := range tr.elements[dirIdx].Children {
		assert.False(t, seen[c], "duplicate child index %d", c)
		seen[c] = true
	}
}

func TestNonRootElementIndexGreaterThanParent(t *testing.T) {
	tr := New()
	tr.Upsert("a/b/c.txt", nil, nil, nil, 0)
	for i, e := range tr.elements {
		if i == rootIndex {
			continue
		}
		assert.Greater(t, i, e.Parent)
	}
}

func TestUpsertOverwritesMetadataNotAttrsOr(t *testing.T) {
	tr := New()
	idx1 := tr.Upsert("f.txt", int64p(1), nil, nil, AttrReadOnly)
	idx2 := tr.Upsert("f.txt", int64p(2), nil, nil, AttrHidden)

	require.Equal(t, idx1, idx2)
	e, _ := tr.Get(idx1)
	assert.Equal(t, int64(2), *e.Size)
	assert.Equal(t, AttrHidden, e.Attrs)
}

func TestLenIncludesRootAndIntermediateDirectories(t *testing.T) {
	tr := New()
	tr.Upsert("a/b/c.txt", int64p(10), nil, nil, 0)

	// Root + "a" + "b" + "c.txt" == 4 elements.
	assert.Equal(t, 4, tr.Len())
}

func TestGetOutOfRange(t *testing.T) {
	tr := New()
	_, ok := tr.Get(-1)
	assert.False(t, ok)
	_, ok = tr.Get(tr.Len())
	assert.False(t, ok)
}

func TestShrinkToFitPreservesContents(t *testing.T) {
	tr := New()
	idx := tr.Upsert("a/b/c.txt", int64p(10), nil, nil, 0)
	tr.ShrinkToFit()
	assert.Equal(t, "c.txt", tr.FilenameOf(idx))
}

func TestIsDir(t *testing.T) {
	tr := New()
	fileIdx := tr.Upsert("f.txt", nil, nil, nil, 0)
	dirIdx := tr.Upsert("d", nil, nil, nil, AttrDirectory)
	assert.False(t, tr.IsDir(fileIdx))
	assert.True(t, tr.IsDir(dirIdx))
}
