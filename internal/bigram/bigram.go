// Package bigram implements the BigramIndex: a mapping from each
// lowercased adjacent character pair in an element's filename to the
// compressed postings list of element indices that contain it, used as a
// candidate filter ahead of the post-filter's exact verification.
package bigram

import (
	"runtime"
	"sort"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/RoaringBitmap/roaring"

	"github.com/SNisin/VaultSeek/internal/postings"
	"github.com/SNisin/VaultSeek/internal/tree"
)

// key is one bigram: an ordered pair of lowercased runes.
type key [2]rune

// Index maps each bigram to its postings list.
type Index struct {
	postings    map[key]postings.List
	numElements int
}

// NumElements returns the tree size the index was built against.
func (ix *Index) NumElements() int { return ix.numElements }

// Build constructs a BigramIndex over every element in t. Per-element
// bigram extraction is fanned out over GOMAXPROCS workers, each owning a
// contiguous range of element indices and its own local accumulator map,
// grounded on build/builder.go's Options.Parallelism worker-pool idiom;
// partial results are merged back in element-id order before dedup and
// compression so each bigram's list stays sorted.
func Build(t *tree.FileTree) (*Index, error) {
	n := t.Len()
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	partials := make([]map[key][]uint64, workers)
	chunk := (n + workers - 1) / workers

	g := new(errgroup.Group)
	for w := 0; w < workers; w++ {
		w := w
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			local := make(map[key][]uint64)
			for i := lo; i < hi; i++ {
				extractInto(local, t.FilenameOf(i), uint64(i))
			}
			partials[w] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[key][]uint64)
	for _, local := range partials {
		for k, ids := range local {
			merged[k] = append(merged[k], ids...)
		}
	}

	out := &Index{postings: make(map[key]postings.List, len(merged)), numElements: n}
	for k, ids := range merged {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		ids = dedupSorted(ids)
		out.postings[k] = postings.Build(ids)
	}
	return out, nil
}

// extractInto lowercases name and records elementIndex against every
// adjacent bigram. Filenames shorter than two characters contribute
// nothing.
func extractInto(dst map[key][]uint64, name string, elementIndex uint64) {
	runes := []rune(name)
	for i := range runes {
		runes[i] = unicode.ToLower(runes[i])
	}
	for i := 0; i+1 < len(runes); i++ {
		k := key{runes[i], runes[i+1]}
		list := dst[k]
		if len(list) == 0 || list[len(list)-1] != elementIndex {
			dst[k] = append(list, elementIndex)
		}
	}
}

func dedupSorted(xs []uint64) []uint64 {
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

func bigramsOf(word string) []key {
	runes := []rune(word)
	for i := range runes {
		runes[i] = unicode.ToLower(runes[i])
	}
	var out []key
	seen := make(map[key]bool)
	for i := 0; i+1 < len(runes); i++ {
		k := key{runes[i], runes[i+1]}
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

// QueryWord computes the candidate set for a (lowercased) multi-character
// word: intersect the postings of every distinct bigram in the word via a
// two-pointer merge, swapping working buffers between iterations. A
// missing bigram short-circuits to an empty result. The returned slice is
// sorted and free of duplicates, and is a superset of the true substring
// matches.
func (ix *Index) QueryWord(word string) []uint64 {
	bigrams := bigramsOf(word)
	if len(bigrams) == 0 {
		return nil
	}
	first, ok := ix.postings[bigrams[0]]
	if !ok {
		return nil
	}
	working := first.Decode()
	for _, b := range bigrams[1:] {
		list, ok := ix.postings[b]
		if !ok {
			return nil
		}
		working = intersect(working, list.Decode())
		if len(working) == 0 {
			return working
		}
	}
	return working
}

// intersect merges two sorted, duplicate-free slices via the classic
// two-pointer walk.
func intersect(a, b []uint64) []uint64 {
	out := make([]uint64, 0, min(len(a), len(b)))
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

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// QueryChar is the fallback for single-character queries: every bigram
// whose first or second rune matches ch contributes its postings to a
// boolean bitmap of size NumElements, which is then materialized into a
// sorted index slice.
func (ix *Index) QueryChar(ch rune) []uint64 {
	ch = unicode.ToLower(ch)
	bm := roaring.New()
	for k, list := range ix.postings {
		if k[0] != ch && k[1] != ch {
			continue
		}
		list.Iterate(func(v uint64) {
			bm.Add(uint32(v))
		})
	}
	out := make([]uint64, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, uint64(it.Next()))
	}
	return out
}
