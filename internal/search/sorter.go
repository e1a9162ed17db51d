package search

import (
	"sort"
	"sync"

	"github.com/SNisin/VaultSeek/internal/tree"
)

// SortField names the column a Sorter orders candidates by.
type SortField int

const (
	SortNone SortField = iota
	SortFilename
	SortSize
	SortModified
	SortCreated
)

// SortOrder is the direction a Sorter applies to a SortField.
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

// Sorter orders element-index slices by a precomputed per-field rank
// table instead of a comparator sort. Each field's rank table is built at
// most once, lazily, the first time that field is requested, over every
// element currently in the tree; nil metadata (Size/Modified/Created) is
// treated as the zero value, per spec.md §4.8's tie-breaking rule of
// falling back to index order for equal keys.
type Sorter struct {
	t *tree.FileTree

	once  [4]sync.Once
	ranks [4][]uint32
}

// NewSorter returns a Sorter bound to t. t must not grow after the first
// rank table is built.
func NewSorter(t *tree.FileTree) *Sorter {
	return &Sorter{t: t}
}

func fieldSlot(field SortField) int {
	switch field {
	case SortFilename:
		return 0
	case SortSize:
		return 1
	case SortModified:
		return 2
	case SortCreated:
		return 3
	default:
		return -1
	}
}

// rankTable returns (building if necessary) the rank permutation for
// field: rank[i] is the position element i occupies when every element in
// the tree is ordered ascending by field, with ties broken by element
// index so the table is a total order.
func (s *Sorter) rankTable(field SortField) []uint32 {
	slot := fieldSlot(field)
	if slot < 0 {
		return nil
	}
	s.once[slot].Do(func() {
		s.ranks[slot] = s.buildRankTable(field)
	})
	return s.ranks[slot]
}

func (s *Sorter) buildRankTable(field SortField) []uint32 {
	n := s.t.Len()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	less := s.lessFunc(field)
	sort.Slice(order, func(i, j int) bool { return less(order[i], order[j]) })

	rank := make([]uint32, n)
	for pos, idx := range order {
		rank[idx] = uint32(pos)
	}
	return rank
}

func (s *Sorter) lessFunc(field SortField) func(a, b int) bool {
	switch field {
	case SortFilename:
		return func(a, b int) bool {
			na, nb := s.t.FilenameOf(a), s.t.FilenameOf(b)
			if na != nb {
				return na < nb
			}
			return a < b
		}
	case SortSize:
		return func(a, b int) bool {
			ea, _ := s.t.Get(a)
			eb, _ := s.t.Get(b)
			va, vb := int64ptr(ea.Size), int64ptr(eb.Size)
			if va != vb {
				return va < vb
			}
			return a < b
		}
	case SortModified:
		return func(a, b int) bool {
			ea, _ := s.t.Get(a)
			eb, _ := s.t.Get(b)
			va, vb := int64ptr(ea.Modified), int64ptr(eb.Modified)
			if va != vb {
				return va < vb
			}
			return a < b
		}
	case SortCreated:
		return func(a, b int) bool {
			ea, _ := s.t.Get(a)
			eb, _ := s.t.Get(b)
			va, vb := int64ptr(ea.Created), int64ptr(eb.Created)
			if va != vb {
				return va < vb
			}
			return a < b
		}
	default:
		return func(a, b int) bool { return a < b }
	}
}

func int64ptr(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

// sentinel marks an unused scratch slot; element indices are always < the
// tree's length, so MaxUint64 never collides with a real index.
const sentinel = ^uint64(0)

// Sort orders candidates by field/order in place, using the O(|tree|)
// scatter/compact algorithm: each candidate is scattered into a dense
// scratch slice at the position its rank table entry names, then the
// scratch slice is compacted back into candidates by walking it in
// order. Unknown fields (SortNone) leave candidates untouched.
func (s *Sorter) Sort(candidates []uint64, field SortField, order SortOrder) []uint64 {
	if field == SortNone || len(candidates) == 0 {
		return candidates
	}
	rank := s.rankTable(field)
	if rank == nil {
		return candidates
	}

	n := len(rank)
	scratch := make([]uint64, n)
	for i := range scratch {
		scratch[i] = sentinel
	}
	for _, idx := range candidates {
		r := int(rank[idx])
		if order == Descending {
			r = n - 1 - r
		}
		scratch[r] = idx
	}

	out := candidates[:0]
	for _, v := range scratch {
		if v != sentinel {
			out = append(out, v)
		}
	}
	return out
}
