package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestMapRewritesLeavesBottomUp(t *testing.T) {
	tree := &And{Children: []Q{
		&Literal{Text: "a"},
		&Or{Children: []Q{
			&Literal{Text: "b"},
			&Not{Child: &Literal{Text: "c"}},
		}},
	}}

	rewritten := Map(tree, func(q Q) Q {
		lit, ok := q.(*Literal)
		if !ok {
			return q
		}
		return &Literal{Text: lit.Text + "!"}
	})

	want := &And{Children: []Q{
		&Literal{Text: "a!"},
		&Or{Children: []Q{
			&Literal{Text: "b!"},
			&Not{Child: &Literal{Text: "c!"}},
		}},
	}}

	if diff := cmp.Diff(want, rewritten, cmpopts.IgnoreUnexported(Modifiers{})); diff != "" {
		t.Errorf("Map() mismatch (-want +got):\n%s", diff)
	}
}

func TestNewAndCollapsesSingleChild(t *testing.T) {
	lit := &Literal{Text: "only"}
	q := NewAnd(lit)
	if q != Q(lit) {
		t.Errorf("NewAnd with one child should return it unchanged, got %#v", q)
	}
}

func TestNewOrCollapsesSingleChild(t *testing.T) {
	lit := &Literal{Text: "only"}
	q := NewOr(lit)
	if q != Q(lit) {
		t.Errorf("NewOr with one child should return it unchanged, got %#v", q)
	}
}
