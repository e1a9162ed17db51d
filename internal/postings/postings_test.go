package postings

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cases := [][]uint64{
		nil,
		{},
		{0},
		{1, 42357, 845376, 845378, 1047637}, // S2
		{0, 1, 2, 3, 4, 5},
		{0, math.MaxUint64},
		{math.MaxUint64 - 1, math.MaxUint64},
	}
	for _, xs := range cases {
		l := Build(xs)
		got := l.Decode()
		if len(xs) == 0 {
			assert.Empty(t, got)
			continue
		}
		assert.Equal(t, xs, got)
	}
}

func TestEmptyInputEncodesToEmptyBuffer(t *testing.T) {
	l := Build(nil)
	require.Equal(t, 0, l.Count())
	assert.Empty(t, l.buf)
	assert.Empty(t, l.Decode())
}

func TestIterateMatchesDecode(t *testing.T) {
	xs := []uint64{5, 10, 300, 301, 70000}
	l := Build(xs)
	var got []uint64
	l.Iterate(func(v uint64) { got = append(got, v) })
	assert.Equal(t, xs, got)
}

func TestMaxUint64RoundTrips(t *testing.T) {
	xs := []uint64{0, math.MaxUint64}
	got := Build(xs).Decode()
	require.Equal(t, xs, got)
}
