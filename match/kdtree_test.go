// Public domain.

package match

import (
	"math"
	"sort"
	"testing"

	"github.com/soniakeys/coord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xrand "golang.org/x/exp/rand"
)

func randomVecs(rnd *xrand.Rand, n int, dup float64) []coord.Cart {
	v := make([]coord.Cart, n)
	for i := range v {
		if i > 0 && rnd.Float64() < dup {
			v[i] = v[rnd.Intn(i)]
			continue
		}
		z := 2*rnd.Float64() - 1
		r := math.Sqrt(1 - z*z)
		s, c := math.Sincos(2 * math.Pi * rnd.Float64())
		v[i] = coord.Cart{X: r * c, Y: r * s, Z: z}
	}
	return v
}

func scanKNN(v []coord.Cart, q *coord.Cart, k, skip int) []candidate {
	h := knn{}
	h.reset(k, skip)
	for i := range v {
		h.offer(dist2(q, &v[i]), i)
	}
	return h.best
}

func TestKDTreeNearest(t *testing.T) {
	rnd := xrand.New(&xrand.PCGSource{})
	rnd.Seed(3)
	for _, n := range []int{1, 7, 8, 9, 100, 1000} {
		v := randomVecs(rnd, n, .1)
		tr := newKDTree(v)
		for qx := 0; qx < 200; qx++ {
			q := randomVecs(rnd, 1, 0)[0]
			if qx%4 == 0 {
				q = v[rnd.Intn(n)] // exact hits and ties
			}
			for _, k := range []int{1, 3} {
				if k > n {
					continue
				}
				h := knn{}
				h.reset(k, -1)
				tr.nearest(&q, &h)
				require.Equal(t, scanKNN(v, &q, k, -1), h.best, "n %d k %d", n, k)
			}
			if n > 1 {
				skip := rnd.Intn(n)
				h := knn{}
				h.reset(1, skip)
				tr.nearest(&q, &h)
				require.Equal(t, scanKNN(v, &q, 1, skip), h.best)
			}
		}
	}
}

func TestKDTreeWithin(t *testing.T) {
	rnd := xrand.New(&xrand.PCGSource{})
	rnd.Seed(5)
	v := randomVecs(rnd, 2000, .05)
	tr := newKDTree(v)
	for qx := 0; qx < 100; qx++ {
		q := randomVecs(rnd, 1, 0)[0]
		r := rnd.Float64() * .3
		var got, want []int
		tr.within(&q, r*r, func(i int) { got = append(got, i) })
		for i := range v {
			if dist2(&q, &v[i]) <= r*r {
				want = append(want, i)
			}
		}
		sort.Ints(got)
		assert.Equal(t, want, got)
	}
}

func TestKDTreeAllEqual(t *testing.T) {
	v := make([]coord.Cart, 500)
	for i := range v {
		v[i] = coord.Cart{X: 1}
	}
	tr := newKDTree(v)
	h := knn{}
	h.reset(2, 0)
	tr.nearest(&coord.Cart{X: 1}, &h)
	// ties go to the lowest indexes not skipped
	require.Len(t, h.best, 2)
	assert.Equal(t, 1, h.best[0].i)
	assert.Equal(t, 2, h.best[1].i)
}

func TestKDTreePartition(t *testing.T) {
	rnd := xrand.New(&xrand.PCGSource{})
	rnd.Seed(7)
	v := randomVecs(rnd, 333, .2)
	tr := newKDTree(v)
	var check func(lo, hi, axis int)
	check = func(lo, hi, axis int) {
		if hi-lo <= leafSize {
			return
		}
		mid := (lo + hi) / 2
		s := tr.key(mid, axis)
		for px := lo; px < mid; px++ {
			require.LessOrEqual(t, tr.key(px, axis), s)
		}
		for px := mid + 1; px < hi; px++ {
			require.GreaterOrEqual(t, tr.key(px, axis), s)
		}
		check(lo, mid, (axis+1)%3)
		check(mid+1, hi, (axis+1)%3)
	}
	check(0, len(v), 0)
}

func TestKNN(t *testing.T) {
	h := knn{}
	h.reset(3, 4)
	for i, d := range []float64{5, 1, 3, 1, 0, 2, 1} {
		h.offer(d, i)
	}
	assert.Equal(t, []candidate{{1, 1}, {1, 3}, {1, 6}}, h.best)
	c, ok := h.last()
	assert.True(t, ok)
	assert.Equal(t, candidate{1, 6}, c)
	assert.Equal(t, 1., h.bound())

	h.reset(2, -1)
	assert.True(t, math.IsInf(h.bound(), 1))
	h.offer(7, 0)
	_, ok = h.last()
	assert.False(t, ok)
}
