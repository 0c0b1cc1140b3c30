// Public domain.

package match

import (
	"math"

	"github.com/soniakeys/coord"
)

// leafSize is the largest range scanned linearly within the tree.
const leafSize = 8

// kdTree is a balanced k-d tree over a slice of vectors.
//
// The tree is implicit in perm.  The node of range [lo, hi) is the vector
// perm[(lo+hi)/2], split on an axis cycling X, Y, Z with depth.  Vectors
// in [lo, mid) are <= the node on that axis, vectors in (mid, hi) are >=.
// Ranges of leafSize or less are leaves.
type kdTree struct {
	v    []coord.Cart
	perm []int
}

func newKDTree(v []coord.Cart) *kdTree {
	t := &kdTree{v: v, perm: make([]int, len(v))}
	for i := range t.perm {
		t.perm[i] = i
	}
	t.build(0, len(v), 0)
	return t
}

func axisOf(c *coord.Cart, axis int) float64 {
	switch axis {
	case 0:
		return c.X
	case 1:
		return c.Y
	}
	return c.Z
}

func dist2(a, b *coord.Cart) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return dx*dx + dy*dy + dz*dz
}

func (t *kdTree) key(px, axis int) float64 {
	return axisOf(&t.v[t.perm[px]], axis)
}

func (t *kdTree) build(lo, hi, axis int) {
	for hi-lo > leafSize {
		mid := (lo + hi) / 2
		t.selectNth(lo, hi, mid, axis)
		axis = (axis + 1) % 3
		t.build(lo, mid, axis)
		lo = mid + 1
	}
}

// selectNth reorders perm[lo:hi] so that perm[k] holds the vector that
// would be there if the range were sorted on axis, with nothing greater
// before it and nothing less after it.
//
// The three way partition keeps runs of equal keys, common with
// duplicated catalog entries, from degrading to quadratic time.
func (t *kdTree) selectNth(lo, hi, k, axis int) {
	p := t.perm
	for hi-lo > 1 {
		pv := t.pivot(lo, hi, axis)
		lt, i, gt := lo, lo, hi
		for i < gt {
			switch x := t.key(i, axis); {
			case x < pv:
				p[lt], p[i] = p[i], p[lt]
				lt++
				i++
			case x > pv:
				gt--
				p[i], p[gt] = p[gt], p[i]
			default:
				i++
			}
		}
		switch {
		case k < lt:
			hi = lt
		case k >= gt:
			lo = gt
		default:
			return
		}
	}
}

// pivot returns the median of the keys at the ends and middle of a range.
func (t *kdTree) pivot(lo, hi, axis int) float64 {
	a := t.key(lo, axis)
	b := t.key((lo+hi)/2, axis)
	c := t.key(hi-1, axis)
	if a > b {
		a, b = b, a
	}
	if b > c {
		b = c
	}
	if a > b {
		b = a
	}
	return b
}

// nearest offers h every vector that could rank among its k best.
func (t *kdTree) nearest(q *coord.Cart, h *knn) {
	t.nearestIn(q, h, 0, len(t.perm), 0)
}

func (t *kdTree) nearestIn(q *coord.Cart, h *knn, lo, hi, axis int) {
	if hi-lo <= leafSize {
		for _, i := range t.perm[lo:hi] {
			h.offer(dist2(q, &t.v[i]), i)
		}
		return
	}
	mid := (lo + hi) / 2
	i := t.perm[mid]
	diff := axisOf(q, axis) - axisOf(&t.v[i], axis)
	next := (axis + 1) % 3
	near, far := [2]int{lo, mid}, [2]int{mid + 1, hi}
	if diff >= 0 {
		near, far = far, near
	}
	t.nearestIn(q, h, near[0], near[1], next)
	h.offer(dist2(q, &t.v[i]), i)
	// <= rather than <, equal distances still compete on index
	if diff*diff <= h.bound() {
		t.nearestIn(q, h, far[0], far[1], next)
	}
}

// within calls fn for every vector with squared distance to q <= r2.
func (t *kdTree) within(q *coord.Cart, r2 float64, fn func(i int)) {
	t.withinIn(q, r2, fn, 0, len(t.perm), 0)
}

func (t *kdTree) withinIn(q *coord.Cart, r2 float64, fn func(int), lo, hi, axis int) {
	for hi-lo > leafSize {
		mid := (lo + hi) / 2
		i := t.perm[mid]
		diff := axisOf(q, axis) - axisOf(&t.v[i], axis)
		axis = (axis + 1) % 3
		if dist2(q, &t.v[i]) <= r2 {
			fn(i)
		}
		switch {
		case diff*diff <= r2:
			t.withinIn(q, r2, fn, lo, mid, axis)
			lo = mid + 1
		case diff < 0:
			hi = mid
		default:
			lo = mid + 1
		}
	}
	for _, i := range t.perm[lo:hi] {
		if dist2(q, &t.v[i]) <= r2 {
			fn(i)
		}
	}
}

// candidate is a catalog index with its squared embedding distance.
type candidate struct {
	d2 float64
	i  int
}

func (c candidate) less(d2 float64, i int) bool {
	return c.d2 < d2 || c.d2 == d2 && c.i < i
}

// knn keeps the k best candidates offered, ordered by distance then
// index, ignoring index skip.
type knn struct {
	k    int
	skip int
	best []candidate
}

func (h *knn) reset(k, skip int) {
	h.k = k
	h.skip = skip
	h.best = h.best[:0]
}

// bound is the squared distance a candidate must not exceed to be kept.
func (h *knn) bound() float64 {
	if len(h.best) < h.k {
		return math.Inf(1)
	}
	return h.best[h.k-1].d2
}

func (h *knn) offer(d2 float64, i int) {
	if i == h.skip {
		return
	}
	n := len(h.best)
	if n == h.k {
		if h.best[n-1].less(d2, i) {
			return
		}
		n--
		h.best = h.best[:n]
	}
	j := n
	for j > 0 && !h.best[j-1].less(d2, i) {
		j--
	}
	h.best = append(h.best, candidate{})
	copy(h.best[j+1:], h.best[j:n])
	h.best[j] = candidate{d2, i}
}

// last returns the kth best candidate.  ok is false if fewer than k
// candidates were offered.
func (h *knn) last() (c candidate, ok bool) {
	if len(h.best) < h.k {
		return
	}
	return h.best[h.k-1], true
}
