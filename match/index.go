// Public domain.

package match

import (
	"math"
	"sort"
	"time"

	"github.com/soniakeys/coord"

	"github.com/soniakeys/skymatch/internal/metrics"
	"github.com/soniakeys/skymatch/sphere"
)

// catalogIndex is the read-only search structure for one catalog in one
// mode.  Once published it is never modified; a different catalog gets a
// new catalogIndex.
type catalogIndex struct {
	set  *sphere.PointSet
	mode Mode
	vec  []coord.Cart
	norm float64 // largest vector length in vec
	tree *kdTree // nil for catalogs scanned linearly
}

// embed returns the Cartesian embedding of s for mode, unit vectors for
// Sky and positions for Spatial, and the largest vector length.
func embed(s *sphere.PointSet, mode Mode) ([]coord.Cart, float64) {
	v := make([]coord.Cart, s.Len())
	var norm float64
	for i := range v {
		p := s.At(i)
		v[i] = p.Unit()
		if mode == Spatial {
			d, _ := p.Dist()
			v[i].MulScalar(&v[i], d)
			norm = math.Max(norm, d)
		}
	}
	if mode == Sky && len(v) > 0 {
		norm = 1
	}
	return v, norm
}

func buildIndex(s *sphere.PointSet, mode Mode, brute int) *catalogIndex {
	start := time.Now()
	ix := &catalogIndex{set: s, mode: mode}
	ix.vec, ix.norm = embed(s, mode)
	if len(ix.vec) >= brute {
		ix.tree = newKDTree(ix.vec)
	}
	metrics.IndexBuildsTotal.WithLabelValues(mode.String()).Inc()
	metrics.IndexBuildSeconds.Observe(time.Since(start).Seconds())
	metrics.IndexPoints.WithLabelValues(mode.String()).Set(float64(len(ix.vec)))
	return ix
}

// nearest offers h the candidates for query vector q.
func (ix *catalogIndex) nearest(q *coord.Cart, h *knn, brute bool) {
	if ix.tree == nil || brute {
		for i := range ix.vec {
			h.offer(dist2(q, &ix.vec[i]), i)
		}
		return
	}
	ix.tree.nearest(q, h)
}

// within calls fn for every catalog vector within squared distance r2 of q.
func (ix *catalogIndex) within(q *coord.Cart, r2 float64, brute bool, fn func(int)) {
	if ix.tree == nil || brute {
		for i := range ix.vec {
			if dist2(q, &ix.vec[i]) <= r2 {
				fn(i)
			}
		}
		return
	}
	ix.tree.within(q, r2, fn)
}

// ranked is a catalog index with its separation from a query point.
type ranked struct {
	sep float64
	i   int
}

// settle returns the catalog index of h's kth best candidate, ranked on the
// separation reported for it rather than on embedding distance.  The two
// agree only to rounding, so every vector within rounding of the kth best
// is ranked again on separation, ties to the lowest index.  buf is scratch
// space, returned for reuse.
func (ix *catalogIndex) settle(qp sphere.Point, q *coord.Cart, qn float64, h *knn, buf []ranked) (int, []ranked) {
	c, _ := h.last()
	b := math.Sqrt(c.d2)
	if ix.mode == Sky {
		b += 1e-12
	} else {
		b += 1e-9 * (b + ix.norm + qn)
	}
	buf = buf[:0]
	ix.within(q, b*b, false, func(j int) {
		if j == h.skip {
			return
		}
		cp := ix.set.At(j)
		var s float64
		if ix.mode == Sky {
			s = sphere.Sep(qp, cp).Rad()
		} else {
			s, _ = sphere.Sep3D(qp, cp)
		}
		buf = append(buf, ranked{s, j})
	})
	sort.Slice(buf, func(x, y int) bool {
		return buf[x].sep < buf[y].sep || buf[x].sep == buf[y].sep && buf[x].i < buf[y].i
	})
	return buf[h.k-1].i, buf
}
