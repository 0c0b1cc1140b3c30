// Public domain.

package match

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/soniakeys/coord"
	"github.com/soniakeys/unit"
	"golang.org/x/sync/errgroup"

	"github.com/soniakeys/skymatch/internal/metrics"
	"github.com/soniakeys/skymatch/sphere"
)

// chunk is the number of query points handled by one goroutine at a time.
const chunk = 256

// Matcher answers nearest neighbor and radius queries against catalogs,
// keeping the index of the most recent catalog for each mode.
//
// A Matcher is safe for concurrent use.  Presenting a different catalog
// builds a new index and publishes it in place of the old one; operations
// already running finish on the index they started with.
type Matcher struct {
	opts options
	log  zerolog.Logger

	mu  sync.Mutex // serializes index builds
	idx [2]atomic.Pointer[catalogIndex]
}

// New returns a Matcher configured by opts.
func New(opts ...Option) *Matcher {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Matcher{opts: o, log: o.log}
}

// MatchResult holds, for each query point, the index of the matched
// catalog point and the separations to it.
//
// Sep3D is nil unless every point of both sets carries a radial distance.
type MatchResult struct {
	Index []int
	Sep   []unit.Angle
	Sep3D []float64
}

// SearchResult holds the pairs found by a radius search as parallel
// slices, ordered by query index and then catalog index.
//
// Sep3D is nil unless every point of both sets carries a radial distance.
// Advisory is nil or ErrDegenerateQuery; it does not indicate failure.
type SearchResult struct {
	QueryIndex   []int
	CatalogIndex []int
	Sep          []unit.Angle
	Sep3D        []float64
	Advisory     error
}

// Len returns the number of pairs.
func (r *SearchResult) Len() int { return len(r.QueryIndex) }

// cached returns the published index for catalog, or nil.
func (m *Matcher) cached(catalog *sphere.PointSet, mode Mode) *catalogIndex {
	if ix := m.idx[mode].Load(); ix != nil && ix.set == catalog {
		return ix
	}
	return nil
}

// index returns the index for catalog, building and publishing it if the
// published one is for a different catalog.
func (m *Matcher) index(catalog *sphere.PointSet, mode Mode) *catalogIndex {
	if ix := m.cached(catalog, mode); ix != nil {
		metrics.IndexReuseTotal.WithLabelValues(mode.String()).Inc()
		return ix
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if ix := m.cached(catalog, mode); ix != nil {
		metrics.IndexReuseTotal.WithLabelValues(mode.String()).Inc()
		return ix
	}
	start := time.Now()
	ix := buildIndex(catalog, mode, m.opts.brute)
	m.idx[mode].Store(ix)
	m.log.Debug().
		Str("mode", mode.String()).
		Int("points", catalog.Len()).
		Bool("tree", ix.tree != nil).
		Dur("elapsed", time.Since(start)).
		Msg("built catalog index")
	return ix
}

// Reset drops the cached indexes.
func (m *Matcher) Reset() {
	m.mu.Lock()
	for i := range m.idx {
		m.idx[i].Store(nil)
	}
	m.mu.Unlock()
}

// each runs fn over [0, n) in chunks, concurrently up to the worker limit.
// Each call of fn gets a disjoint range.
func (m *Matcher) each(n int, fn func(lo, hi int)) {
	if n <= chunk || m.opts.workers <= 1 {
		fn(0, n)
		return
	}
	var g errgroup.Group
	g.SetLimit(m.opts.workers)
	for lo := 0; lo < n; lo += chunk {
		lo := lo
		hi := min(lo+chunk, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait() // fn has no error to return
}

func validate(query, catalog *sphere.PointSet, mode Mode) error {
	if !mode.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}
	if !sphere.Compatible(query.Frame(), catalog.Frame()) {
		return fmt.Errorf("%w: query %v, catalog %v",
			sphere.ErrFrameMismatch, query.Frame(), catalog.Frame())
	}
	if mode == Spatial {
		if i := catalog.MissingDist(); i >= 0 {
			return &MissingDistanceError{Role: "catalog", Index: i}
		}
		if i := query.MissingDist(); i >= 0 {
			return &MissingDistanceError{Role: "query", Index: i}
		}
	}
	return nil
}

// queryVec returns the embedding of p for mode and its length.
func queryVec(p sphere.Point, mode Mode) (coord.Cart, float64) {
	if mode == Sky {
		return p.Unit(), 1
	}
	c, _ := p.Cart()
	d, _ := p.Dist()
	return c, d
}

func (m *Matcher) fail(op string, err error) error {
	metrics.OperationErrorsTotal.WithLabelValues(op).Inc()
	return err
}

// Match finds for each query point the nearest catalog point.
//
// In Sky mode nearness is angular separation, in Spatial mode it is 3D
// separation and every point of both sets must carry a radial distance.
// Equally near catalog points resolve to the lowest index.
//
// When query and catalog are the same *PointSet, with at least two points,
// each point's match is the nearest other point, unless the Matcher was
// built WithSelfExclusion(false).
func (m *Matcher) Match(query, catalog *sphere.PointSet, mode Mode) (*MatchResult, error) {
	return m.MatchNth(query, catalog, mode, 1)
}

// MatchNth is Match returning the nth nearest catalog point, n >= 1.
func (m *Matcher) MatchNth(query, catalog *sphere.PointSet, mode Mode, nth int) (*MatchResult, error) {
	const op = "match"
	start := time.Now()
	if err := validate(query, catalog, mode); err != nil {
		return nil, m.fail(op, err)
	}
	nc := catalog.Len()
	if nc == 0 {
		return nil, m.fail(op, ErrEmptyCatalog)
	}
	self := query == catalog && m.opts.noSelfMatch && nc >= 2
	avail := nc
	if self {
		avail--
	}
	if nth < 1 || nth > avail {
		return nil, m.fail(op, fmt.Errorf("%w: %d of %d catalog points", ErrInvalidNeighbor, nth, avail))
	}

	ix := m.index(catalog, mode)
	nq := query.Len()
	res := &MatchResult{
		Index: make([]int, nq),
		Sep:   make([]unit.Angle, nq),
	}
	if query.HasDist() && catalog.HasDist() {
		res.Sep3D = make([]float64, nq)
	}
	m.each(nq, func(lo, hi int) {
		h := knn{best: make([]candidate, 0, nth+1)}
		var buf []ranked
		for i := lo; i < hi; i++ {
			skip := -1
			if self {
				skip = i
			}
			h.reset(nth, skip)
			qp := query.At(i)
			qv, qn := queryVec(qp, mode)
			ix.nearest(&qv, &h, false)
			var j int
			j, buf = ix.settle(qp, &qv, qn, &h, buf)
			cp := catalog.At(j)
			res.Index[i] = j
			res.Sep[i] = sphere.Sep(qp, cp)
			if res.Sep3D != nil {
				res.Sep3D[i], _ = sphere.Sep3D(qp, cp)
			}
		}
	})
	if ix.tree == nil {
		metrics.BruteForceTotal.WithLabelValues(op).Inc()
	}
	metrics.OperationsTotal.WithLabelValues(op, mode.String()).Inc()
	metrics.QueryPointsTotal.WithLabelValues(op).Add(float64(nq))
	metrics.OperationSeconds.WithLabelValues(op).Observe(time.Since(start).Seconds())
	return res, nil
}

// Search finds all pairs of query and catalog points separated by strictly
// less than radius.  Radius is in radians for Sky mode and in the distance
// unit for Spatial mode.
//
// An empty catalog or a zero radius gives an empty result, not an error.
// A single point query is answered by linear scan and the result carries
// the advisory ErrDegenerateQuery.
//
// A set searched against itself includes each point paired with itself.
func (m *Matcher) Search(query, catalog *sphere.PointSet, radius float64, mode Mode) (*SearchResult, error) {
	const op = "search"
	start := time.Now()
	if err := validate(query, catalog, mode); err != nil {
		return nil, m.fail(op, err)
	}
	if radius < 0 || math.IsNaN(radius) {
		return nil, m.fail(op, fmt.Errorf("%w: %v", ErrInvalidRadius, radius))
	}
	nq, nc := query.Len(), catalog.Len()
	res := &SearchResult{
		QueryIndex:   []int{},
		CatalogIndex: []int{},
		Sep:          []unit.Angle{},
	}
	with3D := query.HasDist() && catalog.HasDist()
	if with3D {
		res.Sep3D = []float64{}
	}
	degenerate := nq == 1
	if degenerate {
		res.Advisory = ErrDegenerateQuery
		metrics.DegenerateQueriesTotal.Inc()
		m.log.Warn().
			Int("catalog", nc).
			Float64("radius", radius).
			Msg(ErrDegenerateQuery.Error())
	}
	defer func() {
		metrics.OperationsTotal.WithLabelValues(op, mode.String()).Inc()
		metrics.QueryPointsTotal.WithLabelValues(op).Add(float64(nq))
		metrics.PairsFoundTotal.Add(float64(res.Len()))
		metrics.OperationSeconds.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()
	if nc == 0 || nq == 0 || radius == 0 {
		return res, nil
	}

	var ix *catalogIndex
	if degenerate {
		// a linear scan needs only the embedding; don't build a tree
		if ix = m.cached(catalog, mode); ix == nil {
			ix = &catalogIndex{set: catalog, mode: mode}
			ix.vec, ix.norm = embed(catalog, mode)
		}
	} else {
		ix = m.index(catalog, mode)
	}
	if degenerate || ix.tree == nil {
		metrics.BruteForceTotal.WithLabelValues(op).Inc()
	}

	var skyBound float64
	if mode == Sky {
		b := sphere.SepToChord(unit.Angle(radius)) + 1e-12
		skyBound = b * b
	}
	found := make([][]int, nq)
	m.each(nq, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			qp := query.At(i)
			qv, qn := queryVec(qp, mode)
			r2 := skyBound
			if mode == Spatial {
				// candidates are selected with a little slack and then
				// filtered on the exact separation
				b := radius + 1e-9*(radius+ix.norm+qn)
				r2 = b * b
			}
			var js []int
			ix.within(&qv, r2, degenerate, func(j int) {
				cp := catalog.At(j)
				if mode == Sky {
					if sphere.Sep(qp, cp).Rad() < radius {
						js = append(js, j)
					}
				} else if d, _ := sphere.Sep3D(qp, cp); d < radius {
					js = append(js, j)
				}
			})
			sort.Ints(js)
			found[i] = js
		}
	})

	for i, js := range found {
		qp := query.At(i)
		for _, j := range js {
			cp := catalog.At(j)
			res.QueryIndex = append(res.QueryIndex, i)
			res.CatalogIndex = append(res.CatalogIndex, j)
			res.Sep = append(res.Sep, sphere.Sep(qp, cp))
			if with3D {
				d, _ := sphere.Sep3D(qp, cp)
				res.Sep3D = append(res.Sep3D, d)
			}
		}
	}
	return res, nil
}
