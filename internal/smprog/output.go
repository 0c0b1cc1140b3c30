// Public domain.

package smprog

import (
	"fmt"
	"io"
	"sort"

	sexa "github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/soniakeys/skymatch/internal/catalog"
	"github.com/soniakeys/skymatch/match"
)

// printer writes result lines.  Separations are shown sexagesimal and in
// arc seconds, followed by the 3D separation when there is one and the
// configuration asks for it.
type printer struct {
	w     io.Writer
	cfg   *Config
	with3 bool
}

func newPrinter(w io.Writer, cfg *Config, with3D bool) *printer {
	return &printer{w: w, cfg: cfg, with3: with3D && cfg.Sep3D}
}

func (p *printer) headings(left, right string) {
	if !p.cfg.Headings {
		return
	}
	fmt.Fprintf(p.w, "%-12s %-12s %14s %12s", left, right, "Separation", "Arcsec")
	if p.with3 {
		fmt.Fprintf(p.w, " %14s", "Sep3D")
	}
	fmt.Fprintln(p.w)
}

func (p *printer) line(qid, cid string, sep unit.Angle, sep3 []float64, i int) {
	fmt.Fprintf(p.w, "%-12s %-12s %14s %12.4f",
		qid, cid, fmt.Sprintf("%.3s", sexa.FmtAngle(sep)), sep.Sec())
	if p.with3 {
		fmt.Fprintf(p.w, " %14.6g", sep3[i])
	}
	fmt.Fprintln(p.w)
}

func (p *printer) matches(q, c *catalog.Catalog, r *match.MatchResult) {
	p.headings("Query", "Match")
	for i, cx := range r.Index {
		p.line(q.IDs[i], c.IDs[cx], r.Sep[i], r.Sep3D, i)
	}
	if p.cfg.Summary {
		p.summary(r.Sep)
	}
}

func (p *printer) pairs(q, c *catalog.Catalog, r *match.SearchResult) {
	p.headings("Query", "Catalog")
	for i := 0; i < r.Len(); i++ {
		p.line(q.IDs[r.QueryIndex[i]], c.IDs[r.CatalogIndex[i]], r.Sep[i], r.Sep3D, i)
	}
	if p.cfg.Summary {
		p.summary(r.Sep)
	}
}

// sepStats summarizes separations in arc seconds.
type sepStats struct {
	n                      int
	mean, median, p90, max float64
}

func summarize(seps []unit.Angle) sepStats {
	x := make([]float64, len(seps))
	for i, s := range seps {
		x[i] = s.Sec()
	}
	s := sepStats{n: len(x)}
	if s.n == 0 {
		return s
	}
	sort.Float64s(x)
	s.mean = stat.Mean(x, nil)
	s.median = stat.Quantile(.5, stat.Empirical, x, nil)
	s.p90 = stat.Quantile(.9, stat.Empirical, x, nil)
	s.max = floats.Max(x)
	return s
}

func (p *printer) summary(seps []unit.Angle) {
	s := summarize(seps)
	fmt.Fprintln(p.w)
	if s.n == 0 {
		fmt.Fprintln(p.w, "No separations.")
		return
	}
	fmt.Fprintf(p.w, "%8s %12s %12s %12s %12s\n", "Count", "Mean", "Median", "90%", "Max")
	fmt.Fprintf(p.w, "%8d %12.4f %12.4f %12.4f %12.4f\n", s.n, s.mean, s.median, s.p90, s.max)
}
