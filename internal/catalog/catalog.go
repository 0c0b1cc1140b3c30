// Public domain.

// Package catalog loads and saves named point catalogs.
//
// The file format is chosen by file name extension:
//
//	.csv                    comma separated values with a heading line
//	.parquet                Parquet rows {id, ra, dec, dist}
//	.db .sqlite .sqlite3    SQLite table, "catalog" by default
//	.obs .mpc .txt          MPC 80 column observations, read only
//
// Coordinates are stored in degrees.  Distances are optional, per point.
package catalog

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/soniakeys/unit"

	"github.com/soniakeys/skymatch/sphere"
)

// DefaultTable is the SQLite table read when Options.Table is empty.
const DefaultTable = "catalog"

var (
	// ErrFormat is returned for a file name extension that names no
	// supported format, or a format that can't be written.
	ErrFormat = errors.New("unsupported catalog format")

	// ErrColumns is returned when required coordinate columns are missing.
	ErrColumns = errors.New("missing catalog column")
)

// Catalog is a point set with an identifier for each point.
type Catalog struct {
	IDs    []string
	Points *sphere.PointSet
}

// Len returns the number of points.
func (c *Catalog) Len() int { return len(c.IDs) }

// Options control loading.  The zero value is usable.
type Options struct {
	Frame   sphere.FrameKind // frame tag of loaded points
	Table   string           // SQLite table
	Obscode string           // obscode.dat file, for MPC observations
	Log     zerolog.Logger
}

func (o *Options) table() string {
	if o.Table == "" {
		return DefaultTable
	}
	return o.Table
}

type format int

const (
	formatCSV format = iota
	formatParquet
	formatSQLite
	formatMPC
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return formatCSV, nil
	case ".parquet":
		return formatParquet, nil
	case ".db", ".sqlite", ".sqlite3":
		return formatSQLite, nil
	case ".obs", ".mpc", ".txt":
		return formatMPC, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrFormat, path)
}

// Load reads the catalog at path.
func Load(path string, opt Options) (*Catalog, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	var b builder
	switch f {
	case formatCSV:
		err = readCSV(path, &b)
	case formatParquet:
		err = readParquet(path, &b)
	case formatSQLite:
		err = readSQLite(path, opt.table(), &b)
	case formatMPC:
		err = readMPC(path, opt, &b)
	}
	if err != nil {
		return nil, err
	}
	c, err := b.catalog(opt.Frame)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	opt.Log.Debug().
		Str("file", path).
		Int("points", c.Len()).
		Bool("distances", c.Points.HasDist()).
		Msg("loaded catalog")
	return c, nil
}

// Save writes c to path in the format named by the extension.  MPC
// observation files can't be written.
func Save(path string, c *Catalog, opt Options) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}
	rs := records(c)
	switch f {
	case formatCSV:
		return writeCSV(path, rs)
	case formatParquet:
		return writeParquet(path, rs)
	case formatSQLite:
		return writeSQLite(path, opt.table(), rs)
	}
	return fmt.Errorf("%w: can't write %s", ErrFormat, path)
}

// record is one catalog entry in file units.
type record struct {
	id       string
	ra, dec  float64 // degrees
	dist     float64
	hasDist  bool
	location string // file position for messages
}

func records(c *Catalog) []record {
	rs := make([]record, c.Len())
	for i := range rs {
		p := c.Points.At(i)
		d, ok := p.Dist()
		rs[i] = record{
			id:      c.IDs[i],
			ra:      p.Lon().Deg(),
			dec:     p.Lat().Deg(),
			dist:    d,
			hasDist: ok,
		}
	}
	return rs
}

// builder accumulates points as they are read.
type builder struct {
	ids []string
	pts []sphere.Point
}

func (b *builder) add(r record) error {
	p := sphere.NewPoint(unit.AngleFromDeg(r.ra), unit.AngleFromDeg(r.dec))
	return b.addPoint(r.id, p, r.dist, r.hasDist, r.location)
}

func (b *builder) addPoint(id string, p sphere.Point, d float64, hasDist bool, loc string) error {
	if hasDist {
		p = p.WithDist(d)
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%s: %w", loc, err)
	}
	b.ids = append(b.ids, id)
	b.pts = append(b.pts, p)
	return nil
}

func (b *builder) catalog(frame sphere.FrameKind) (*Catalog, error) {
	s, err := sphere.NewSet(frame, b.pts)
	if err != nil {
		return nil, err
	}
	ids := b.ids
	if ids == nil {
		ids = []string{}
	}
	return &Catalog{IDs: ids, Points: s}, nil
}
