// Public domain.

package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// csvColumns locates the catalog columns in a heading line.  Columns not
// present are -1.
type csvColumns struct {
	id, ra, dec, dist int
}

func parseHeading(h []string) (csvColumns, error) {
	c := csvColumns{-1, -1, -1, -1}
	for i, s := range h {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "id", "name", "desig":
			c.id = i
		case "ra", "lon":
			c.ra = i
		case "dec", "lat":
			c.dec = i
		case "dist", "distance":
			c.dist = i
		}
	}
	switch {
	case c.ra < 0:
		return c, fmt.Errorf("%w: ra or lon", ErrColumns)
	case c.dec < 0:
		return c, fmt.Errorf("%w: dec or lat", ErrColumns)
	}
	return c, nil
}

func readCSV(path string, b *builder) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return decodeCSV(f, path, b)
}

func decodeCSV(r io.Reader, path string, b *builder) error {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	h, err := cr.Read()
	if err == io.EOF {
		return fmt.Errorf("%s: %w: no heading line", path, ErrColumns)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	cols, err := parseHeading(h)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	for n := 1; ; n++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		line, _ := cr.FieldPos(0)
		loc := fmt.Sprintf("%s:%d", path, line)
		r := record{id: strconv.Itoa(n), location: loc}
		if cols.id >= 0 {
			r.id = rec[cols.id]
		}
		if r.ra, err = strconv.ParseFloat(rec[cols.ra], 64); err != nil {
			return fmt.Errorf("%s: ra: %w", loc, err)
		}
		if r.dec, err = strconv.ParseFloat(rec[cols.dec], 64); err != nil {
			return fmt.Errorf("%s: dec: %w", loc, err)
		}
		// an empty distance cell is a point without distance
		if cols.dist >= 0 && rec[cols.dist] != "" {
			if r.dist, err = strconv.ParseFloat(rec[cols.dist], 64); err != nil {
				return fmt.Errorf("%s: dist: %w", loc, err)
			}
			r.hasDist = true
		}
		if err := b.add(r); err != nil {
			return err
		}
	}
}

func writeCSV(path string, rs []record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	w.Write([]string{"id", "ra", "dec", "dist"})
	for _, r := range rs {
		d := ""
		if r.hasDist {
			d = strconv.FormatFloat(r.dist, 'g', -1, 64)
		}
		w.Write([]string{
			r.id,
			strconv.FormatFloat(r.ra, 'g', -1, 64),
			strconv.FormatFloat(r.dec, 'g', -1, 64),
			d,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
