// Public domain.

package sphere

import (
	"math"

	"github.com/soniakeys/unit"
)

// Sep returns the great circle angular separation between p1 and p2.
//
// The Vincenty form of the formula is used.  It is well conditioned for
// all separations, coincident and antipodal points included, and the
// result is always within [0, π].  Distances are ignored.
//
// Sep(p1, p2) and Sep(p2, p1) return identical values.
func Sep(p1, p2 Point) unit.Angle {
	// evaluate in a canonical order so the result is bit-for-bit symmetric
	if p2.lon < p1.lon || p2.lon == p1.lon && p2.lat < p1.lat {
		p1, p2 = p2, p1
	}
	sdl, cdl := math.Sincos((p2.lon - p1.lon).Rad())
	s1, c1 := math.Sincos(p1.lat.Rad())
	s2, c2 := math.Sincos(p2.lat.Rad())
	n1 := c2 * sdl
	n2 := c1*s2 - s1*c2*cdl
	d := s1*s2 + c1*c2*cdl
	return unit.Angle(math.Atan2(math.Hypot(n1, n2), d))
}

// Sep3D returns the straight line distance between the Cartesian positions
// of p1 and p2.  Both points must carry a radial distance, otherwise the
// error is ErrMissingDistance.
func Sep3D(p1, p2 Point) (float64, error) {
	c1, err := p1.Cart()
	if err != nil {
		return 0, err
	}
	c2, err := p2.Cart()
	if err != nil {
		return 0, err
	}
	c1.Sub(&c1, &c2)
	return math.Sqrt(c1.Square()), nil
}

// ChordToSep converts a chord length between unit vectors to the angle
// it subtends.
func ChordToSep(chord float64) unit.Angle {
	h := chord / 2
	if h >= 1 {
		return unit.Angle(math.Pi)
	}
	return unit.Angle(2 * math.Asin(h))
}

// SepToChord converts an angular separation to the chord length between
// unit vectors separated by that angle.  Angles of π or more give 2.
func SepToChord(a unit.Angle) float64 {
	if a.Rad() >= math.Pi {
		return 2
	}
	return 2 * math.Sin(a.Rad()/2)
}
