// Public domain.

// Package sphere holds points on the celestial sphere and the separations
// between them.
//
// Angles are unit.Angle values, that is, radians.  A point may carry a
// radial distance in any length unit, as long as all points compared with
// each other use the same one.
package sphere

import (
	"fmt"
	"math"

	"github.com/soniakeys/coord"
	"github.com/soniakeys/unit"
)

// Point is a direction on the sphere, longitude-like and latitude-like
// angles, with an optional radial distance.
//
// The zero value is the point at longitude 0, latitude 0 without distance.
// Points are values and are not modified after construction.
type Point struct {
	lon, lat unit.Angle
	dist     float64
	hasDist  bool
}

// NewPoint constructs a point without radial distance.
func NewPoint(lon, lat unit.Angle) Point {
	return Point{lon: lon, lat: lat}
}

// NewPoint3D constructs a point with radial distance d.
func NewPoint3D(lon, lat unit.Angle, d float64) Point {
	return Point{lon: lon, lat: lat, dist: d, hasDist: true}
}

// FromDeg constructs a point without distance from degree values.
func FromDeg(lon, lat float64) Point {
	return NewPoint(unit.AngleFromDeg(lon), unit.AngleFromDeg(lat))
}

// Lon returns the longitude-like angle.
func (p Point) Lon() unit.Angle { return p.lon }

// Lat returns the latitude-like angle.
func (p Point) Lat() unit.Angle { return p.lat }

// Dist returns the radial distance and whether the point has one.
func (p Point) Dist() (float64, bool) { return p.dist, p.hasDist }

// HasDist reports whether the point carries a radial distance.
func (p Point) HasDist() bool { return p.hasDist }

// WithDist returns a copy of p with radial distance d.
func (p Point) WithDist(d float64) Point {
	p.dist = d
	p.hasDist = true
	return p
}

// Validate checks that the angles are finite, the latitude is within
// [-π/2, π/2], and that any distance is finite and non-negative.
func (p Point) Validate() error {
	lon, lat := p.lon.Rad(), p.lat.Rad()
	switch {
	case math.IsNaN(lon) || math.IsInf(lon, 0):
		return fmt.Errorf("%w: longitude %v", ErrInvalidPoint, lon)
	case math.IsNaN(lat) || lat < -math.Pi/2 || lat > math.Pi/2:
		return fmt.Errorf("%w: latitude %v", ErrInvalidPoint, lat)
	case p.hasDist && (math.IsNaN(p.dist) || math.IsInf(p.dist, 0) || p.dist < 0):
		return fmt.Errorf("%w: distance %v", ErrInvalidPoint, p.dist)
	}
	return nil
}

// Unit returns the unit vector in the direction of p.  Distance is ignored.
func (p Point) Unit() coord.Cart {
	slat, clat := math.Sincos(p.lat.Rad())
	slon, clon := math.Sincos(p.lon.Rad())
	return coord.Cart{
		X: clat * clon,
		Y: clat * slon,
		Z: slat,
	}
}

// Cart returns the Cartesian position of p, the unit vector scaled by the
// radial distance.
func (p Point) Cart() (coord.Cart, error) {
	if !p.hasDist {
		return coord.Cart{}, ErrMissingDistance
	}
	c := p.Unit()
	c.MulScalar(&c, p.dist)
	return c, nil
}

// String formats the point in degrees.
func (p Point) String() string {
	if p.hasDist {
		return fmt.Sprintf("(%.6f°, %+.6f°, %g)", p.lon.Deg(), p.lat.Deg(), p.dist)
	}
	return fmt.Sprintf("(%.6f°, %+.6f°)", p.lon.Deg(), p.lat.Deg())
}
