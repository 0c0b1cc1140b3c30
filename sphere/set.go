// Public domain.

package sphere

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingDistance is returned by 3D operations on points without
	// radial distance.
	ErrMissingDistance = errors.New("missing radial distance")

	// ErrInvalidPoint reports a non-finite angle, a latitude out of range,
	// or a negative distance.
	ErrInvalidPoint = errors.New("invalid point")

	// ErrFrameMismatch reports point sets tagged with different frames.
	ErrFrameMismatch = errors.New("reference frame mismatch")

	// ErrLengthMismatch reports coordinate arrays of unequal length.
	ErrLengthMismatch = errors.New("coordinate arrays differ in length")
)

// FrameKind tags the reference frame a point set is expressed in.
//
// Frame conversion is not done here.  The tag only lets operations on
// two sets confirm that someone already converted them to a common frame.
type FrameKind int

const (
	Unspecified FrameKind = iota
	ICRS
	FK5
	FK4
	Galactic
	Ecliptic
	AltAz
	SkyOffset
)

var frameNames = [...]string{
	Unspecified: "unspecified",
	ICRS:        "icrs",
	FK5:         "fk5",
	FK4:         "fk4",
	Galactic:    "galactic",
	Ecliptic:    "ecliptic",
	AltAz:       "altaz",
	SkyOffset:   "skyoffset",
}

func (k FrameKind) String() string {
	if k >= 0 && int(k) < len(frameNames) {
		return frameNames[k]
	}
	return fmt.Sprintf("FrameKind(%d)", int(k))
}

// ParseFrame returns the FrameKind named by s, as produced by String.
func ParseFrame(s string) (FrameKind, error) {
	for k, n := range frameNames {
		if n == s {
			return FrameKind(k), nil
		}
	}
	return Unspecified, fmt.Errorf("unknown frame %q", s)
}

// Compatible reports whether sets in frames a and b may be compared.
// Unspecified is compatible with every frame.
func Compatible(a, b FrameKind) bool {
	return a == b || a == Unspecified || b == Unspecified
}

// PointSet is an ordered, fixed sequence of points.  Indexes into the set
// are the index space of match results.
//
// A PointSet is never modified after construction.  Two sets are the same
// set only if they are the same *PointSet.
type PointSet struct {
	frame FrameKind
	pts   []Point
	dist  bool // every point has a distance
}

// NewSet validates pts and returns a set holding a copy of them.
func NewSet(frame FrameKind, pts []Point) (*PointSet, error) {
	s := &PointSet{
		frame: frame,
		pts:   append([]Point(nil), pts...),
		dist:  len(pts) > 0,
	}
	for i, p := range s.pts {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		if !p.hasDist {
			s.dist = false
		}
	}
	return s, nil
}

// SetFromDeg builds a set from parallel arrays of degrees.  Dist may be nil
// for a set without distances, otherwise it must match lon and lat in length.
func SetFromDeg(frame FrameKind, lon, lat, dist []float64) (*PointSet, error) {
	if len(lon) != len(lat) || dist != nil && len(dist) != len(lon) {
		return nil, ErrLengthMismatch
	}
	pts := make([]Point, len(lon))
	for i := range lon {
		pts[i] = FromDeg(lon[i], lat[i])
		if dist != nil {
			pts[i] = pts[i].WithDist(dist[i])
		}
	}
	return NewSet(frame, pts)
}

// Len returns the number of points in the set.
func (s *PointSet) Len() int { return len(s.pts) }

// At returns point i.
func (s *PointSet) At(i int) Point { return s.pts[i] }

// Frame returns the frame tag of the set.
func (s *PointSet) Frame() FrameKind { return s.frame }

// HasDist reports whether every point of a non-empty set carries a
// radial distance.
func (s *PointSet) HasDist() bool { return s.dist }

// MissingDist returns the index of the first point lacking a radial
// distance, or -1.
func (s *PointSet) MissingDist() int {
	for i, p := range s.pts {
		if !p.hasDist {
			return i
		}
	}
	return -1
}

// Points returns a copy of the points of the set.
func (s *PointSet) Points() []Point {
	return append([]Point(nil), s.pts...)
}
