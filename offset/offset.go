// Public domain.

// Package offset expresses points relative to an origin on the sky.
//
// An offset frame has its origin at offset longitude and latitude zero.
// Offset latitude increases to the north of the origin and offset longitude
// to the east, so that for nearby points the offsets approximate the
// tangent plane coordinates commonly called ΔRA cos Dec and ΔDec.
package offset

import (
	"fmt"
	"math"

	"github.com/soniakeys/coord"
	"github.com/soniakeys/unit"

	"github.com/soniakeys/skymatch/sphere"
)

// Frame is a sky offset frame centered on Origin.
//
// Kind is the frame of Origin and of points transformed with the frame.
// Rotation turns the offset axes about the origin.  A point at position
// angle Rotation from the origin lies along positive offset latitude.
type Frame struct {
	Kind     sphere.FrameKind
	Origin   sphere.Point
	Rotation unit.Angle
}

// rot holds the sines and cosines of the three rotations taking a frame to
// its offset frame.
type rot struct {
	sl, cl float64 // origin longitude
	sb, cb float64 // origin latitude
	sr, cr float64 // rotation
}

func (f Frame) rot() rot {
	var r rot
	r.sl, r.cl = math.Sincos(f.Origin.Lon().Rad())
	r.sb, r.cb = math.Sincos(f.Origin.Lat().Rad())
	r.sr, r.cr = math.Sincos(f.Rotation.Rad())
	return r
}

// forward rotates v from the frame to the offset frame.
func (r *rot) forward(v coord.Cart) coord.Cart {
	x1 := v.X*r.cl + v.Y*r.sl
	y1 := -v.X*r.sl + v.Y*r.cl
	x2 := x1*r.cb + v.Z*r.sb
	z2 := -x1*r.sb + v.Z*r.cb
	return coord.Cart{
		X: x2,
		Y: r.cr*y1 - r.sr*z2,
		Z: r.sr*y1 + r.cr*z2,
	}
}

// inverse rotates v from the offset frame back to the frame.
func (r *rot) inverse(v coord.Cart) coord.Cart {
	y2 := r.cr*v.Y + r.sr*v.Z
	z2 := -r.sr*v.Y + r.cr*v.Z
	x1 := v.X*r.cb - z2*r.sb
	z := v.X*r.sb + z2*r.cb
	return coord.Cart{
		X: x1*r.cl - y2*r.sl,
		Y: x1*r.sl + y2*r.cl,
		Z: z,
	}
}

// lonLat returns the spherical angles of v.  Longitude is in (-π, π].
func lonLat(v coord.Cart) (lon, lat unit.Angle) {
	return unit.Angle(math.Atan2(v.Y, v.X)),
		unit.Angle(math.Atan2(v.Z, math.Hypot(v.X, v.Y)))
}

func unitVec(lon, lat unit.Angle) coord.Cart {
	return sphere.NewPoint(lon, lat).Unit()
}

// withLon returns a point at lon, lat with longitude wrapped to [0, 2π) and
// the distance of p, if any.
func withLon(lon, lat unit.Angle, p sphere.Point) sphere.Point {
	l := math.Mod(lon.Rad(), 2*math.Pi)
	if l < 0 {
		l += 2 * math.Pi
	}
	if d, ok := p.Dist(); ok {
		return sphere.NewPoint3D(unit.Angle(l), lat, d)
	}
	return sphere.NewPoint(unit.Angle(l), lat)
}

// ToOffset returns the offset longitude and latitude of p.  Offset longitude
// is in (-π, π].
func (f Frame) ToOffset(p sphere.Point) (lon, lat unit.Angle) {
	r := f.rot()
	return lonLat(r.forward(p.Unit()))
}

// FromOffset returns the point at offset longitude lon and latitude lat.
// The result has no distance; its longitude is in [0, 2π).
func (f Frame) FromOffset(lon, lat unit.Angle) sphere.Point {
	r := f.rot()
	l, b := lonLat(r.inverse(unitVec(lon, lat)))
	return withLon(l, b, sphere.Point{})
}

// TransformSet returns the points of s in the offset frame, tagged
// sphere.SkyOffset.  Radial distances are carried through.
func (f Frame) TransformSet(s *sphere.PointSet) (*sphere.PointSet, error) {
	if !sphere.Compatible(s.Frame(), f.Kind) {
		return nil, fmt.Errorf("%w: set %v, offset frame origin %v",
			sphere.ErrFrameMismatch, s.Frame(), f.Kind)
	}
	r := f.rot()
	pts := make([]sphere.Point, s.Len())
	for i := range pts {
		p := s.At(i)
		lon, lat := lonLat(r.forward(p.Unit()))
		if d, ok := p.Dist(); ok {
			pts[i] = sphere.NewPoint3D(lon, lat, d)
		} else {
			pts[i] = sphere.NewPoint(lon, lat)
		}
	}
	return sphere.NewSet(sphere.SkyOffset, pts)
}

// SphericalOffsetsTo returns the offsets of to in the unrotated offset
// frame centered on from.
func SphericalOffsetsTo(from, to sphere.Point) (dlon, dlat unit.Angle) {
	return Frame{Origin: from}.ToOffset(to)
}

// SphericalOffsetsBy returns the point at offsets dlon, dlat in the
// unrotated offset frame centered on p.  The result keeps the distance of p.
func SphericalOffsetsBy(p sphere.Point, dlon, dlat unit.Angle) sphere.Point {
	f := Frame{Origin: p}
	r := f.rot()
	l, b := lonLat(r.inverse(unitVec(dlon, dlat)))
	return withLon(l, b, p)
}

// PositionAngle returns the position angle of to as seen from from,
// measured from north through east, in [0, 2π).
func PositionAngle(from, to sphere.Point) unit.Angle {
	sb1, cb1 := math.Sincos(from.Lat().Rad())
	sb2, cb2 := math.Sincos(to.Lat().Rad())
	sdl, cdl := math.Sincos((to.Lon() - from.Lon()).Rad())
	pa := math.Atan2(sdl*cb2, sb2*cb1-cb2*sb1*cdl)
	if pa < 0 {
		pa += 2 * math.Pi
	}
	return unit.Angle(pa)
}

// DirectionalOffsetBy returns the point at separation sep from p in the
// direction of position angle pa.  The result keeps the distance of p.
//
// At a pole, directions are relative to the meridian of p's longitude.
func DirectionalOffsetBy(p sphere.Point, pa, sep unit.Angle) sphere.Point {
	ss, cs := math.Sincos(sep.Rad())
	sp, cp := math.Sincos(pa.Rad())
	r := Frame{Origin: p}.rot()
	l, b := lonLat(r.inverse(coord.Cart{X: cs, Y: ss * sp, Z: ss * cp}))
	return withLon(l, b, p)
}
