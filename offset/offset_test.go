// Public domain.

package offset_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/soniakeys/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xrand "golang.org/x/exp/rand"

	"github.com/soniakeys/skymatch/offset"
	"github.com/soniakeys/skymatch/sphere"
)

var (
	brightStar  = sphere.NewPoint(unit.Angle(unit.NewRA(8, 50, 59.75)), unit.NewAngle(' ', 11, 39, 22.15))
	faintGalaxy = sphere.NewPoint(unit.Angle(unit.NewRA(8, 50, 47.92)), unit.NewAngle(' ', 11, 39, 32.74))
)

func sec(a unit.Angle) float64 { return a.Deg() * 3600 }

func ExampleSphericalOffsetsTo() {
	dlon, dlat := offset.SphericalOffsetsTo(brightStar, faintGalaxy)
	fmt.Printf("%.2f\" %.2f\"\n", sec(dlon), sec(dlat))
	// Output:
	// -173.79" 10.61"
}

func TestSphericalOffsetsTo(t *testing.T) {
	dlon, dlat := offset.SphericalOffsetsTo(brightStar, faintGalaxy)
	assert.InDelta(t, -173.7887335, sec(dlon), 1e-6)
	assert.InDelta(t, 10.6051034, sec(dlat), 1e-6)

	// and back
	p := offset.SphericalOffsetsBy(brightStar, dlon, dlat)
	assert.InDelta(t, 0, sec(sphere.Sep(p, faintGalaxy)), 1e-9)
}

func TestOffsetRoundTrip(t *testing.T) {
	rnd := xrand.New(&xrand.PCGSource{})
	rnd.Seed(11)
	randPoint := func() sphere.Point {
		return sphere.NewPoint(
			unit.Angle(2*math.Pi*rnd.Float64()),
			unit.Angle(math.Asin(2*rnd.Float64()-1)))
	}
	for i := 0; i < 500; i++ {
		f := offset.Frame{
			Origin:   randPoint(),
			Rotation: unit.Angle(2 * math.Pi * rnd.Float64()),
		}
		p := randPoint()
		lon, lat := f.ToOffset(p)
		require.LessOrEqual(t, math.Abs(lon.Rad()), math.Pi)
		q := f.FromOffset(lon, lat)
		require.Less(t, sphere.Sep(p, q).Rad(), 1e-12)
		require.GreaterOrEqual(t, q.Lon().Rad(), 0.)
		require.Less(t, q.Lon().Rad(), 2*math.Pi)

		// separation is preserved
		o0, o1 := f.ToOffset(f.Origin)
		assert.InDelta(t, 0, o0.Rad(), 1e-12)
		assert.InDelta(t, 0, o1.Rad(), 1e-12)
		d := sphere.Sep(f.Origin, p).Rad()
		assert.InDelta(t, d, sphere.Sep(sphere.NewPoint(0, 0), sphere.NewPoint(lon, lat)).Rad(), 1e-12)
	}
}

func TestRotation(t *testing.T) {
	origin := sphere.FromDeg(30, 20)
	east := offset.DirectionalOffsetBy(origin, unit.AngleFromDeg(90), unit.AngleFromDeg(1))
	north := offset.DirectionalOffsetBy(origin, 0, unit.AngleFromDeg(1))

	lon, lat := offset.Frame{Origin: origin}.ToOffset(east)
	assert.InDelta(t, 1, lon.Deg(), 1e-12)
	assert.InDelta(t, 0, lat.Deg(), 1e-12)
	lon, lat = offset.Frame{Origin: origin}.ToOffset(north)
	assert.InDelta(t, 0, lon.Deg(), 1e-12)
	assert.InDelta(t, 1, lat.Deg(), 1e-12)

	// a point at position angle equal to the rotation lies along positive
	// offset latitude
	f := offset.Frame{Origin: origin, Rotation: unit.AngleFromDeg(90)}
	lon, lat = f.ToOffset(east)
	assert.InDelta(t, 0, lon.Deg(), 1e-12)
	assert.InDelta(t, 1, lat.Deg(), 1e-12)
	lon, lat = f.ToOffset(north)
	assert.InDelta(t, -1, lon.Deg(), 1e-12)
	assert.InDelta(t, 0, lat.Deg(), 1e-12)
}

func TestPositionAngle(t *testing.T) {
	pa := offset.PositionAngle(brightStar, faintGalaxy)
	assert.InDelta(t, 273.4920284, pa.Deg(), 1e-6)

	origin := sphere.FromDeg(100, -40)
	for _, deg := range []float64{0, 45, 90, 180, 270, 359} {
		p := offset.DirectionalOffsetBy(origin, unit.AngleFromDeg(deg), unit.AngleFromDeg(2))
		assert.InDelta(t, 2, sphere.Sep(origin, p).Deg(), 1e-12)
		got := offset.PositionAngle(origin, p).Deg()
		if deg == 0 && got > 180 {
			got -= 360
		}
		assert.InDelta(t, deg, got, 1e-9, "pa %v", deg)
	}
}

func TestDistanceCarried(t *testing.T) {
	p := sphere.NewPoint3D(unit.AngleFromDeg(10), unit.AngleFromDeg(10), 42)
	q := offset.SphericalOffsetsBy(p, unit.AngleFromDeg(1), 0)
	d, ok := q.Dist()
	assert.True(t, ok)
	assert.Equal(t, 42., d)
	q = offset.DirectionalOffsetBy(p, 0, unit.AngleFromDeg(1))
	d, ok = q.Dist()
	assert.True(t, ok)
	assert.Equal(t, 42., d)
	assert.False(t, offset.Frame{Origin: p}.FromOffset(0, 0).HasDist())
}

func TestTransformSet(t *testing.T) {
	s, err := sphere.SetFromDeg(sphere.ICRS,
		[]float64{10, 10.5, 11}, []float64{-5, -5, -4}, []float64{1, 2, 3})
	require.NoError(t, err)
	f := offset.Frame{Kind: sphere.ICRS, Origin: sphere.FromDeg(10, -5)}
	o, err := f.TransformSet(s)
	require.NoError(t, err)
	assert.Equal(t, sphere.SkyOffset, o.Frame())
	assert.True(t, o.HasDist())
	require.Equal(t, 3, o.Len())
	for i := 0; i < s.Len(); i++ {
		lon, lat := f.ToOffset(s.At(i))
		assert.Equal(t, lon, o.At(i).Lon())
		assert.Equal(t, lat, o.At(i).Lat())
		d, _ := o.At(i).Dist()
		assert.Equal(t, float64(i+1), d)
	}

	f.Kind = sphere.Galactic
	_, err = f.TransformSet(s)
	assert.True(t, errors.Is(err, sphere.ErrFrameMismatch))
}
