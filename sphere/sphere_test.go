// Public domain.

package sphere_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/soniakeys/meeus/v3/angle"
	"github.com/soniakeys/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xrand "golang.org/x/exp/rand"

	"github.com/soniakeys/skymatch/sphere"
)

func randomPoint(rnd *xrand.Rand) sphere.Point {
	lon := unit.Angle(rnd.Float64() * 2 * math.Pi)
	lat := unit.Angle(math.Asin(2*rnd.Float64() - 1))
	return sphere.NewPoint3D(lon, lat, 1+rnd.Float64()*9)
}

func ExampleSep() {
	a := sphere.FromDeg(10, 45)
	b := sphere.FromDeg(11, 46)
	fmt.Printf("%.4f°\n", sphere.Sep(a, b).Deg())
	// Output:
	// 1.2212°
}

func TestSepDocumentedPair(t *testing.T) {
	a := sphere.FromDeg(10, 45)
	b := sphere.FromDeg(11, 46)
	s := sphere.Sep(a, b)
	assert.InDelta(t, 1.2211536508, s.Deg(), 1e-9)
	// the flat sqrt(dlon²+dlat²) approximation would give 1.414°
	assert.Greater(t, math.Abs(s.Deg()-math.Sqrt2), .1)
	ref := angle.SepHav(a.Lon(), a.Lat(), b.Lon(), b.Lat())
	assert.InDelta(t, ref.Rad(), s.Rad(), 1e-13)
}

func TestSepProperties(t *testing.T) {
	rnd := xrand.New(&xrand.PCGSource{})
	rnd.Seed(3)
	for n := 0; n < 2000; n++ {
		p1, p2 := randomPoint(rnd), randomPoint(rnd)
		if s := sphere.Sep(p1, p1); s != 0 {
			t.Fatalf("Sep(p, p) = %v for %v", s, p1)
		}
		s12 := sphere.Sep(p1, p2)
		s21 := sphere.Sep(p2, p1)
		if s12 != s21 {
			t.Fatalf("asymmetric: %v, %v for %v %v", s12, s21, p1, p2)
		}
		if s12 < 0 || s12.Rad() > math.Pi || math.IsNaN(s12.Rad()) {
			t.Fatalf("out of range: %v", s12)
		}
		ref := angle.SepHav(p1.Lon(), p1.Lat(), p2.Lon(), p2.Lat())
		if math.Abs(ref.Rad()-s12.Rad()) > 1e-7 {
			t.Fatalf("Sep %v, haversine %v", s12, ref)
		}
	}
}

func TestSepAntipodal(t *testing.T) {
	tcs := []struct {
		p1, p2 sphere.Point
	}{
		{sphere.FromDeg(0, 0), sphere.FromDeg(180, 0)},
		{sphere.FromDeg(0, 90), sphere.FromDeg(0, -90)},
		{sphere.FromDeg(37.5, 21.25), sphere.FromDeg(217.5, -21.25)},
	}
	for _, tc := range tcs {
		s := sphere.Sep(tc.p1, tc.p2)
		require.False(t, math.IsNaN(s.Rad()), "%v %v", tc.p1, tc.p2)
		assert.InDelta(t, math.Pi, s.Rad(), 1e-12, "%v %v", tc.p1, tc.p2)
		assert.LessOrEqual(t, s.Rad(), math.Pi)
	}
}

func TestSepSmall(t *testing.T) {
	// one milliarcsecond, where the cosine formula loses everything
	a := sphere.FromDeg(120, -30)
	b := sphere.NewPoint(a.Lon(), a.Lat()+unit.AngleFromSec(.001))
	assert.InDelta(t, .001, sphere.Sep(a, b).Sec(), 1e-9)
}

func TestSep3D(t *testing.T) {
	a := sphere.NewPoint3D(0, 0, 1)
	b := sphere.NewPoint3D(unit.AngleFromDeg(90), 0, 1)
	d, err := sphere.Sep3D(a, b)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, d, 1e-15)

	c := sphere.NewPoint3D(unit.AngleFromDeg(10), unit.AngleFromDeg(20), 2)
	e := sphere.NewPoint3D(unit.AngleFromDeg(10), unit.AngleFromDeg(20), 5)
	d, err = sphere.Sep3D(c, e)
	require.NoError(t, err)
	assert.InDelta(t, 3, d, 1e-14)

	d1, _ := sphere.Sep3D(a, c)
	d2, _ := sphere.Sep3D(c, a)
	assert.Equal(t, d1, d2)

	_, err = sphere.Sep3D(a, sphere.FromDeg(1, 1))
	assert.ErrorIs(t, err, sphere.ErrMissingDistance)
	_, err = sphere.Sep3D(sphere.FromDeg(1, 1), a)
	assert.ErrorIs(t, err, sphere.ErrMissingDistance)
}

func TestChord(t *testing.T) {
	for _, deg := range []float64{0, 1e-6, .5, 30, 90, 179.9} {
		a := unit.AngleFromDeg(deg)
		assert.InDelta(t, a.Rad(), sphere.ChordToSep(sphere.SepToChord(a)).Rad(), 1e-12)
	}
	assert.Equal(t, 2., sphere.SepToChord(unit.Angle(4)))
	assert.Equal(t, math.Pi, sphere.ChordToSep(2.5).Rad())
}

func TestValidate(t *testing.T) {
	bad := []sphere.Point{
		sphere.NewPoint(unit.Angle(math.NaN()), 0),
		sphere.NewPoint(unit.Angle(math.Inf(1)), 0),
		sphere.NewPoint(0, unit.AngleFromDeg(90.5)),
		sphere.NewPoint3D(0, 0, -1),
		sphere.NewPoint3D(0, 0, math.NaN()),
	}
	for _, p := range bad {
		assert.ErrorIs(t, p.Validate(), sphere.ErrInvalidPoint, "%v", p)
	}
	assert.NoError(t, sphere.NewPoint3D(unit.AngleFromDeg(-720), unit.AngleFromDeg(-90), 0).Validate())
}

func TestNewSet(t *testing.T) {
	s, err := sphere.SetFromDeg(sphere.ICRS, []float64{1, 2}, []float64{3, 4}, []float64{5, 6})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.HasDist())
	assert.Equal(t, -1, s.MissingDist())
	assert.Equal(t, sphere.ICRS, s.Frame())

	pts := []sphere.Point{sphere.FromDeg(1, 2), sphere.NewPoint3D(0, 0, 1)}
	s, err = sphere.NewSet(sphere.Unspecified, pts)
	require.NoError(t, err)
	assert.False(t, s.HasDist())
	assert.Equal(t, 0, s.MissingDist())
	// the set keeps its own copy
	pts[0] = sphere.FromDeg(50, 50)
	assert.Equal(t, 1., s.At(0).Lon().Deg())

	empty, err := sphere.NewSet(sphere.Unspecified, nil)
	require.NoError(t, err)
	assert.False(t, empty.HasDist())

	_, err = sphere.SetFromDeg(sphere.ICRS, []float64{1}, []float64{1, 2}, nil)
	assert.True(t, errors.Is(err, sphere.ErrLengthMismatch))
	_, err = sphere.SetFromDeg(sphere.ICRS, []float64{1}, []float64{100}, nil)
	assert.ErrorIs(t, err, sphere.ErrInvalidPoint)
}

func TestFrames(t *testing.T) {
	for k := sphere.Unspecified; k <= sphere.SkyOffset; k++ {
		p, err := sphere.ParseFrame(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, p)
	}
	_, err := sphere.ParseFrame("supergalactic")
	assert.Error(t, err)
	assert.True(t, sphere.Compatible(sphere.ICRS, sphere.Unspecified))
	assert.False(t, sphere.Compatible(sphere.ICRS, sphere.Galactic))
}
