// Public domain.

package match

import (
	"github.com/soniakeys/unit"

	"github.com/soniakeys/skymatch/sphere"
)

var shared = New()

// MatchToSky matches each query point to the catalog point of least angular
// separation.
func MatchToSky(query, catalog *sphere.PointSet) (*MatchResult, error) {
	return shared.Match(query, catalog, Sky)
}

// MatchTo3D matches each query point to the catalog point of least 3D
// separation.
func MatchTo3D(query, catalog *sphere.PointSet) (*MatchResult, error) {
	return shared.Match(query, catalog, Spatial)
}

// SearchAroundSky finds all query-catalog pairs with angular separation
// less than radius.
func SearchAroundSky(query, catalog *sphere.PointSet, radius unit.Angle) (*SearchResult, error) {
	return shared.Search(query, catalog, radius.Rad(), Sky)
}

// SearchAround3D finds all query-catalog pairs with 3D separation less
// than radius.
func SearchAround3D(query, catalog *sphere.PointSet, radius float64) (*SearchResult, error) {
	return shared.Search(query, catalog, radius, Spatial)
}
