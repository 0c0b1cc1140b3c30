// Public domain.

package match

import (
	"errors"
	"fmt"

	"github.com/soniakeys/skymatch/sphere"
)

var (
	// ErrEmptyCatalog is returned by nearest neighbor matching against a
	// catalog with no points.
	ErrEmptyCatalog = errors.New("empty catalog")

	// ErrMissingDistance is the sphere package sentinel, repeated here
	// for convenience.  MissingDistanceError values match it with
	// errors.Is.
	ErrMissingDistance = sphere.ErrMissingDistance

	// ErrDegenerateQuery is advisory.  It is never returned as an error,
	// only set on SearchResult.Advisory when a radius search was made
	// with a single point query.  For a single point, compute separations
	// to the catalog directly and compare them to the radius.
	ErrDegenerateQuery = errors.New("single point query to radius search; compare separations directly instead")

	// ErrInvalidRadius reports a negative or NaN search radius.
	ErrInvalidRadius = errors.New("invalid search radius")

	// ErrInvalidNeighbor reports an nth neighbor outside the catalog.
	ErrInvalidNeighbor = errors.New("invalid nth neighbor")

	// ErrInvalidMode reports a Mode value other than Sky or Spatial.
	ErrInvalidMode = errors.New("invalid match mode")
)

// MissingDistanceError identifies the first point lacking a radial
// distance in a 3D operation.
type MissingDistanceError struct {
	Role  string // "query" or "catalog"
	Index int
}

func (e *MissingDistanceError) Error() string {
	return fmt.Sprintf("%s point %d: %v", e.Role, e.Index, sphere.ErrMissingDistance)
}

func (e *MissingDistanceError) Unwrap() error { return sphere.ErrMissingDistance }
