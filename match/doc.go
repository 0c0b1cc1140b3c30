// Public domain.

/*
Package match matches points of one set against a catalog of points on the
sphere.

Two operations are provided, each in a Sky and a Spatial mode:

  Match   nearest catalog point to each query point
  Search  all query-catalog pairs closer than a radius

Catalogs of DefaultBruteForceThreshold points or more are indexed with a
k-d tree over their Cartesian embedding: unit vectors for Sky mode,
positions scaled by radial distance for Spatial mode.  Chord length between
unit vectors increases monotonically with angular separation, so the nearest
point in the embedding is the nearest point on the sky.  Reported
separations are always recomputed with sphere.Sep and sphere.Sep3D from the
original points, so they are identical to what those functions return when
called directly.

The package level functions MatchToSky, MatchTo3D, SearchAroundSky and
SearchAround3D use a shared Matcher.  Create a Matcher with New to control
logging, concurrency, and the brute force threshold, or to keep an index
cached independently of other users of the package.

Inputs must already be in a common frame.  Sets tagged with different
sphere.FrameKind values are rejected with sphere.ErrFrameMismatch.
*/
package match
