// Public domain.

package match

import (
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
)

// Mode selects the separation minimized or bounded by an operation.
type Mode int

const (
	// Sky works with angular separation on the unit sphere.
	Sky Mode = iota
	// Spatial works with 3D separation and requires radial distances.
	Spatial
)

func (m Mode) String() string {
	switch m {
	case Sky:
		return "sky"
	case Spatial:
		return "3d"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts the strings produced by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "sky":
		return Sky, nil
	case "3d":
		return Spatial, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

func (m Mode) valid() bool { return m == Sky || m == Spatial }

// DefaultBruteForceThreshold is the catalog size below which no index is
// built and catalogs are scanned linearly.
const DefaultBruteForceThreshold = 64

// Option configures a Matcher.
type Option func(*options)

type options struct {
	workers     int
	brute       int
	noSelfMatch bool
	log         zerolog.Logger
}

func defaultOptions() options {
	return options{
		workers:     runtime.GOMAXPROCS(0),
		brute:       DefaultBruteForceThreshold,
		noSelfMatch: true,
		log:         zerolog.Nop(),
	}
}

// WithWorkers limits the number of goroutines answering queries of one
// operation.  Values less than 1 mean one.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.workers = n
	}
}

// WithBruteForceThreshold sets the catalog size below which catalogs are
// scanned linearly instead of indexed.  Zero indexes every catalog.
func WithBruteForceThreshold(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.brute = n
	}
}

// WithSelfExclusion sets whether nearest neighbor matching of a set against
// itself skips the trivial pairing of each point with itself.  The default
// is true.
func WithSelfExclusion(exclude bool) Option {
	return func(o *options) { o.noSelfMatch = exclude }
}

// WithLogger sets the logger.  The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}
