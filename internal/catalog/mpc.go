// Public domain.

package catalog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/soniakeys/mpcformat"
	"github.com/soniakeys/observation"
	"github.com/soniakeys/unit"

	"github.com/soniakeys/skymatch/sphere"
)

// ObscodeFile is the obscode file name used when Options.Obscode is empty.
// It is looked for in the directory of the observation file.
const ObscodeFile = "obscode.dat"

// fetchObscodes downloads a fresh obscode file.  A variable so tests don't
// go to the network.
var fetchObscodes = mpcformat.FetchObscodeDat

// readObscodes reads the obscode file, getting a fresh copy from the MPC if
// the file is missing or unreadable.
func readObscodes(fn string, opt Options) (observation.ParallaxMap, error) {
	ocd, readErr := mpcformat.ReadObscodeDatFile(fn)
	if readErr == nil {
		return ocd, nil
	}
	opt.Log.Info().Err(readErr).Str("file", fn).Msg("fetching obscodes")
	if err := fetchObscodes(fn); err != nil {
		return nil, fmt.Errorf("%v; fetch: %w", readErr, err)
	}
	// retry with downloaded file
	return mpcformat.ReadObscodeDatFile(fn)
}

// readMPC reads 80 column observations, one point per observation.
// Observations that don't parse are skipped; read errors are fatal.
func readMPC(path string, opt Options, b *builder) error {
	fn := opt.Obscode
	if fn == "" {
		fn = filepath.Join(filepath.Dir(path), ObscodeFile)
	}
	ocd, err := readObscodes(fn, opt)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	skipped := 0
	for s := mpcformat.ArcSplitter(f, ocd); ; {
		a, err := s()
		if err == io.EOF {
			break
		}
		if _, ok := err.(mpcformat.ArcError); ok {
			skipped++
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		for i, o := range a.Obs {
			m := o.Meas()
			p := sphere.NewPoint(unit.Angle(m.RA), unit.Angle(m.Dec))
			loc := fmt.Sprintf("%s: %s observation %d", path, a.Desig, i+1)
			if err := b.addPoint(a.Desig, p, 0, false, loc); err != nil {
				return err
			}
		}
	}
	if skipped > 0 {
		opt.Log.Warn().Str("file", path).Int("arcs", skipped).Msg("skipped unparsable arcs")
	}
	return nil
}
