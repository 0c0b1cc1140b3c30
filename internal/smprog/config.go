// Public domain.

package smprog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"github.com/soniakeys/skymatch/match"
	"github.com/soniakeys/skymatch/sphere"
)

// EnvPrefix prefixes environment variables overriding the config file,
// SKYMATCH_RADIUS for example.
const EnvPrefix = "SKYMATCH"

// DefaultConfigFile is read, if present, when no -c option is given.
const DefaultConfigFile = "skymatch.config"

// Config is the program configuration.  Fields are set from defaults, the
// config file, the environment, and the command line, in that order.
type Config struct {
	Headings bool    `envconfig:"HEADINGS"`
	Sep3D    bool    `envconfig:"SEP3D"`
	Summary  bool    `envconfig:"SUMMARY"`
	Mode     string  `envconfig:"MODE"`
	Nth      int     `envconfig:"NTH"`
	Radius   float64 `envconfig:"RADIUS"` // > 0 selects radius search
	Workers  int     `envconfig:"WORKERS"`
	Brute    int     `envconfig:"BRUTE"`
	LogLevel string  `envconfig:"LOGLEVEL"`
	Frame    string  `envconfig:"FRAME"`
	Table    string  `envconfig:"TABLE"`
	Obscode  string  `envconfig:"OBSCODE"`
	Metrics  string  `envconfig:"METRICS"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() Config {
	return Config{
		Headings: true,
		Sep3D:    true,
		Mode:     match.Sky.String(),
		Nth:      1,
		Brute:    match.DefaultBruteForceThreshold,
		LogLevel: zerolog.InfoLevel.String(),
	}
}

var (
	// ErrConfigLine is a config file line with no known keyword or setting.
	ErrConfigLine = errors.New("unrecognized line in config file")

	// ErrConfigNth is an nth neighbor setting less than 1.
	ErrConfigNth = errors.New("nth must be at least 1")

	// ErrConfigNeg is a negative worker count or brute force threshold.
	ErrConfigNeg = errors.New("value must not be negative")
)

// ValidateConfig checks values that the config file, environment, or
// command line could have set out of range.
func ValidateConfig(cfg *Config) error {
	if _, err := match.ParseMode(cfg.Mode); err != nil {
		return err
	}
	if cfg.Nth < 1 {
		return fmt.Errorf("%w: %d", ErrConfigNth, cfg.Nth)
	}
	switch {
	case cfg.Radius < 0 || math.IsNaN(cfg.Radius):
		return fmt.Errorf("radius %v: %w", cfg.Radius, match.ErrInvalidRadius)
	case cfg.Workers < 0:
		return fmt.Errorf("workers %d: %w", cfg.Workers, ErrConfigNeg)
	case cfg.Brute < 0:
		return fmt.Errorf("brute %d: %w", cfg.Brute, ErrConfigNeg)
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	if cfg.Frame != "" {
		if _, err := sphere.ParseFrame(cfg.Frame); err != nil {
			return err
		}
	}
	return nil
}

var rxSetting = regexp.MustCompile(`^[ \t]*([a-z0-9]+)[ \t]*=[ \t]*(.*?)[ \t]*$`)

// parseConfig reads keyword lines into cfg.  Blank lines and lines
// starting with # are ignored.
func parseConfig(r io.Reader, cfg *Config) error {
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		ls := strings.TrimSpace(sc.Text())
		if ls == "" || ls[0] == '#' {
			continue
		}
		switch ls {
		case "headings":
			cfg.Headings = true
			continue
		case "noheadings":
			cfg.Headings = false
			continue
		case "sep3d":
			cfg.Sep3D = true
			continue
		case "nosep3d":
			cfg.Sep3D = false
			continue
		case "summary":
			cfg.Summary = true
			continue
		case "nosummary":
			cfg.Summary = false
			continue
		}
		ss := rxSetting.FindStringSubmatch(ls)
		if ss == nil {
			return fmt.Errorf("%w: %d: %s", ErrConfigLine, n, ls)
		}
		if err := setKeyword(cfg, ss[1], ss[2]); err != nil {
			return fmt.Errorf("config file line %d: %w", n, err)
		}
	}
	return sc.Err()
}

func setKeyword(cfg *Config, key, val string) (err error) {
	switch key {
	case "mode":
		cfg.Mode = val
	case "nth":
		cfg.Nth, err = strconv.Atoi(val)
	case "radius":
		cfg.Radius, err = strconv.ParseFloat(val, 64)
	case "workers":
		cfg.Workers, err = strconv.Atoi(val)
	case "brute":
		cfg.Brute, err = strconv.Atoi(val)
	case "loglevel":
		cfg.LogLevel = val
	case "frame":
		cfg.Frame = val
	case "table":
		cfg.Table = val
	case "obscode":
		cfg.Obscode = val
	case "metrics":
		cfg.Metrics = val
	default:
		return fmt.Errorf("%w: %s", ErrConfigLine, key)
	}
	return err
}

// loadConfig builds the configuration from the config file fn and the
// environment.  A missing file is an error only if required.
func loadConfig(fn string, required bool) (Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(fn)
	switch {
	case err == nil:
		err = parseConfig(f, &cfg)
		f.Close()
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", fn, err)
		}
	case required || !errors.Is(err, fs.ErrNotExist):
		return cfg, err
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, err
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
