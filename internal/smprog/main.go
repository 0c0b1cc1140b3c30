// Public domain.

// Package smprog is the skymatch command.
package smprog

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/soniakeys/exit"
	"github.com/soniakeys/unit"

	"github.com/soniakeys/skymatch/internal/catalog"
	"github.com/soniakeys/skymatch/match"
	"github.com/soniakeys/skymatch/sphere"
)

const versionString = "skymatch version 1.0 Go source."
const copyrightString = "Public domain."

// Main runs the command with os.Args and terminates the process on error.
func Main() {
	defer exit.Handler()

	cl, err := parseCommandLine(os.Args[1:], os.Stderr)
	switch {
	case errors.Is(err, flag.ErrHelp):
		printHelp(os.Stdout)
		os.Exit(0)
	case err != nil:
		os.Exit(1)
	case cl.v:
		fmt.Println(versionString)
		fmt.Println(copyrightString)
		os.Exit(0)
	}
	cfg, err := cl.config()
	if err != nil {
		exit.Log(err)
	}
	log := newLogger(os.Stderr, cfg.LogLevel)
	if cfg.Metrics != "" {
		serveMetrics(cfg.Metrics, log)
	}
	if err := run(cl, &cfg, os.Stdout, log); err != nil {
		exit.Log(err)
	}
}

type commandLine struct {
	dc    string            // config file
	fnCat string            // catalog
	fnQry string            // query
	v     bool              // -v option
	flags map[string]string // options given, by name
}

func parseCommandLine(args []string, stderr io.Writer) (*commandLine, error) {
	fs := flag.NewFlagSet("skymatch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cl := &commandLine{flags: map[string]string{}}
	fs.StringVar(&cl.dc, "c", "", "")
	fs.BoolVar(&cl.v, "v", false, "")
	// these override config file and environment, so only values actually
	// given are kept
	for _, name := range []string{"m", "r", "n", "t", "o", "f", "M", "w"} {
		fs.String(name, "", "")
	}
	fs.Usage = func() {
		io.WriteString(stderr, `
Usage: skymatch [options] <catalog> <query>   match query points to catalog
       skymatch -h                            display help and quick reference
       skymatch -v                            display version and copyright

Options:
       -c <config-file>
       -m sky|3d          separation to minimize or bound
       -r <radius>        find all pairs closer than radius
       -n <nth>           match nth nearest neighbor
       -f <frame>         reference frame tag of both files
       -t <table>         SQLite table name
       -o <obscode-file>  for MPC observation files
       -w <workers>
       -M <addr>          serve prometheus metrics at addr
`)
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		cl.flags[f.Name] = f.Value.String()
	})
	if cl.v {
		return cl, nil
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return nil, errors.New("two file names required")
	}
	cl.fnCat, cl.fnQry = fs.Arg(0), fs.Arg(1)
	return cl, nil
}

// config loads the config file and environment, then applies command line
// options.
func (cl *commandLine) config() (Config, error) {
	fn, required := cl.dc, true
	if fn == "" {
		fn, required = DefaultConfigFile, false
	}
	cfg, err := loadConfig(fn, required)
	if err != nil {
		return cfg, err
	}
	for name, val := range cl.flags {
		switch name {
		case "m":
			cfg.Mode = val
		case "r":
			cfg.Radius, err = strconv.ParseFloat(val, 64)
		case "n":
			cfg.Nth, err = strconv.Atoi(val)
		case "f":
			cfg.Frame = val
		case "t":
			cfg.Table = val
		case "o":
			cfg.Obscode = val
		case "w":
			cfg.Workers, err = strconv.Atoi(val)
		case "M":
			cfg.Metrics = val
		}
		if err != nil {
			return cfg, fmt.Errorf("-%s: %w", name, err)
		}
	}
	return cfg, ValidateConfig(&cfg)
}

func newLogger(w io.Writer, level string) zerolog.Logger {
	lv, err := zerolog.ParseLevel(level)
	if err != nil {
		lv = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(lv).
		With().Timestamp().Logger()
}

func serveMetrics(addr string, log zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error().Err(err).Str("addr", addr).Msg("metrics server")
		}
	}()
	log.Info().Str("addr", addr).Msg("serving metrics")
}

// run loads the two files, matches, and writes results to w.  Config must
// already be validated.
func run(cl *commandLine, cfg *Config, w io.Writer, log zerolog.Logger) error {
	mode, err := match.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}
	var frame sphere.FrameKind
	if cfg.Frame != "" {
		if frame, err = sphere.ParseFrame(cfg.Frame); err != nil {
			return err
		}
	}
	opt := catalog.Options{
		Frame:   frame,
		Table:   cfg.Table,
		Obscode: cfg.Obscode,
		Log:     log,
	}
	cat, err := catalog.Load(cl.fnCat, opt)
	if err != nil {
		return err
	}
	// the same file is the same set, so a set matched against itself
	// doesn't match each point to itself
	qry := cat
	if cl.fnQry != cl.fnCat {
		if qry, err = catalog.Load(cl.fnQry, opt); err != nil {
			return err
		}
	}

	mopts := []match.Option{
		match.WithBruteForceThreshold(cfg.Brute),
		match.WithLogger(log),
	}
	if cfg.Workers > 0 {
		mopts = append(mopts, match.WithWorkers(cfg.Workers))
	}
	m := match.New(mopts...)

	if cfg.Radius > 0 {
		radius := cfg.Radius
		if mode == match.Sky {
			radius = unit.AngleFromSec(radius).Rad()
		}
		r, err := m.Search(qry.Points, cat.Points, radius, mode)
		if err != nil {
			return err
		}
		newPrinter(w, cfg, r.Sep3D != nil).pairs(qry, cat, r)
		return nil
	}
	r, err := m.MatchNth(qry.Points, cat.Points, mode, cfg.Nth)
	if err != nil {
		return err
	}
	newPrinter(w, cfg, r.Sep3D != nil).matches(qry, cat, r)
	return nil
}

func printHelp(w io.Writer) {
	io.WriteString(w, `
Skymatch matches points of a query file to the nearest points of a catalog
file, by angular separation on the sky or by 3D separation for points with
radial distances.  With a radius, it instead finds all pairs of query and
catalog points closer than the radius.  Output is one line per match or pair.

Catalog files by extension:
   .csv                    heading line naming id, ra, dec, dist columns
   .parquet                rows of id, ra, dec, dist
   .db .sqlite .sqlite3    SQLite table, default "catalog"
   .obs .mpc .txt          MPC 80 column observations

Config file keywords:
   headings
   noheadings
   sep3d
   nosep3d
   summary
   nosummary
   mode=sky|3d
   nth=<n>
   radius=<r>    arc seconds in sky mode
   workers=<n>
   brute=<n>
   loglevel=<level>
   frame=<frame>
   table=<table>
   obscode=<file>
   metrics=<addr>

Environment variables SKYMATCH_<KEYWORD> override the config file.

For full documentation:
   go doc github.com/soniakeys/skymatch
`)
}
