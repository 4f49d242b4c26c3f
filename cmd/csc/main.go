// Command csc queries the bundled country, state and city dataset.
//
// Usage:
//
//	csc [-data dir] [-o text|json|yaml] countries
//	csc [-data dir] [-o text|json|yaml] country US
//	csc [-data dir] [-o text|json|yaml] states [US]
//	csc [-data dir] [-o text|json|yaml] state US CA
//	csc [-data dir] [-o text|json|yaml] cities US [CA]
//	csc [-data dir] [-o text|json|yaml] nearest 37.44 -122.15
//
// CSC_DATA_DIR and CSC_LOG_LEVEL are read from the environment or from a
// .env file in the working directory.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/andreiashu/csc"
)

var errUsage = errors.New("usage: csc [-data dir] [-o text|json|yaml] countries|country CC|states [CC]|state CC SC|cities CC [SC]|nearest LAT LNG")

// errNotFound is returned for lookups by code that match nothing.
var errNotFound = errors.New("not found")

func main() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	logger, err := newLogger(os.Getenv("CSC_LOG_LEVEL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	if err := run(os.Args[1:], os.Stdout, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// newLogger builds a production logger writing to stderr. An empty level
// disables logging.
func newLogger(level string) (*zap.Logger, error) {
	if level == "" {
		return zap.NewNop(), nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("CSC_LOG_LEVEL: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func run(args []string, out io.Writer, logger *zap.Logger) error {
	fset := flag.NewFlagSet("csc", flag.ContinueOnError)
	fset.SetOutput(io.Discard)
	dataDir := fset.String("data", os.Getenv("CSC_DATA_DIR"), "directory overriding the embedded collections")
	format := fset.String("o", "text", "output format: text, json or yaml")
	if err := fset.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	w, err := newWriter(*format, out)
	if err != nil {
		return err
	}

	d := csc.New(csc.WithDataDir(*dataDir), csc.WithLogger(logger))
	rest := fset.Args()
	if len(rest) == 0 {
		return errUsage
	}

	switch cmd, params := rest[0], rest[1:]; {
	case cmd == "countries" && len(params) == 0:
		countries, err := d.Countries()
		if err != nil {
			return err
		}
		return w.countries(countries)

	case cmd == "country" && len(params) == 1:
		country, ok, err := d.CountryByCode(params[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("country %q: %w", params[0], errNotFound)
		}
		return w.countries([]csc.Country{country})

	case cmd == "states" && len(params) <= 1:
		var states []csc.State
		if len(params) == 0 {
			states, err = d.States()
		} else {
			states, err = d.StatesOfCountry(params[0])
		}
		if err != nil {
			return err
		}
		return w.states(states)

	case cmd == "state" && len(params) == 2:
		state, ok, err := d.StateByCode(params[0], params[1])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("state %s-%s: %w", params[0], params[1], errNotFound)
		}
		return w.states([]csc.State{state})

	case cmd == "cities" && (len(params) == 1 || len(params) == 2):
		var cities []csc.City
		if len(params) == 1 {
			cities, err = d.CitiesOfCountry(params[0])
		} else {
			cities, err = d.CitiesOfState(params[0], params[1])
		}
		if err != nil {
			return err
		}
		return w.cities(cities)

	case cmd == "nearest" && len(params) == 2:
		lat, errLat := strconv.ParseFloat(params[0], 64)
		lng, errLng := strconv.ParseFloat(params[1], 64)
		if errLat != nil || errLng != nil {
			return fmt.Errorf("%w: nearest needs numeric coordinates", errUsage)
		}
		city, ok, err := d.NearestCity(lat, lng)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("city near %v,%v: %w", lat, lng, errNotFound)
		}
		return w.cities([]csc.City{city})
	}
	return errUsage
}
