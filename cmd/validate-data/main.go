// Command validate-data checks the country, state and city collections.
//
// Usage:
//
//	go run ./cmd/validate-data [-data ./data] [-v]
//
// With -data, collection files in that directory are validated instead of
// the embedded copies. Exits with status 1 when validation fails.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/andreiashu/csc"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fset := flag.NewFlagSet("validate-data", flag.ContinueOnError)
	fset.SetOutput(io.Discard)
	dataDir := fset.String("data", "", "directory holding country.json, state.json and city.json")
	verbose := fset.Bool("v", false, "log collection loads")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if fset.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fset.Args())
	}

	logger := zap.NewNop()
	if *verbose {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
	}
	defer logger.Sync()

	fmt.Fprintln(out, "Validating dataset...")

	d := csc.New(csc.WithDataDir(*dataDir), csc.WithLogger(logger))
	report, err := d.Validate()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "      Countries: %d (OK)\n", report.Countries)
	fmt.Fprintf(out, "      States: %d (OK)\n", report.States)
	fmt.Fprintf(out, "      Cities: %d (OK)\n", report.Cities)
	fmt.Fprintf(out, "      States without coordinates: %d\n", report.StatesWithoutCoordinates)
	fmt.Fprintf(out, "      Cities without coordinates: %d\n", report.CitiesWithoutCoordinates)
	for _, s := range report.OrphanStates {
		fmt.Fprintf(out, "      orphan state: %s\n", s)
	}
	for _, c := range report.OrphanCities {
		fmt.Fprintf(out, "      orphan city: %s\n", c)
	}

	fmt.Fprintln(out, "Dataset is valid.")
	return nil
}
