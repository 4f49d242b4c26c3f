package csc

import (
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Validation thresholds for data integrity checks on the bundled dataset.
const (
	minCountryCount = 10
	minStateCount   = 30
	minCityCount    = 50
)

// knownCountries must resolve by code.
var knownCountries = []string{"US", "GB", "IN", "AU", "CA"}

// knownState defines a state lookup used for functional validation.
type knownState struct {
	countryCode string
	stateCode   string
	wantName    string
}

// knownStates must resolve by code and own at least one city.
var knownStates = []knownState{
	{"US", "CA", "California"},
	{"US", "NY", "New York"},
	{"IN", "MH", "Maharashtra"},
	{"GB", "ENG", "England"},
}

// Report summarizes a dataset validation run.
//
// Foreign keys are not enforced by the dataset, so dangling references are
// reported here rather than treated as failures.
type Report struct {
	Countries int
	States    int
	Cities    int

	OrphanStates []State // states whose country is not in the dataset
	OrphanCities []City  // cities whose state is not in the dataset

	StatesWithoutCoordinates int
	CitiesWithoutCoordinates int
}

// stateKey is the natural key of a State.
type stateKey struct {
	country string
	state   string
}

// Validate loads every collection and performs integrity and functional
// checks. It returns an error if a collection cannot be loaded, falls below
// its minimum size, or a known lookup fails.
func (d *Dataset) Validate() (*Report, error) {
	countries, err := d.countries()
	if err != nil {
		return nil, err
	}
	states, err := d.states()
	if err != nil {
		return nil, err
	}
	cities, err := d.cities()
	if err != nil {
		return nil, err
	}

	r := &Report{
		Countries: len(countries),
		States:    len(states),
		Cities:    len(cities),
	}
	if r.Countries < minCountryCount {
		return r, fmt.Errorf("country count too low: got %d, want >= %d", r.Countries, minCountryCount)
	}
	if r.States < minStateCount {
		return r, fmt.Errorf("state count too low: got %d, want >= %d", r.States, minStateCount)
	}
	if r.Cities < minCityCount {
		return r, fmt.Errorf("city count too low: got %d, want >= %d", r.Cities, minCityCount)
	}

	for _, code := range knownCountries {
		c, ok, err := d.CountryByCode(code)
		if err != nil {
			return r, err
		}
		if !ok || c.ISO2 != code {
			return r, fmt.Errorf("country %q not found", code)
		}
	}
	for _, ks := range knownStates {
		s, ok, err := d.StateByCode(ks.countryCode, ks.stateCode)
		if err != nil {
			return r, err
		}
		if !ok {
			return r, fmt.Errorf("state %s-%s not found", ks.countryCode, ks.stateCode)
		}
		if s.Name != ks.wantName {
			return r, fmt.Errorf("state %s-%s name = %q, want %q", ks.countryCode, ks.stateCode, s.Name, ks.wantName)
		}
		cs, err := d.CitiesOfState(ks.countryCode, ks.stateCode)
		if err != nil {
			return r, err
		}
		if len(cs) == 0 {
			return r, fmt.Errorf("state %s-%s has no cities", ks.countryCode, ks.stateCode)
		}
	}

	knownISO2 := lo.KeyBy(countries, func(c Country) string { return c.ISO2 })
	knownStateKeys := lo.KeyBy(states, func(s State) stateKey { return stateKey{s.CountryCode, s.ISOCode} })

	r.OrphanStates = lo.Filter(states, func(s State, _ int) bool {
		_, ok := knownISO2[s.CountryCode]
		return !ok
	})
	r.OrphanCities = lo.Filter(cities, func(c City, _ int) bool {
		_, ok := knownStateKeys[stateKey{c.CountryCode, c.StateCode}]
		return !ok
	})
	r.StatesWithoutCoordinates = lo.CountBy(states, func(s State) bool {
		_, ok := s.Coordinates()
		return !ok
	})
	r.CitiesWithoutCoordinates = lo.CountBy(cities, func(c City) bool {
		_, ok := c.Coordinates()
		return !ok
	})

	if len(r.OrphanStates) > 0 || len(r.OrphanCities) > 0 {
		d.logger.Warn("dangling foreign keys",
			zap.Int("orphanStates", len(r.OrphanStates)),
			zap.Int("orphanCities", len(r.OrphanCities)),
		)
	}
	d.logger.Info("dataset validated",
		zap.Int("countries", r.Countries),
		zap.Int("states", r.States),
		zap.Int("cities", r.Cities),
	)
	return r, nil
}

// Validate runs Validate on the default Dataset.
func Validate() (*Report, error) {
	return Default().Validate()
}
