// Package csc provides read-only access to a bundled dataset of countries,
// their states and their cities.
//
//	us, ok, err := csc.GetCountryByCode("US")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if ok {
//	    fmt.Println(us.Name, us.Flag, len(us.Timezones))
//	}
//	cities, err := csc.GetCitiesOfState("US", "CA")
//
// Lookups by code report a missing match through their bool result; empty or
// unknown codes are never errors. The only error returned is a
// *ResourceError when a collection cannot be read.
package csc

import (
	"io/fs"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Config contains configuration options for a Dataset.
type Config struct {
	DataDir string      // Directory whose <collection>.json files override the embedded data
	FS      fs.FS       // Replaces all other sources when set
	Cache   bool        // Load each collection once and reuse it (default: true)
	Logger  *zap.Logger // Default: no-op
}

// Option is a functional option for configuring a Dataset.
type Option func(*Config)

// WithDataDir sets a directory checked for collection files before the
// embedded data.
func WithDataDir(dir string) Option {
	return func(c *Config) {
		c.DataDir = dir
	}
}

// WithFS reads all collections from fsys, ignoring the embedded data.
func WithFS(fsys fs.FS) Option {
	return func(c *Config) {
		c.FS = fsys
	}
}

// WithCache controls whether collections are loaded once per Dataset.
// When disabled every query reads the source again.
func WithCache(enabled bool) Option {
	return func(c *Config) {
		c.Cache = enabled
	}
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

func defaultConfig() *Config {
	return &Config{
		Cache:  true,
		Logger: zap.NewNop(),
	}
}

// Dataset answers queries over the country, state and city collections.
// Safe for concurrent use.
type Dataset struct {
	config *Config
	store  *RecordStore
	logger *zap.Logger

	countries func() ([]Country, error)
	states    func() ([]State, error)
	cities    func() ([]City, error)
}

// New creates a Dataset. Collections are read lazily by the first query
// that needs them.
func New(opts ...Option) *Dataset {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	d := &Dataset{
		config: cfg,
		store:  NewRecordStore(cfg),
		logger: cfg.Logger,
	}

	d.countries, d.states, d.cities = d.loadCountries, d.loadStates, d.loadCities
	if cfg.Cache {
		// A failed load stays failed for this Dataset; a cache is never
		// observed half-populated.
		d.countries = sync.OnceValues(d.countries)
		d.states = sync.OnceValues(d.states)
		d.cities = sync.OnceValues(d.cities)
	}
	return d
}

// Singleton pattern for the default Dataset.
var (
	defaultDataset     *Dataset
	defaultDatasetOnce sync.Once
)

// Default returns a shared Dataset over the embedded data, creating it on
// first call.
func Default() *Dataset {
	defaultDatasetOnce.Do(func() {
		defaultDataset = New()
	})
	return defaultDataset
}

func (d *Dataset) loadCountries() ([]Country, error) {
	records, err := d.store.LoadCountries()
	if err != nil {
		return nil, err
	}
	return lo.Map(records, func(r Record, _ int) Country { return CountryFromRecord(r) }), nil
}

func (d *Dataset) loadStates() ([]State, error) {
	records, err := d.store.LoadStates()
	if err != nil {
		return nil, err
	}
	return lo.Map(records, func(r Record, _ int) State { return StateFromRecord(r) }), nil
}

func (d *Dataset) loadCities() ([]City, error) {
	records, err := d.store.LoadCities()
	if err != nil {
		return nil, err
	}
	return lo.Map(records, func(r Record, _ int) City { return CityFromRecord(r) }), nil
}

// Countries returns all countries in dataset order.
func (d *Dataset) Countries() ([]Country, error) {
	countries, err := d.countries()
	if err != nil {
		return nil, err
	}
	return lo.Map(countries, func(c Country, _ int) Country { return c.clone() }), nil
}

// CountryByCode returns the first country whose ISO2 code equals code
// exactly. An empty code never matches.
func (d *Dataset) CountryByCode(code string) (Country, bool, error) {
	if code == "" {
		return Country{}, false, nil
	}
	countries, err := d.countries()
	if err != nil {
		return Country{}, false, err
	}
	country, ok := lo.Find(countries, func(c Country) bool {
		return c.ISO2 == code
	})
	return country.clone(), ok, nil
}

// States returns all states in dataset order.
func (d *Dataset) States() ([]State, error) {
	states, err := d.states()
	if err != nil {
		return nil, err
	}
	return lo.Map(states, func(s State, _ int) State { return s.clone() }), nil
}

// StatesOfCountry returns the states of the given country sorted by name.
// An empty or unknown code yields an empty slice.
func (d *Dataset) StatesOfCountry(countryCode string) ([]State, error) {
	if countryCode == "" {
		return []State{}, nil
	}
	states, err := d.states()
	if err != nil {
		return nil, err
	}
	matches := lo.Filter(states, func(s State, _ int) bool {
		return s.CountryCode == countryCode
	})
	matches = lo.Map(matches, func(s State, _ int) State { return s.clone() })
	return sortByName(matches, func(s State) string { return s.Name }), nil
}

// StateByCode returns the first state matching both codes exactly. Either
// code being empty never matches.
func (d *Dataset) StateByCode(countryCode, stateCode string) (State, bool, error) {
	if countryCode == "" || stateCode == "" {
		return State{}, false, nil
	}
	states, err := d.states()
	if err != nil {
		return State{}, false, err
	}
	state, ok := lo.Find(states, func(s State) bool {
		return s.CountryCode == countryCode && s.ISOCode == stateCode
	})
	return state.clone(), ok, nil
}

// Cities returns all cities in dataset order.
func (d *Dataset) Cities() ([]City, error) {
	cities, err := d.cities()
	if err != nil {
		return nil, err
	}
	return lo.Map(cities, func(c City, _ int) City { return c.clone() }), nil
}

// CitiesOfState returns the cities of the given state sorted by name.
// Either code being empty yields an empty slice.
func (d *Dataset) CitiesOfState(countryCode, stateCode string) ([]City, error) {
	if countryCode == "" || stateCode == "" {
		return []City{}, nil
	}
	cities, err := d.cities()
	if err != nil {
		return nil, err
	}
	matches := lo.Filter(cities, func(c City, _ int) bool {
		return c.CountryCode == countryCode && c.StateCode == stateCode
	})
	matches = lo.Map(matches, func(c City, _ int) City { return c.clone() })
	return sortByName(matches, func(c City) string { return c.Name }), nil
}

// CitiesOfCountry returns the cities of the given country sorted by name.
// An empty code yields an empty slice.
func (d *Dataset) CitiesOfCountry(countryCode string) ([]City, error) {
	if countryCode == "" {
		return []City{}, nil
	}
	cities, err := d.cities()
	if err != nil {
		return nil, err
	}
	matches := lo.Filter(cities, func(c City, _ int) bool {
		return c.CountryCode == countryCode
	})
	matches = lo.Map(matches, func(c City, _ int) City { return c.clone() })
	return sortByName(matches, func(c City) string { return c.Name }), nil
}

// sortByName sorts items by name in byte order, which for UTF-8 is code point
// order. Equal names keep their dataset order.
func sortByName[T any](items []T, name func(T) string) []T {
	slices.SortStableFunc(items, func(a, b T) int {
		return strings.Compare(name(a), name(b))
	})
	return items
}

// clone copies the timezone slice so callers cannot alter cached data.
func (c Country) clone() Country {
	if c.Timezones != nil {
		c.Timezones = slices.Clone(c.Timezones)
	}
	return c
}

func (s State) clone() State {
	s.Latitude, s.Longitude = cloneString(s.Latitude), cloneString(s.Longitude)
	return s
}

func (c City) clone() City {
	c.Latitude, c.Longitude = cloneString(c.Latitude), cloneString(c.Longitude)
	return c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// GetCountries returns all countries of the default Dataset.
func GetCountries() ([]Country, error) {
	return Default().Countries()
}

// GetCountryByCode looks up a country of the default Dataset by ISO2 code.
func GetCountryByCode(code string) (Country, bool, error) {
	return Default().CountryByCode(code)
}

// GetStates returns all states of the default Dataset.
func GetStates() ([]State, error) {
	return Default().States()
}

// GetStatesOfCountry returns the states of a country, sorted by name.
func GetStatesOfCountry(countryCode string) ([]State, error) {
	return Default().StatesOfCountry(countryCode)
}

// GetStateByCode looks up a state of the default Dataset by its country and
// state codes.
func GetStateByCode(countryCode, stateCode string) (State, bool, error) {
	return Default().StateByCode(countryCode, stateCode)
}

// GetCities returns all cities of the default Dataset.
func GetCities() ([]City, error) {
	return Default().Cities()
}

// GetCitiesOfState returns the cities of a state, sorted by name.
func GetCitiesOfState(countryCode, stateCode string) ([]City, error) {
	return Default().CitiesOfState(countryCode, stateCode)
}

// GetCitiesOfCountry returns the cities of a country, sorted by name.
func GetCitiesOfCountry(countryCode string) ([]City, error) {
	return Default().CitiesOfCountry(countryCode)
}
