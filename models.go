package csc

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// External field names used by the dataset records.
const (
	fieldName          = "name"
	fieldISOCode       = "isoCode"
	fieldPhoneCode     = "phoneCode"
	fieldFlag          = "flag"
	fieldCurrency      = "currency"
	fieldLatitude      = "latitude"
	fieldLongitude     = "longitude"
	fieldTimezones     = "timezones"
	fieldCountryCode   = "countryCode"
	fieldStateCode     = "stateCode"
	fieldZoneName      = "zoneName"
	fieldGMTOffset     = "gmtOffset"
	fieldGMTOffsetName = "gmtOffsetName"
	fieldAbbreviation  = "abbreviation"
	fieldTZName        = "tzName"
)

// Timezone is a time zone observed in a country.
type Timezone struct {
	Name          string // IANA zone, e.g. "America/New_York"
	GMTOffset     int    // Offset from UTC in seconds
	GMTOffsetName string // e.g. "UTC-05:00"
	Abbreviation  string // e.g. "EST"
	TZName        string // e.g. "Eastern Standard Time"
}

// Country is a country from the bundled dataset.
//
// Latitude and Longitude are empty strings when the record has none; unlike
// State and City they are never nil.
type Country struct {
	Name      string
	ISO2      string // ISO 3166-1 alpha-2, unique within the dataset
	PhoneCode string
	Flag      string // Emoji flag
	Currency  string // ISO 4217 code
	Latitude  string
	Longitude string
	Timezones []Timezone
}

// State is a first-level subdivision of a country. It is identified by the
// (CountryCode, ISOCode) pair.
type State struct {
	Name        string
	CountryCode string
	ISOCode     string
	Latitude    *string // nil when absent
	Longitude   *string // nil when absent
}

// City is a city within a state. Cities have no unique key.
type City struct {
	Name        string
	CountryCode string
	StateCode   string
	Latitude    *string // nil when absent
	Longitude   *string // nil when absent
}

// TimezoneFromRecord converts a raw timezone record. Missing fields take
// their zero value.
func TimezoneFromRecord(r Record) Timezone {
	return Timezone{
		Name:          stringField(r, fieldZoneName),
		GMTOffset:     intField(r, fieldGMTOffset),
		GMTOffsetName: stringField(r, fieldGMTOffsetName),
		Abbreviation:  stringField(r, fieldAbbreviation),
		TZName:        stringField(r, fieldTZName),
	}
}

// Record converts the timezone back to its raw form.
func (t Timezone) Record() Record {
	return Record{
		fieldZoneName:      t.Name,
		fieldGMTOffset:     t.GMTOffset,
		fieldGMTOffsetName: t.GMTOffsetName,
		fieldAbbreviation:  t.Abbreviation,
		fieldTZName:        t.TZName,
	}
}

func (t Timezone) String() string {
	return fmt.Sprintf("Timezone(%s)", t.Name)
}

// CountryFromRecord converts a raw country record, including its nested
// timezones. An absent or empty timezone list yields an empty slice.
func CountryFromRecord(r Record) Country {
	return Country{
		Name:      stringField(r, fieldName),
		ISO2:      stringField(r, fieldISOCode),
		PhoneCode: stringField(r, fieldPhoneCode),
		Flag:      stringField(r, fieldFlag),
		Currency:  stringField(r, fieldCurrency),
		Latitude:  stringField(r, fieldLatitude),
		Longitude: stringField(r, fieldLongitude),
		Timezones: timezonesField(r, fieldTimezones),
	}
}

// Record converts the country back to its raw form.
func (c Country) Record() Record {
	timezones := make([]Record, 0, len(c.Timezones))
	for _, tz := range c.Timezones {
		timezones = append(timezones, tz.Record())
	}
	return Record{
		fieldName:      c.Name,
		fieldISOCode:   c.ISO2,
		fieldPhoneCode: c.PhoneCode,
		fieldFlag:      c.Flag,
		fieldCurrency:  c.Currency,
		fieldLatitude:  c.Latitude,
		fieldLongitude: c.Longitude,
		fieldTimezones: timezones,
	}
}

// UnicodeFlag returns the country's flag emoji. It is the same value as Flag.
func (c Country) UnicodeFlag() string {
	return c.Flag
}

func (c Country) String() string {
	return fmt.Sprintf("Country(%s, %s)", c.Name, c.ISO2)
}

// StateFromRecord converts a raw state record. Absent coordinates stay nil.
func StateFromRecord(r Record) State {
	return State{
		Name:        stringField(r, fieldName),
		CountryCode: stringField(r, fieldCountryCode),
		ISOCode:     stringField(r, fieldISOCode),
		Latitude:    optionalStringField(r, fieldLatitude),
		Longitude:   optionalStringField(r, fieldLongitude),
	}
}

// Record converts the state back to its raw form. Nil coordinates are
// written as nil values, not omitted.
func (s State) Record() Record {
	return Record{
		fieldName:        s.Name,
		fieldCountryCode: s.CountryCode,
		fieldISOCode:     s.ISOCode,
		fieldLatitude:    optionalValue(s.Latitude),
		fieldLongitude:   optionalValue(s.Longitude),
	}
}

func (s State) String() string {
	return fmt.Sprintf("State(%s, %s-%s)", s.Name, s.CountryCode, s.ISOCode)
}

// CityFromRecord converts a raw city record. Absent coordinates stay nil.
func CityFromRecord(r Record) City {
	return City{
		Name:        stringField(r, fieldName),
		CountryCode: stringField(r, fieldCountryCode),
		StateCode:   stringField(r, fieldStateCode),
		Latitude:    optionalStringField(r, fieldLatitude),
		Longitude:   optionalStringField(r, fieldLongitude),
	}
}

// Record converts the city back to its raw form.
func (c City) Record() Record {
	return Record{
		fieldName:        c.Name,
		fieldCountryCode: c.CountryCode,
		fieldStateCode:   c.StateCode,
		fieldLatitude:    optionalValue(c.Latitude),
		fieldLongitude:   optionalValue(c.Longitude),
	}
}

func (c City) String() string {
	return fmt.Sprintf("City(%s, %s-%s)", c.Name, c.CountryCode, c.StateCode)
}

// stringField returns the text value of key, or "" when it is absent or null.
// Numbers are rendered in their shortest exact decimal form.
func stringField(r Record, key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

// optionalStringField is stringField with nil for an absent or null value.
func optionalStringField(r Record, key string) *string {
	if v, ok := r[key]; !ok || v == nil {
		return nil
	}
	s := stringField(r, key)
	return &s
}

// intField returns the integer value of key, or 0 when it is absent or not a
// whole number.
func intField(r Record, key string) int {
	v, ok := r[key]
	if !ok || v == nil {
		return 0
	}
	switch t := v.(type) {
	case int:
		return t
	case int32:
		return int(t)
	case int64:
		return int(t)
	case float64:
		return wholeNumber(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i)
		}
		if f, err := t.Float64(); err == nil {
			return wholeNumber(f)
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return i
		}
	}
	return 0
}

func wholeNumber(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0
	}
	return int(f)
}

// timezonesField converts the nested timezone list of key. Entries that are
// not objects are skipped.
func timezonesField(r Record, key string) []Timezone {
	timezones := []Timezone{}
	switch list := r[key].(type) {
	case []any:
		for _, item := range list {
			switch tz := item.(type) {
			case map[string]any:
				timezones = append(timezones, TimezoneFromRecord(tz))
			case Record:
				timezones = append(timezones, TimezoneFromRecord(tz))
			}
		}
	case []Record:
		for _, tz := range list {
			timezones = append(timezones, TimezoneFromRecord(tz))
		}
	case []map[string]any:
		for _, tz := range list {
			timezones = append(timezones, TimezoneFromRecord(tz))
		}
	}
	return timezones
}

func optionalValue(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
