package csc

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func sampleTimezoneRecord() Record {
	return Record{
		"zoneName":      "America/New_York",
		"gmtOffset":     -18000,
		"gmtOffsetName": "UTC-05:00",
		"abbreviation":  "EST",
		"tzName":        "Eastern Standard Time",
	}
}

func TestTimezoneFromRecord(t *testing.T) {
	tz := TimezoneFromRecord(sampleTimezoneRecord())

	assert.Equal(t, "America/New_York", tz.Name)
	assert.Equal(t, -18000, tz.GMTOffset)
	assert.Equal(t, "UTC-05:00", tz.GMTOffsetName)
	assert.Equal(t, "EST", tz.Abbreviation)
	assert.Equal(t, "Eastern Standard Time", tz.TZName)
}

func TestTimezoneRecordRoundTrip(t *testing.T) {
	r := sampleTimezoneRecord()
	assert.Equal(t, r, TimezoneFromRecord(r).Record())
}

func TestTimezoneFromRecord_MissingFields(t *testing.T) {
	tz := TimezoneFromRecord(Record{"zoneName": "America/Chicago"})

	assert.Equal(t, Timezone{Name: "America/Chicago"}, tz)
	assert.Zero(t, tz.GMTOffset)
	assert.Empty(t, tz.GMTOffsetName)
	assert.Empty(t, tz.Abbreviation)
	assert.Empty(t, tz.TZName)
}

func TestTimezoneFromRecord_OffsetForms(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int
	}{
		{"int", -18000, -18000},
		{"int64", int64(19800), 19800},
		{"float64 from encoding", float64(3600), 3600},
		{"json number", json.Number("-36000"), -36000},
		{"numeric string", " 32400 ", 32400},
		{"fractional number", 1.5, 0},
		{"text", "UTC", 0},
		{"null", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tz := TimezoneFromRecord(Record{"gmtOffset": tt.value})
			assert.Equal(t, tt.want, tz.GMTOffset)
		})
	}
}

func TestTimezoneString(t *testing.T) {
	tz := TimezoneFromRecord(sampleTimezoneRecord())
	assert.Contains(t, tz.String(), "Timezone")
	assert.Contains(t, tz.String(), tz.Name)
}

func TestCountryFromRecord(t *testing.T) {
	r := Record{
		"name":      "United States",
		"isoCode":   "US",
		"phoneCode": "1",
		"flag":      "🇺🇸",
		"currency":  "USD",
		"latitude":  "38.00000000",
		"longitude": "-97.00000000",
		"timezones": []any{
			map[string]any{"zoneName": "America/New_York", "gmtOffset": json.Number("-18000")},
			"not a timezone",
			map[string]any{"zoneName": "America/Chicago"},
		},
	}

	c := CountryFromRecord(r)

	assert.Equal(t, "United States", c.Name)
	assert.Equal(t, "US", c.ISO2)
	assert.Equal(t, "1", c.PhoneCode)
	assert.Equal(t, "🇺🇸", c.Flag)
	assert.Equal(t, "USD", c.Currency)
	assert.Equal(t, "38.00000000", c.Latitude)
	assert.Equal(t, "-97.00000000", c.Longitude)
	require.Len(t, c.Timezones, 2)
	assert.Equal(t, Timezone{Name: "America/New_York", GMTOffset: -18000}, c.Timezones[0])
	assert.Equal(t, "America/Chicago", c.Timezones[1].Name)
}

func TestCountryFromRecord_Defaults(t *testing.T) {
	tests := []struct {
		name string
		r    Record
	}{
		{"empty record", Record{}},
		{"null timezones", Record{"timezones": nil}},
		{"empty timezones", Record{"timezones": []any{}}},
		{"wrong timezones type", Record{"timezones": "America/Chicago"}},
		{"null coordinates", Record{"latitude": nil, "longitude": nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := CountryFromRecord(tt.r)
			assert.Empty(t, c.Name)
			assert.Empty(t, c.ISO2)
			// Country coordinates default to "", never nil.
			assert.Equal(t, "", c.Latitude)
			assert.Equal(t, "", c.Longitude)
			require.NotNil(t, c.Timezones)
			assert.Empty(t, c.Timezones)
		})
	}
}

func TestCountryRecordRoundTrip(t *testing.T) {
	tests := []Country{
		{
			Name: "United States", ISO2: "US", PhoneCode: "1", Flag: "🇺🇸", Currency: "USD",
			Latitude: "38.00000000", Longitude: "-97.00000000",
			Timezones: []Timezone{
				{Name: "America/New_York", GMTOffset: -18000, GMTOffsetName: "UTC-05:00", Abbreviation: "EST", TZName: "Eastern Standard Time"},
				{Name: "Pacific/Honolulu", GMTOffset: -36000},
			},
		},
		CountryFromRecord(Record{}),
	}

	for _, c := range tests {
		t.Run(c.String(), func(t *testing.T) {
			assert.Equal(t, c, CountryFromRecord(c.Record()))
		})
	}
}

func TestCountryRecord_FieldNames(t *testing.T) {
	c := Country{Name: "United States", ISO2: "US", Timezones: []Timezone{{Name: "America/New_York"}}}
	r := c.Record()

	for _, key := range []string{"name", "isoCode", "phoneCode", "flag", "currency", "latitude", "longitude", "timezones"} {
		assert.Contains(t, r, key)
	}
	assert.Equal(t, "US", r["isoCode"])
	tzs, ok := r["timezones"].([]Record)
	require.True(t, ok, "timezones = %T, want []Record", r["timezones"])
	require.Len(t, tzs, 1)
	assert.Equal(t, "America/New_York", tzs[0]["zoneName"])

	assert.Equal(t, []Record{}, Country{}.Record()["timezones"])
}

func TestCountryUnicodeFlag(t *testing.T) {
	c := CountryFromRecord(Record{"isoCode": "JP", "flag": "🇯🇵"})
	assert.Equal(t, "🇯🇵", c.UnicodeFlag())
	assert.Equal(t, c.Flag, c.UnicodeFlag())
	assert.Empty(t, Country{}.UnicodeFlag())
}

func TestStateFromRecord(t *testing.T) {
	s := StateFromRecord(Record{
		"name":        "California",
		"countryCode": "US",
		"isoCode":     "CA",
		"latitude":    "36.77826100",
		"longitude":   "-119.41793240",
	})

	assert.Equal(t, "California", s.Name)
	assert.Equal(t, "US", s.CountryCode)
	assert.Equal(t, "CA", s.ISOCode)
	require.NotNil(t, s.Latitude)
	require.NotNil(t, s.Longitude)
	assert.Equal(t, "36.77826100", *s.Latitude)
	assert.Equal(t, "-119.41793240", *s.Longitude)
}

func TestStateFromRecord_AbsentCoordinatesAreNil(t *testing.T) {
	for _, r := range []Record{
		{"name": "Nowhere"},
		{"name": "Nowhere", "latitude": nil, "longitude": nil},
	} {
		s := StateFromRecord(r)
		assert.Nil(t, s.Latitude)
		assert.Nil(t, s.Longitude)
		assert.Empty(t, s.ISOCode)
	}
}

func TestStateRecordRoundTrip(t *testing.T) {
	tests := []State{
		{Name: "California", CountryCode: "US", ISOCode: "CA", Latitude: ptr("36.77826100"), Longitude: ptr("-119.41793240")},
		{Name: "United States Minor Outlying Islands", CountryCode: "US", ISOCode: "UM"},
		{Name: "Half", CountryCode: "XX", ISOCode: "H", Latitude: ptr("1.0")},
	}

	for _, s := range tests {
		t.Run(s.String(), func(t *testing.T) {
			r := s.Record()
			assert.Contains(t, r, "latitude")
			assert.Contains(t, r, "longitude")
			assert.Equal(t, s, StateFromRecord(r))
		})
	}
}

func TestCityFromRecord(t *testing.T) {
	c := CityFromRecord(Record{
		"name":        "Los Angeles",
		"countryCode": "US",
		"stateCode":   "CA",
		"latitude":    json.Number("34.05223000"),
		"longitude":   -118.24368,
	})

	assert.Equal(t, "Los Angeles", c.Name)
	assert.Equal(t, "US", c.CountryCode)
	assert.Equal(t, "CA", c.StateCode)
	require.NotNil(t, c.Latitude)
	require.NotNil(t, c.Longitude)
	assert.Equal(t, "34.05223000", *c.Latitude)
	assert.Equal(t, "-118.24368", *c.Longitude)
}

func TestCityRecordRoundTrip(t *testing.T) {
	tests := []City{
		{Name: "Springfield", CountryCode: "US", StateCode: "IL", Latitude: ptr("39.80172000"), Longitude: ptr("-89.64371000")},
		{Name: "Unplaced"},
		CityFromRecord(Record{}),
	}

	for _, c := range tests {
		t.Run(c.String(), func(t *testing.T) {
			r := c.Record()
			assert.Equal(t, c.CountryCode, r["countryCode"])
			assert.Equal(t, c.StateCode, r["stateCode"])
			assert.Equal(t, c, CityFromRecord(r))
		})
	}
}

func TestStringField_PassesThroughValues(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"string", "+1-684", "+1-684"},
		{"empty string", "", ""},
		{"json number", json.Number("-27.00000000"), "-27.00000000"},
		{"float", 51.5, "51.5"},
		{"int", 44, "44"},
		{"bool", true, "true"},
		{"object", map[string]any{"a": 1}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stringField(Record{"k": tt.value}, "k"))
		})
	}
}
