package csc

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	geohash "github.com/TomiHiltunen/geohash-golang"
	"github.com/golang/geo/s2"
)

// earthRadiusKm is the mean Earth radius used to turn s2 angles into distances.
const earthRadiusKm = 6371.0088

// maxGeohashPrecision is the longest geohash that still adds precision for
// float64 coordinates.
const maxGeohashPrecision = 12

// Coordinates returns the country's centroid. ok is false when either
// coordinate is empty or not a valid number.
func (c Country) Coordinates() (ll s2.LatLng, ok bool) {
	return parseLatLng(c.Latitude, c.Longitude)
}

// Coordinates returns the state's centroid, if it has one.
func (s State) Coordinates() (ll s2.LatLng, ok bool) {
	if s.Latitude == nil || s.Longitude == nil {
		return s2.LatLng{}, false
	}
	return parseLatLng(*s.Latitude, *s.Longitude)
}

// Coordinates returns the city's position, if it has one.
func (c City) Coordinates() (ll s2.LatLng, ok bool) {
	if c.Latitude == nil || c.Longitude == nil {
		return s2.LatLng{}, false
	}
	return parseLatLng(*c.Latitude, *c.Longitude)
}

// Geohash encodes the country's centroid, or returns "" without one.
func (c Country) Geohash(precision int) string {
	return encodeGeohash(precision)(c.Coordinates())
}

// Geohash encodes the state's centroid, or returns "" without one.
func (s State) Geohash(precision int) string {
	return encodeGeohash(precision)(s.Coordinates())
}

// Geohash encodes the city's position, or returns "" without one.
func (c City) Geohash(precision int) string {
	return encodeGeohash(precision)(c.Coordinates())
}

// Distance returns the great-circle distance between a and b in kilometres.
func Distance(a, b s2.LatLng) float64 {
	return a.Distance(b).Radians() * earthRadiusKm
}

func parseLatLng(lat, lng string) (s2.LatLng, bool) {
	la, errLat := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	lo, errLng := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if errLat != nil || errLng != nil {
		return s2.LatLng{}, false
	}
	ll := s2.LatLngFromDegrees(la, lo)
	if !ll.IsValid() {
		return s2.LatLng{}, false
	}
	return ll, true
}

func encodeGeohash(precision int) func(s2.LatLng, bool) string {
	return func(ll s2.LatLng, ok bool) string {
		if !ok {
			return ""
		}
		precision = min(max(precision, 1), maxGeohashPrecision)
		return geohash.EncodeWithPrecision(ll.Lat.Degrees(), ll.Lng.Degrees(), precision)
	}
}

// validQueryPoint rejects values that would make s2 calculations undefined.
func validQueryPoint(lat, lng float64) (s2.LatLng, bool) {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return s2.LatLng{}, false
	}
	ll := s2.LatLngFromDegrees(lat, lng)
	return ll, ll.IsValid()
}

// cityCandidate pairs a city with its distance from the query point.
type cityCandidate struct {
	city City
	dist float64
}

// NearestCity returns the city closest to the given point. Cities without
// coordinates are ignored. Equal distances are resolved by name, then by
// dataset order. Invalid coordinates never match.
func (d *Dataset) NearestCity(lat, lng float64) (City, bool, error) {
	query, ok := validQueryPoint(lat, lng)
	if !ok {
		return City{}, false, nil
	}
	cities, err := d.cities()
	if err != nil {
		return City{}, false, err
	}

	var best *cityCandidate
	for _, city := range cities {
		ll, ok := city.Coordinates()
		if !ok {
			continue
		}
		dist := Distance(query, ll)
		if best == nil || dist < best.dist || (dist == best.dist && city.Name < best.city.Name) {
			best = &cityCandidate{city: city, dist: dist}
		}
	}
	if best == nil {
		return City{}, false, nil
	}
	return best.city.clone(), true, nil
}

// CitiesWithin returns the cities within radiusKm of the given point, closest
// first. Equal distances are ordered by name, then dataset order.
func (d *Dataset) CitiesWithin(lat, lng, radiusKm float64) ([]City, error) {
	query, ok := validQueryPoint(lat, lng)
	if !ok || math.IsNaN(radiusKm) || radiusKm < 0 {
		return []City{}, nil
	}
	cities, err := d.cities()
	if err != nil {
		return nil, err
	}

	var candidates []cityCandidate
	for _, city := range cities {
		ll, ok := city.Coordinates()
		if !ok {
			continue
		}
		if dist := Distance(query, ll); dist <= radiusKm {
			candidates = append(candidates, cityCandidate{city: city.clone(), dist: dist})
		}
	}

	slices.SortStableFunc(candidates, func(a, b cityCandidate) int {
		if c := cmp.Compare(a.dist, b.dist); c != 0 {
			return c
		}
		return strings.Compare(a.city.Name, b.city.Name)
	})

	result := make([]City, 0, len(candidates))
	for _, c := range candidates {
		result = append(result, c.city)
	}
	return result, nil
}

// NearestCity returns the city of the default Dataset closest to the point.
func NearestCity(lat, lng float64) (City, bool, error) {
	return Default().NearestCity(lat, lng)
}

// CitiesWithin returns the cities of the default Dataset within radiusKm of
// the point, closest first.
func CitiesWithin(lat, lng, radiusKm float64) ([]City, error) {
	return Default().CitiesWithin(lat, lng, radiusKm)
}
