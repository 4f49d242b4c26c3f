package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/andreiashu/csc"
)

// writer renders query results in one output format. Structured formats
// use the dataset's external field names.
type writer struct {
	format string
	out    io.Writer
}

func newWriter(format string, out io.Writer) (*writer, error) {
	switch format {
	case "text", "json", "yaml":
		return &writer{format: format, out: out}, nil
	}
	return nil, fmt.Errorf("%w: unknown output format %q", errUsage, format)
}

func (w *writer) countries(countries []csc.Country) error {
	if w.format != "text" {
		return w.encode(lo.Map(countries, func(c csc.Country, _ int) csc.Record { return c.Record() }))
	}
	return w.table(func(tw io.Writer) {
		for _, c := range countries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t+%s\t%s\t%d timezones\n", c.ISO2, c.Flag, c.Name, c.PhoneCode, c.Currency, len(c.Timezones))
		}
	})
}

func (w *writer) states(states []csc.State) error {
	if w.format != "text" {
		return w.encode(lo.Map(states, func(s csc.State, _ int) csc.Record { return s.Record() }))
	}
	return w.table(func(tw io.Writer) {
		for _, s := range states {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.CountryCode, s.ISOCode, s.Name, coordinates(s.Latitude, s.Longitude))
		}
	})
}

func (w *writer) cities(cities []csc.City) error {
	if w.format != "text" {
		return w.encode(lo.Map(cities, func(c csc.City, _ int) csc.Record { return c.Record() }))
	}
	return w.table(func(tw io.Writer) {
		for _, c := range cities {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.CountryCode, c.StateCode, c.Name, coordinates(c.Latitude, c.Longitude))
		}
	})
}

func (w *writer) encode(v any) error {
	if w.format == "yaml" {
		enc := yaml.NewEncoder(w.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (w *writer) table(rows func(io.Writer)) error {
	tw := tabwriter.NewWriter(w.out, 0, 4, 2, ' ', 0)
	rows(tw)
	return tw.Flush()
}

func coordinates(lat, lng *string) string {
	if lat == nil || lng == nil {
		return "-"
	}
	return *lat + "," + *lng
}
