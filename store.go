package csc

import (
	"compress/bzip2"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

//go:embed data
var bundledData embed.FS

// Collection identifies one of the bundled record collections.
type Collection string

const (
	CollectionCountries Collection = "country"
	CollectionStates    Collection = "state"
	CollectionCities    Collection = "city"
)

// bundledDir is the directory inside bundledData holding the collections.
const bundledDir = "data"

// fileName returns the name of the collection's file inside a data directory.
func (c Collection) fileName() string {
	return string(c) + ".json"
}

// Record is a raw key-value record as found in the dataset, keyed by the
// external field names (e.g. "isoCode", "countryCode").
type Record map[string]any

// ErrResource matches any *ResourceError with errors.Is.
var ErrResource = errors.New("csc: dataset resource unavailable")

// ResourceError reports a collection that could not be located or parsed.
// No query can proceed without the collection, so it is never retried.
type ResourceError struct {
	Collection Collection
	Path       string
	Err        error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("csc: loading %s collection from %s: %v", e.Collection, e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// Is reports whether target is ErrResource.
func (e *ResourceError) Is(target error) bool { return target == ErrResource }

// dataSource is one place a collection file may be read from.
type dataSource struct {
	name string // used in logs and errors, e.g. "embedded" or a directory path
	fsys fs.FS
}

// RecordStore reads whole record collections from its data sources.
// Sources are tried in order; the first one holding the collection wins.
// Nothing is cached: every Load call reads and parses the source again.
type RecordStore struct {
	sources []dataSource
	logger  *zap.Logger
}

// NewRecordStore creates a store over the given configuration.
//
// A Config.FS replaces every other source. A Config.DataDir is consulted
// before the embedded data, so files placed there override the bundled
// copy one collection at a time.
func NewRecordStore(cfg *Config) *RecordStore {
	s := &RecordStore{logger: cfg.Logger}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	if cfg.FS != nil {
		s.sources = []dataSource{{name: "fs", fsys: cfg.FS}}
		return s
	}
	if cfg.DataDir != "" {
		s.sources = append(s.sources, dataSource{name: cfg.DataDir, fsys: os.DirFS(cfg.DataDir)})
	}
	// fs.Sub only fails for invalid paths; bundledDir is a constant.
	embedded, _ := fs.Sub(bundledData, bundledDir)
	s.sources = append(s.sources, dataSource{name: "embedded", fsys: embedded})
	return s
}

// LoadCountries returns every raw country record in source order.
func (s *RecordStore) LoadCountries() ([]Record, error) {
	return s.load(CollectionCountries)
}

// LoadStates returns every raw state record in source order.
func (s *RecordStore) LoadStates() ([]Record, error) {
	return s.load(CollectionStates)
}

// LoadCities returns every raw city record in source order.
func (s *RecordStore) LoadCities() ([]Record, error) {
	return s.load(CollectionCities)
}

func (s *RecordStore) load(c Collection) ([]Record, error) {
	start := time.Now()

	r, path, cleanup, err := s.open(c.fileName())
	if err != nil {
		return nil, s.fail(c, path, err)
	}
	defer cleanup()

	dec := json.NewDecoder(r)
	dec.UseNumber()

	var records []Record
	if err := dec.Decode(&records); err != nil {
		return nil, s.fail(c, path, fmt.Errorf("decoding: %w", err))
	}
	if records == nil {
		return nil, s.fail(c, path, errors.New("decoding: collection is null, want an array"))
	}
	var trailing json.RawMessage
	if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
		return nil, s.fail(c, path, errors.New("decoding: unexpected data after the collection"))
	}
	for i, rec := range records {
		if rec == nil {
			return nil, s.fail(c, path, fmt.Errorf("decoding: element %d is not an object", i))
		}
		normalizeRecord(rec)
	}

	s.logger.Debug("loaded collection",
		zap.String("collection", string(c)),
		zap.String("source", path),
		zap.Int("records", len(records)),
		zap.Duration("took", time.Since(start)),
	)
	return records, nil
}

func (s *RecordStore) fail(c Collection, path string, err error) error {
	s.logger.Error("collection unavailable",
		zap.String("collection", string(c)),
		zap.String("source", path),
		zap.Error(err),
	)
	return &ResourceError{Collection: c, Path: path, Err: err}
}

// open returns a reader over the first source holding name, preferring a
// bzip2-compressed "<name>.bz2" over the plain file within each source.
// Only a missing file moves on to the next source.
func (s *RecordStore) open(name string) (io.Reader, string, func() error, error) {
	var lastErr error = fs.ErrNotExist
	for _, src := range s.sources {
		r, file, cleanup, err := openOptionallyBzippedFile(src.fsys, name)
		if err == nil {
			return r, src.name + ":" + file, cleanup, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, src.name + ":" + name, nil, err
		}
		lastErr = err
	}
	return nil, name, nil, lastErr
}

// normalizeRecord rewrites decoded values in place: integral numbers become
// int, other numbers keep their source literal as json.Number, and nested
// objects become Records.
func normalizeRecord(r Record) {
	for k, v := range r {
		r[k] = normalizeValue(v)
	}
}

func normalizeValue(v any) any {
	switch v := v.(type) {
	case json.Number:
		if n, err := strconv.ParseInt(string(v), 10, strconv.IntSize); err == nil {
			return int(n)
		}
		return v
	case map[string]any:
		r := Record(v)
		normalizeRecord(r)
		return r
	case []any:
		for i := range v {
			v[i] = normalizeValue(v[i])
		}
		return v
	}
	return v
}

// openOptionallyBzippedFile falls back from "<name>.bz2" to name only when
// the compressed file does not exist.
func openOptionallyBzippedFile(fsys fs.FS, name string) (io.Reader, string, func() error, error) {
	fh, err := fsys.Open(name + ".bz2")
	if errors.Is(err, fs.ErrNotExist) {
		fh, err = fsys.Open(name)
		if err != nil {
			return nil, "", nil, fmt.Errorf("opening %s: %w", name, err)
		}
		return fh, name, fh.Close, nil
	}
	if err != nil {
		return nil, "", nil, fmt.Errorf("opening %s.bz2: %w", name, err)
	}
	return bzip2.NewReader(fh), name + ".bz2", fh.Close, nil
}
