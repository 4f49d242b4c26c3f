package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreiashu/csc"
)

func TestRun_EmbeddedData(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(nil, &out))

	assert.Contains(t, out.String(), "Validating dataset...")
	assert.Regexp(t, `Countries: \d+ \(OK\)`, out.String())
	assert.Contains(t, out.String(), "States without coordinates: 1")
	assert.NotContains(t, out.String(), "orphan")
	assert.Contains(t, out.String(), "Dataset is valid.")
}

func TestRun_DataDirTooSmall(t *testing.T) {
	dir := t.TempDir()
	countries := `[{"name": "Freedonia", "isoCode": "FD", "timezones": []}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "country.json"), []byte(countries), 0o644))

	var out bytes.Buffer
	err := run([]string{"-data", dir}, &out)
	assert.ErrorContains(t, err, "country count too low")
	assert.NotContains(t, out.String(), "Dataset is valid.")
}

func TestRun_MalformedDataDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "city.json"), []byte(`[] trailing`), 0o644))

	err := run([]string{"-data", dir}, &bytes.Buffer{})
	assert.True(t, errors.Is(err, csc.ErrResource), "error = %v", err)
}

func TestRun_BadArguments(t *testing.T) {
	for _, args := range [][]string{{"-x"}, {"extra"}} {
		assert.Error(t, run(args, &bytes.Buffer{}), "run(%q)", args)
	}
}
