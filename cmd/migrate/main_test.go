package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCreateThenList(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "--path", dir, "create", "add regions", "-d", "Region lookup table")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "000001_add_regions.up.sql"))

	out, err = run(t, "--path", dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "000001  000001_add_regions")
}

func TestList_Empty(t *testing.T) {
	out, err := run(t, "--path", t.TempDir(), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "no migrations found")
}

func TestArgumentValidation(t *testing.T) {
	_, err := run(t, "steps")
	assert.Error(t, err)

	_, err = run(t, "steps", "abc")
	assert.Error(t, err)

	_, err = run(t, "goto", "-1")
	assert.Error(t, err)
}
