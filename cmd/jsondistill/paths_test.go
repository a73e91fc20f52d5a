package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputPath(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		flag    string
		want    string
		wantErr error
	}{
		{name: "positional", args: []string{"a.json"}, want: "a.json"},
		{name: "flag", flag: "b.json", want: "b.json"},
		{name: "both", args: []string{"a.json"}, flag: "b.json", wantErr: ErrInputConflict},
		{name: "neither", wantErr: ErrInputRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := inputPath(tt.args, tt.flag)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveInput(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(file, []byte(`{}`), 0600))

	got, err := resolveInput(file)
	require.NoError(t, err)
	assert.Equal(t, file, got)

	_, err = resolveInput(filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "input file not found")

	_, err = resolveInput(dir)
	assert.ErrorContains(t, err, "input path is not a file")
}

func TestResolveOutput(t *testing.T) {
	wd := t.TempDir()
	t.Chdir(wd)

	got, err := resolveOutput("", "/data/in/report.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "report_distilled.json"), got)

	got, err = resolveOutput("out/x.json", "/data/in/report.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "out", "x.json"), got)

	got, err = resolveOutput("/abs/y.json", "/data/in/report.json")
	require.NoError(t, err)
	assert.Equal(t, "/abs/y.json", got)
}

func TestStem(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/a/data.json", "data"},
		{"archive.tar.gz", "archive.tar"},
		{"noext", "noext"},
		{".hidden", ".hidden"},
		{"", "output"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stem(tt.path), "path %q", tt.path)
	}
}

func TestWriteOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.json")

	require.NoError(t, writeOutput(path, []byte(`{}`)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}
