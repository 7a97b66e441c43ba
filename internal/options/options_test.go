package options

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	opts, err := Load(NewViper(), "")
	require.NoError(t, err)
	require.Equal(t, "info", opts.Log.Level)
	require.Equal(t, "json", opts.Format)
	require.Equal(t, 5, opts.Limit)
	require.False(t, opts.IncludeSpec)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stdparser.yaml")
	cfg := "spec: true\nmax: 2000\nlog-file: /tmp/stdparser.log\nformat: yaml\n"
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	t.Setenv("STDPARSER_LOG_LEVEL", "debug")

	opts, err := Load(NewViper(), path)
	require.NoError(t, err)
	require.True(t, opts.IncludeSpec)
	require.Equal(t, 2000, opts.MaxCoords)
	require.Equal(t, "yaml", opts.Format)
	require.Equal(t, "/tmp/stdparser.log", opts.Log.File)
	require.Equal(t, "debug", opts.Log.Level)
}

func TestLoadRejectsBadFormat(t *testing.T) {
	v := NewViper()
	v.Set("format", "xml")
	_, err := Load(v, "")
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(NewViper(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestContextRoundTrip(t *testing.T) {
	ctx := WithOptions(context.Background(), Options{MaxCoords: 3})
	require.Equal(t, 3, FromContext(ctx).MaxCoords)
	require.Equal(t, Options{}, FromContext(context.Background()))
}
