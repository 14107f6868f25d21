package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ocrscope.env")
	require.NoError(t, os.WriteFile(path, []byte("OCRSCOPE_ROOT=/srv/ocr\nOCRSCOPE_SERVE=:9000\n"), 0o644))

	t.Setenv(EnvRoot, "")
	require.NoError(t, os.Unsetenv(EnvRoot))
	t.Setenv(EnvServe, ":7000")

	got := LoadEnv(filepath.Join(dir, "missing.env"), path)
	assert.Equal(t, path, got)
	assert.Equal(t, "/srv/ocr", String(EnvRoot, "."))
	assert.Equal(t, ":7000", String(EnvServe, ""), "existing variables are not overridden")
}

func TestLoadEnvNothingFound(t *testing.T) {
	assert.Equal(t, "", LoadEnv(filepath.Join(t.TempDir(), "nope.env")))
}

func TestStringFallback(t *testing.T) {
	t.Setenv(EnvCase, "")
	assert.Equal(t, "default", String(EnvCase, "default"))

	t.Setenv(EnvCase, "level29")
	assert.Equal(t, "level29", String(EnvCase, "default"))
}
