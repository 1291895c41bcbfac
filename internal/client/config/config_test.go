package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	want := &Config{ServerURL: "http://127.0.0.1:8080", RequestTimeout: time.Minute}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	path := filepath.Join(t.TempDir(), "client.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server_url":"http://json:8080","request_timeout":"5s"}`), 0o600))

	os.Args = []string{"client", "-c", path, "-w", "12"}
	cfg := LoadConfig()

	assert.Equal(t, "http://json:8080", cfg.ServerURL)
	assert.Equal(t, 12*time.Second, cfg.RequestTimeout)

	os.Args = []string{"client", "-config", path, "-a", "http://flag:9090"}
	cfg = LoadConfig()

	assert.Equal(t, "http://flag:9090", cfg.ServerURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
}

func TestParseJson_BadFilePanics(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))
	os.Args = []string{"client", "-c", path}

	assert.Panics(t, func() { parseJson(&Config{}) })

	os.Args = []string{"client", "-c", filepath.Join(t.TempDir(), "missing.json")}
	assert.Panics(t, func() { parseJson(&Config{}) })
}

func TestParseFlags_BadTimeoutPanics(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	os.Args = []string{"client", "-w", "soon"}
	assert.Panics(t, func() { parseFlags(&Config{}) })
}
