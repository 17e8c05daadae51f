package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFile(t *testing.T) {
	t.Run("full file", func(t *testing.T) {
		path := writeFile(t, "storus.yml", `
url: https://stoo.example.com:50051
namespace: my-app
profile: prod
ca_certificate: /etc/stoo/ca.pem
domain: stoo.example.com
connect_timeout: 2s
response_timeout: 1m
`)
		fc, err := loadConfigFile(path)
		require.NoError(t, err)
		assert.Equal(t, fileConfig{
			URL:             "https://stoo.example.com:50051",
			Namespace:       "my-app",
			Profile:         "prod",
			CACertificate:   "/etc/stoo/ca.pem",
			Domain:          "stoo.example.com",
			ConnectTimeout:  2 * time.Second,
			ResponseTimeout: time.Minute,
		}, fc)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadConfigFile(filepath.Join(t.TempDir(), "nope.yml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config")
	})

	t.Run("broken yaml", func(t *testing.T) {
		_, err := loadConfigFile(writeFile(t, "bad.yml", "url: [unclosed"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config")
	})
}

func TestBuildConfig(t *testing.T) {
	t.Run("options only", func(t *testing.T) {
		cfg, err := buildConfig(options{URL: "http://localhost:50051", Namespace: "my-app", Profile: "prod",
			ConnectTimeout: time.Second})
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:50051", cfg.URL())
		assert.Equal(t, time.Second, cfg.ConnectTimeout())
		assert.Equal(t, 30*time.Second, cfg.ResponseTimeout())
		ns, err := cfg.DefaultNamespace()
		require.NoError(t, err)
		assert.Equal(t, "my-app", ns)
		prof, err := cfg.DefaultProfile()
		require.NoError(t, err)
		assert.Equal(t, "prod", prof)
	})

	t.Run("options override file", func(t *testing.T) {
		path := writeFile(t, "storus.yml", "url: http://file:1\nnamespace: file-ns\nprofile: file-prof\n"+
			"domain: file.example.com\nresponse_timeout: 5s\n")
		cfg, err := buildConfig(options{Config: path, Namespace: "flag-ns", ResponseTimeout: 7 * time.Second})
		require.NoError(t, err)
		assert.Equal(t, "http://file:1", cfg.URL())
		assert.Equal(t, "file.example.com", cfg.Domain())
		assert.Equal(t, 7*time.Second, cfg.ResponseTimeout())
		assert.Equal(t, 10*time.Second, cfg.ConnectTimeout())
		ns, err := cfg.DefaultNamespace()
		require.NoError(t, err)
		assert.Equal(t, "flag-ns", ns)
		prof, err := cfg.DefaultProfile()
		require.NoError(t, err)
		assert.Equal(t, "file-prof", prof)
	})

	t.Run("no url", func(t *testing.T) {
		_, err := buildConfig(options{Namespace: "ns"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "url is required")
	})

	t.Run("bad config file", func(t *testing.T) {
		_, err := buildConfig(options{Config: filepath.Join(t.TempDir(), "nope.yml")})
		require.Error(t, err)
	})
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
