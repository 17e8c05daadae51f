package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/umputun/storus/lib/storus"
)

// fileConfig is the layout of the yaml config file. Command line options override it.
type fileConfig struct {
	URL             string        `yaml:"url"`
	Namespace       string        `yaml:"namespace"`
	Profile         string        `yaml:"profile"`
	CACertificate   string        `yaml:"ca_certificate"`
	Domain          string        `yaml:"domain"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"`
	ResponseTimeout time.Duration `yaml:"response_timeout"`
}

// loadConfigFile reads yaml config from path.
func loadConfigFile(path string) (fileConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the user
	if err != nil {
		return fileConfig{}, fmt.Errorf("failed to read config: %w", err)
	}
	var res fileConfig
	if err := yaml.Unmarshal(data, &res); err != nil {
		return fileConfig{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return res, nil
}

// buildConfig merges the config file, if any, with command line options into a client config.
func buildConfig(opts options) (storus.Config, error) {
	var fc fileConfig
	if opts.Config != "" {
		var err error
		if fc, err = loadConfigFile(opts.Config); err != nil {
			return storus.Config{}, err
		}
	}

	pick := func(flag, file string) string {
		if flag != "" {
			return flag
		}
		return file
	}
	pickDuration := func(flag, file time.Duration) time.Duration {
		if flag > 0 {
			return flag
		}
		return file
	}

	url := pick(opts.URL, fc.URL)
	if url == "" {
		return storus.Config{}, errors.New("url is required, set --url or url in config file")
	}

	cfg := storus.FromURL(url).
		WithDefaultNamespace(pick(opts.Namespace, fc.Namespace)).
		WithDefaultProfile(pick(opts.Profile, fc.Profile)).
		WithCACertificate(pick(opts.CACert, fc.CACertificate)).
		WithDomain(pick(opts.Domain, fc.Domain))
	if d := pickDuration(opts.ConnectTimeout, fc.ConnectTimeout); d > 0 {
		cfg = cfg.WithConnectTimeout(d)
	}
	if d := pickDuration(opts.ResponseTimeout, fc.ResponseTimeout); d > 0 {
		cfg = cfg.WithResponseTimeout(d)
	}
	return cfg, nil
}
