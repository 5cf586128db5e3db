package config

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-faster/errors"
)

// Transports
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// DefaultAddr is the listen address of the HTTP transport.
const DefaultAddr = ":8089"

// GitHubConfig holds the credential and endpoint of the GitHub API.
type GitHubConfig struct {
	Token  string `toml:"token"`
	APIURL string `toml:"api_url"`
}

// ServerConfig selects the transport. AuthSecret and RateLimit apply to
// the HTTP transport only.
type ServerConfig struct {
	Transport  string `toml:"transport"`
	Addr       string `toml:"addr"`
	AuthSecret string `toml:"auth_secret"`
	RateLimit  int    `toml:"rate_limit"`
}

// LogConfig holds the log level and the optional Loki sink.
type LogConfig struct {
	Level    string `toml:"level"`
	LokiURL  string `toml:"loki_url"`
	LokiUser string `toml:"loki_user"`
	LokiKey  string `toml:"loki_api_key"`
}

// Config is built once at process entry and passed to constructors.
type Config struct {
	GitHub GitHubConfig `toml:"github"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

// Default returns a Config with every optional field at its default.
func Default() Config {
	return Config{
		Server: ServerConfig{Transport: TransportStdio, Addr: DefaultAddr},
		Log:    LogConfig{Level: "info"},
	}
}

// LoadFile decodes the TOML file at path over Default. Keys absent from
// the file keep their defaults; unknown keys are rejected.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrapf(err, "decode %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, errors.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Validate reports the first configuration problem.
func (c Config) Validate() error {
	if strings.TrimSpace(c.GitHub.Token) == "" {
		return errors.New("GitHub token is required (set GITHUB_PERSONAL_ACCESS_TOKEN)")
	}
	switch c.Server.Transport {
	case TransportStdio:
	case TransportHTTP:
		if c.Server.Addr == "" {
			return errors.New("http transport requires a listen address")
		}
	default:
		return errors.Errorf("unknown transport %q (want %s or %s)", c.Server.Transport, TransportStdio, TransportHTTP)
	}
	if c.Server.RateLimit < 0 {
		return errors.Errorf("rate limit must not be negative, got %d", c.Server.RateLimit)
	}
	return nil
}

// LokiEnabled reports whether every Loki setting is present.
func (c Config) LokiEnabled() bool {
	return c.Log.LokiURL != "" && c.Log.LokiUser != "" && c.Log.LokiKey != ""
}
