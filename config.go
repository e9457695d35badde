package flight

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config holds process-level switches for a registry.
//
//	debug: true       # probe event payloads for serializability
//	log_events: true  # log every trigger at debug level
type Config struct {
	Debug     bool `yaml:"debug"`
	LogEvents bool `yaml:"log_events"`
}

// LoadConfig decodes a YAML config. Unknown keys are rejected so typos
// don't silently disable debug mode.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("flight: load config: %w", err)
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML config from path.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("flight: load config: %w", err)
	}
	defer f.Close()
	return LoadConfig(f)
}

// Option configures a Registry.
type Option func(*Registry)

// WithConfig applies cfg.
func WithConfig(cfg Config) Option {
	return func(r *Registry) {
		r.config = cfg
	}
}

// WithDebug toggles payload serialization probing.
func WithDebug(enabled bool) Option {
	return func(r *Registry) {
		r.config.Debug = enabled
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithPoster replaces the cross-context post used to probe payloads.
func WithPoster(p Poster) Option {
	return func(r *Registry) {
		if p != nil {
			r.poster = p
		}
	}
}
