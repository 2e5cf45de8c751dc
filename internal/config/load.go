package config

import (
	"errors"
	"fmt"

	"github.com/Wiktoryk/IDE/internal/config/loader"
)

// LoadOption configures Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	path      string
	required  bool
	envPrefix string
	environ   []string
	useEnv    bool
	fs        loader.FileSystem
}

// WithPath reads settings from the TOML or YAML file at path.
// A missing file is not an error unless WithRequired is also given.
func WithPath(path string) LoadOption {
	return func(o *loadOptions) {
		o.path = path
	}
}

// WithRequired makes a missing file an error.
func WithRequired() LoadOption {
	return func(o *loadOptions) {
		o.required = true
	}
}

// WithEnvPrefix changes the environment variable prefix.
func WithEnvPrefix(prefix string) LoadOption {
	return func(o *loadOptions) {
		o.envPrefix = prefix
	}
}

// WithEnviron reads variables from environ instead of the process
// environment.
func WithEnviron(environ []string) LoadOption {
	return func(o *loadOptions) {
		o.environ = environ
	}
}

// WithoutEnv ignores environment variables.
func WithoutEnv() LoadOption {
	return func(o *loadOptions) {
		o.useEnv = false
	}
}

// WithFS reads files through fsys.
func WithFS(fsys loader.FileSystem) LoadOption {
	return func(o *loadOptions) {
		o.fs = fsys
	}
}

// Load builds a Config from defaults, the optional file and the
// environment, then validates it.
func Load(opts ...LoadOption) (*Config, error) {
	o := loadOptions{
		envPrefix: loader.DefaultEnvPrefix,
		useEnv:    true,
		fs:        loader.DefaultFS(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	base, err := toMap(Default())
	if err != nil {
		return nil, err
	}
	merged := loader.DeepMerge(nil, base)

	source := "<defaults>"
	if o.path != "" {
		source = o.path
		fileLoader, err := loader.ForPath(o.fs, o.path)
		if err != nil {
			return nil, err
		}
		fileMap, err := fileLoader.Load()
		if err != nil {
			return nil, err
		}
		if fileMap == nil && o.required {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, o.path)
		}
		merged = loader.DeepMerge(merged, fileMap)
	}

	if o.useEnv {
		env := loader.NewEnvLoader(o.envPrefix)
		if o.environ != nil {
			env = loader.NewEnvLoaderWithEnviron(o.envPrefix, o.environ)
		}
		envMap, err := env.Load()
		if err != nil {
			return nil, err
		}
		// Unrelated IDE_* variables must not be mistaken for settings.
		merged = loader.DeepMerge(merged, loader.Prune(envMap, base))
	}

	cfg, err := fromMap(source, merged)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// toMap converts a Config to the generic map form used for merging.
func toMap(cfg *Config) (map[string]any, error) {
	data, err := loader.EncodeTOML(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return loader.ParseTOML("<defaults>", data)
}

// fromMap decodes a merged map into a Config, rejecting unknown keys and
// mistyped values.
func fromMap(source string, m map[string]any) (*Config, error) {
	data, err := loader.EncodeTOML(m)
	if err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}

	cfg := &Config{}
	if err := loader.DecodeTOMLStrict(source, data, cfg); err != nil {
		// Positions refer to the re-encoded document, not the user's file.
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Line, pe.Column = 0, 0
		}
		return nil, err
	}
	return cfg, nil
}
