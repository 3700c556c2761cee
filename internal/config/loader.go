package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables that override settings.
const EnvPrefix = "CARET_"

// FileSystem abstracts file reads for testing.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem using the os package.
type OSFS struct{}

// ReadFile reads a file from disk.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Loader reads settings from a file and the environment.
type Loader struct {
	fs      FileSystem
	environ func() []string
	prefix  string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFileSystem sets the file system used to read config files.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(l *Loader) {
		if fs != nil {
			l.fs = fs
		}
	}
}

// WithEnviron sets the environment source, os.Environ by default.
func WithEnviron(environ func() []string) LoaderOption {
	return func(l *Loader) {
		if environ != nil {
			l.environ = environ
		}
	}
}

// WithEnvPrefix sets the environment variable prefix, including the
// trailing underscore.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(l *Loader) {
		l.prefix = prefix
	}
}

// NewLoader creates a loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		fs:      OSFS{},
		environ: os.Environ,
		prefix:  EnvPrefix,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads settings from path with the default loader.
func Load(path string) (*Settings, error) {
	return NewLoader().Load(path)
}

// Load returns the defaults overlaid with the file at path and then the
// environment. An empty path skips the file. The result is validated.
func (l *Loader) Load(path string) (*Settings, error) {
	merged := make(map[string]any)

	if path != "" {
		values, err := l.readFile(path)
		if err != nil {
			return nil, err
		}
		merged = DeepMerge(merged, values)
	}
	if l.prefix != "" {
		merged = DeepMerge(merged, l.readEnv())
	}

	settings := Default()
	if err := decode(merged, settings); err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func (l *Loader) readFile(path string) (map[string]any, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return parseTOML(path, data)
	case ".yaml", ".yml":
		return parseYAML(path, data)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

func parseTOML(source string, data []byte) (map[string]any, error) {
	var values map[string]any
	if err := toml.Unmarshal(data, &values); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return nil, perr
	}
	return values, nil
}

func parseYAML(source string, data []byte) (map[string]any, error) {
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return values, nil
}

// decode applies a merged value map to settings. Keys with no matching
// setting fail with ErrUnknownSetting.
func decode(values map[string]any, settings *Settings) error {
	if len(values) == 0 {
		return nil
	}
	data, err := toml.Marshal(values)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(settings); err != nil {
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			keys := make([]string, 0, len(serr.Errors))
			for i := range serr.Errors {
				keys = append(keys, strings.Join(serr.Errors[i].Key(), "."))
			}
			return fmt.Errorf("%w: %s", ErrUnknownSetting, strings.Join(keys, ", "))
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			return fmt.Errorf("%w: %s: %s", ErrValidationFailed, strings.Join(derr.Key(), "."), derr.Error())
		}
		return fmt.Errorf("decoding settings: %w", err)
	}
	return nil
}

// DeepMerge merges src into dst. Nested maps merge recursively; any other
// src value replaces the dst value.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	for key, srcVal := range src {
		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = DeepMerge(dstMap, srcMap)
			continue
		}
		dst[key] = srcVal
	}
	return dst
}
