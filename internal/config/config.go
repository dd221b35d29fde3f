package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix starts the names of the environment overrides.
const EnvPrefix = "MAPMERGE_"

// Config holds the settings shared by all use cases.
type Config struct {
	Namespaces Namespaces `yaml:"namespaces" toml:"namespaces"`

	// Package is the package that unpackaged Spigot classes are moved into.
	Package string `yaml:"package" toml:"package"`

	// Parallelism bounds the classes processed at once per completion pass.
	Parallelism int `yaml:"parallelism" toml:"parallelism"`

	// RequireFullClasspath makes a missing supertype of a program class
	// fatal during hydration.
	RequireFullClasspath bool `yaml:"requireFullClasspath" toml:"requireFullClasspath"`

	// CacheSize bounds the cached supertype closures.
	CacheSize int `yaml:"cacheSize" toml:"cacheSize"`

	// Libraries are class dump patterns loaded as library classes for every
	// use case that builds a hierarchy.
	Libraries []string `yaml:"libraries" toml:"libraries"`

	// Report is the path of the YAML run report. Empty disables it.
	Report string `yaml:"report" toml:"report"`
}

// Namespaces names the namespaces mapping files are read and written in.
type Namespaces struct {
	Obf    string `yaml:"obf" toml:"obf"`
	Spigot string `yaml:"spigot" toml:"spigot"`
	Deobf  string `yaml:"deobf" toml:"deobf"`
	Params string `yaml:"params" toml:"params"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Namespaces: Namespaces{
			Obf:    "official",
			Spigot: "spigot",
			Deobf:  "mojang+yarn",
			Params: "named",
		},
		Package:              "net/minecraft/server/",
		Parallelism:          runtime.GOMAXPROCS(0),
		RequireFullClasspath: true,
		CacheSize:            4096,
	}
}

// Load reads the file at path over the defaults, applies the environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}

		if err := Decode(data, formatOf(path), &cfg); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Format is a configuration file syntax.
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
)

func formatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}

	return FormatYAML
}

// Decode parses data into cfg. Unknown keys are errors.
func Decode(data []byte, f Format, cfg *Config) error {
	switch f {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()

		if err := dec.Decode(cfg); err != nil {
			return fmt.Errorf("parsing TOML: %w", err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)

		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("parsing YAML: %w", err)
		}
	}

	return nil
}

// ApplyEnv overrides settings from MAPMERGE_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return "", false
		}

		return strings.TrimSpace(v), true
	}

	strs := map[string]*string{
		"OBF_NAMESPACE":    &c.Namespaces.Obf,
		"SPIGOT_NAMESPACE": &c.Namespaces.Spigot,
		"DEOBF_NAMESPACE":  &c.Namespaces.Deobf,
		"PARAMS_NAMESPACE": &c.Namespaces.Params,
		"PACKAGE":          &c.Package,
		"REPORT":           &c.Report,
	}

	for name, dst := range strs {
		if v, ok := get(name); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"PARALLELISM": &c.Parallelism,
		"CACHE_SIZE":  &c.CacheSize,
	}

	for name, dst := range ints {
		v, ok := get(name)
		if !ok {
			continue
		}

		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}

		*dst = n
	}

	if v, ok := get("REQUIRE_FULL_CLASSPATH"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sREQUIRE_FULL_CLASSPATH: %w", EnvPrefix, err)
		}

		c.RequireFullClasspath = b
	}

	if v, ok := get("LIBRARIES"); ok {
		c.Libraries = nil

		for _, p := range strings.Split(v, string(os.PathListSeparator)) {
			if p = strings.TrimSpace(p); p != "" {
				c.Libraries = append(c.Libraries, p)
			}
		}
	}

	return nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error

	ns := map[string]string{
		"obf":    c.Namespaces.Obf,
		"spigot": c.Namespaces.Spigot,
		"deobf":  c.Namespaces.Deobf,
		"params": c.Namespaces.Params,
	}

	seen := make(map[string]string, len(ns))

	for _, key := range []string{"obf", "spigot", "deobf", "params"} {
		v := ns[key]
		if v == "" {
			errs = append(errs, fmt.Errorf("namespaces.%s must not be empty", key))
			continue
		}

		if strings.ContainsAny(v, " \t") {
			errs = append(errs, fmt.Errorf("namespaces.%s %q must not contain whitespace", key, v))
		}

		if other, ok := seen[v]; ok {
			errs = append(errs, fmt.Errorf("namespaces.%s and namespaces.%s are both %q", other, key, v))
		}

		seen[v] = key
	}

	if c.Package != "" && !strings.HasSuffix(c.Package, "/") {
		errs = append(errs, fmt.Errorf("package %q must end with '/'", c.Package))
	}

	if c.Parallelism < 1 {
		errs = append(errs, fmt.Errorf("parallelism must be at least 1, got %d", c.Parallelism))
	}

	if c.CacheSize < 1 {
		errs = append(errs, fmt.Errorf("cacheSize must be at least 1, got %d", c.CacheSize))
	}

	return errors.Join(errs...)
}
