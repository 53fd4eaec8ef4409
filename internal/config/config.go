// Package config loads aligner settings from a TOML file.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/aria-lang/pairalign/internal/alignment"
	"github.com/aria-lang/pairalign/internal/dp"
)

// DefaultPath is where the commands look for a configuration file.
const DefaultPath = "~/.pairalign.toml"

// DefaultMaxLength is the default cap on request sequence lengths.
const DefaultMaxLength = 10000

// Matrix kinds.
const (
	Nucleotide = "nucleotide"
	BLOSUM62   = "blosum62"
)

// Config holds every tunable of the aligners, the batch runner and the server.
type Config struct {
	Matrix      MatrixConfig      `toml:"matrix"`
	Homopolymer HomopolymerConfig `toml:"homopolymer"`
	Extension   ExtensionConfig   `toml:"extension"`
	Batch       BatchConfig       `toml:"batch"`
	Server      ServerConfig      `toml:"server"`
}

// MatrixConfig selects and parameterizes the substitution matrix.
type MatrixConfig struct {
	Kind      string  `toml:"kind"`
	Match     float64 `toml:"match"`
	Mismatch  float64 `toml:"mismatch"`
	GapOpen   float64 `toml:"gap_open"`
	GapExtend float64 `toml:"gap_extend"`
	ScoreNX   float64 `toml:"score_nx"`
	// Strict makes letter pairs the matrix does not define an error instead
	// of scoring them with the lowest score.
	Strict bool `toml:"strict"`
}

// HomopolymerConfig tunes the 454 gap model.
type HomopolymerConfig struct {
	BoundaryPenalty float64 `toml:"boundary_penalty"`
}

// ExtensionConfig tunes anchored extension.
type ExtensionConfig struct {
	// Band limits extension to cells within Band of the anchor diagonal.
	// Zero disables the band.
	Band int `toml:"band"`
}

// BatchConfig tunes the one-query-many-targets runner.
type BatchConfig struct {
	Workers int `toml:"workers"`
}

// ServerConfig holds the REST server settings.
type ServerConfig struct {
	Host    string   `toml:"host"`
	Port    int      `toml:"port"`
	Timeout Duration `toml:"timeout"`
	// MaxLength caps the length of each request sequence. Zero disables it.
	MaxLength int `toml:"max_length"`
}

// Duration is a time.Duration written as a string such as "60s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText writes the duration as a string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the settings used when no file is given.
func Default() *Config {
	nt := alignment.DefaultNucleotideOptions()
	return &Config{
		Matrix: MatrixConfig{
			Kind:      Nucleotide,
			Match:     nt.Match,
			Mismatch:  nt.Mismatch,
			GapOpen:   nt.GapOpen,
			GapExtend: nt.GapExtend,
			ScoreNX:   nt.ScoreNX,
		},
		Homopolymer: HomopolymerConfig{BoundaryPenalty: dp.DefaultBoundaryPenalty},
		Batch:       BatchConfig{Workers: 4},
		Server: ServerConfig{
			Host:      "localhost",
			Port:      8080,
			Timeout:   Duration{60 * time.Second},
			MaxLength: DefaultMaxLength,
		},
	}
}

// Load reads the file at path over the defaults. A leading ~ is expanded.
func Load(path string) (*Config, error) {
	file, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrapf(err, "expand config path: %s", path)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "read config: %s", file)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, file)
	}
	return cfg, nil
}

// LoadOrDefault is Load, returning the defaults when path does not exist.
func LoadOrDefault(path string) (*Config, error) {
	file, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrapf(err, "expand config path: %s", path)
	}
	if _, err := os.Stat(file); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(file)
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	cfg.Matrix.Kind = strings.ToLower(cfg.Matrix.Kind)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "encode config")
	}
	return data, nil
}

// Validate rejects settings no aligner can run with.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Matrix.Kind) {
	case Nucleotide, BLOSUM62:
	default:
		return fmt.Errorf("unknown matrix kind: %q", c.Matrix.Kind)
	}

	if c.Matrix.GapOpen < 0 || c.Matrix.GapExtend < 0 {
		return fmt.Errorf("gap penalties must be non-negative, got open %g extend %g", c.Matrix.GapOpen, c.Matrix.GapExtend)
	}
	if c.Matrix.Match < 0 || c.Matrix.Mismatch < 0 {
		return fmt.Errorf("match and mismatch are magnitudes and must be non-negative")
	}
	if c.Homopolymer.BoundaryPenalty < 0 {
		return fmt.Errorf("boundary penalty must be non-negative, got %g", c.Homopolymer.BoundaryPenalty)
	}
	if c.Extension.Band < 0 {
		return fmt.Errorf("band must be non-negative, got %d", c.Extension.Band)
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Batch.Workers)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Server.MaxLength < 0 {
		return fmt.Errorf("max length must be non-negative, got %d", c.Server.MaxLength)
	}
	return nil
}

// Substitution builds the configured substitution matrix.
func (c *Config) Substitution() (*alignment.SubstitutionMatrix, error) {
	var opts []alignment.MatrixOption
	if c.Matrix.Strict {
		opts = append(opts, alignment.WithErrorWhenMissing())
	}

	var (
		m   *alignment.SubstitutionMatrix
		err error
	)
	switch strings.ToLower(c.Matrix.Kind) {
	case BLOSUM62:
		m, err = alignment.NewBLOSUM62(c.Matrix.GapOpen, c.Matrix.GapExtend, opts...)
	default:
		m, err = alignment.NewNucleotideMatrix(alignment.NucleotideOptions{
			Match:     c.Matrix.Match,
			Mismatch:  c.Matrix.Mismatch,
			GapOpen:   c.Matrix.GapOpen,
			GapExtend: c.Matrix.GapExtend,
			ScoreNX:   c.Matrix.ScoreNX,
		}, opts...)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "build %s matrix", c.Matrix.Kind)
	}
	return m, nil
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
