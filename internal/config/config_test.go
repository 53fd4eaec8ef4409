package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria-lang/pairalign/internal/dp"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, Nucleotide, cfg.Matrix.Kind)
	assert.Equal(t, 5.0, cfg.Matrix.GapOpen)
	assert.Equal(t, 1.0, cfg.Matrix.GapExtend)
	assert.Equal(t, dp.DefaultBoundaryPenalty, cfg.Homopolymer.BoundaryPenalty)
	assert.Equal(t, 60*time.Second, cfg.Server.Timeout.Duration)
	assert.Equal(t, "localhost:8080", cfg.Addr())
	assert.Equal(t, DefaultMaxLength, cfg.Server.MaxLength)

	m, err := cfg.Substitution()
	require.NoError(t, err)
	assert.Equal(t, "nucleotide", m.Name())
	assert.False(t, m.ErrorWhenMissing())
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
[matrix]
kind = "blosum62"
gap_open = 11
gap_extend = 1
strict = true

[extension]
band = 16

[server]
port = 9090
timeout = "5s"
max_length = 500
`))
	require.NoError(t, err)

	assert.Equal(t, BLOSUM62, cfg.Matrix.Kind)
	assert.Equal(t, 16, cfg.Extension.Band)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.Timeout.Duration)
	assert.Equal(t, 500, cfg.Server.MaxLength)
	// Unset keys keep their defaults.
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 4, cfg.Batch.Workers)

	m, err := cfg.Substitution()
	require.NoError(t, err)
	assert.Equal(t, "BLOSUM62", m.Name())
	assert.True(t, m.ErrorWhenMissing())

	open, err := m.GapExistPenalty()
	require.NoError(t, err)
	assert.Equal(t, 11.0, open)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[matrix\nkind = 1"},
		{"unknown key", "[matrix]\ncolour = \"red\""},
		{"unknown kind", "[matrix]\nkind = \"pam250\""},
		{"negative gap", "[matrix]\ngap_open = -1"},
		{"negative band", "[extension]\nband = -2"},
		{"negative boundary penalty", "[homopolymer]\nboundary_penalty = -1"},
		{"no workers", "[batch]\nworkers = 0"},
		{"bad port", "[server]\nport = 70000"},
		{"bad timeout", "[server]\ntimeout = \"soon\""},
		{"negative max length", "[server]\nmax_length = -1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
		})
	}
}

func TestSubstitutionRejectsZeroMatch(t *testing.T) {
	cfg := Default()
	cfg.Matrix.Match = 0

	_, err := cfg.Substitution()
	require.Error(t, err)
}

func TestLoadRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Matrix.ScoreNX = -0.5
	cfg.Batch.Workers = 2

	data, err := cfg.Encode()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "pairalign.toml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")

	_, err := Load(path)
	require.Error(t, err)

	cfg, err := LoadOrDefault(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
