// Package config reads and rewrites the engine's structured configuration
// file. Only the benchmark section is defined today: two booleans that
// control the progress bar and the random number source. Missing keys and
// type mismatches are surfaced to the caller and never mutate any state.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Logical config paths inside the structured file.
const (
	sectionBenchmark    = "skipListBenchmark"
	KeyUseProgressBar   = sectionBenchmark + ".useProgressBar"
	KeyUseRandRNG       = sectionBenchmark + ".useRandRNG"
	FieldUseProgressBar = "useProgressBar"
	FieldUseRandRNG     = "useRandRNG"
)

var (
	// ErrMissingKey is returned when a required config path is absent.
	ErrMissingKey = errors.New("config: missing key")
	// ErrTypeMismatch is returned when a config value has the wrong type.
	ErrTypeMismatch = errors.New("config: type mismatch")
	// ErrUnknownField is returned when an update names an undefined field.
	ErrUnknownField = errors.New("config: unknown field")
)

// BenchmarkSettings are the benchmark-harness toggles read from the file.
type BenchmarkSettings struct {
	UseProgressBar bool
	UseRandRNG     bool
}

// ReadBenchmark parses the config file at path and returns the benchmark
// settings. Both keys must be present and boolean.
func ReadBenchmark(path string) (BenchmarkSettings, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return BenchmarkSettings{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	progressBar, err := readBool(v, KeyUseProgressBar)
	if err != nil {
		return BenchmarkSettings{}, err
	}
	randRNG, err := readBool(v, KeyUseRandRNG)
	if err != nil {
		return BenchmarkSettings{}, err
	}

	return BenchmarkSettings{
		UseProgressBar: progressBar,
		UseRandRNG:     randRNG,
	}, nil
}

// readBool fetches one boolean by logical path.
func readBool(v *viper.Viper, key string) (bool, error) {
	if !v.IsSet(key) {
		return false, fmt.Errorf("%w: %s", ErrMissingKey, key)
	}
	raw := v.Get(key)
	b, ok := raw.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s is %T, want bool", ErrTypeMismatch, key, raw)
	}
	return b, nil
}

// UpdateBenchmark rewrites one benchmark field in the config file at path.
// The rest of the file is preserved. Field must be one of
// FieldUseProgressBar or FieldUseRandRNG.
func UpdateBenchmark(path, field string, value bool) error {
	switch field {
	case FieldUseProgressBar, FieldUseRandRNG:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	v.Set(sectionBenchmark+"."+field, value)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
