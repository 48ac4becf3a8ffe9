// Package config loads the run configuration shared by the analysis
// commands.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// ReferenceCoefficient is the calibration coefficient printed on the
// instrument's data sheet, in signal units per degree.
const ReferenceCoefficient = 5.77573876180815e-02

// Errors returned by config loading.
var (
	ErrMissingConfig = errors.New("config: file not found")
	ErrInvalidConfig = errors.New("config: invalid value")
)

// Config is the YAML run configuration.
type Config struct {
	// TailCount is the number of extreme samples averaged into the
	// saturation estimate.
	TailCount int `yaml:"tail_count"`

	// PolarizerAngles are the extra polarizer offsets, in degrees,
	// applied in experiment order during the calibration run.
	PolarizerAngles []float64 `yaml:"polarizer_angles"`

	// ReferenceCoefficient is the data-sheet calibration coefficient
	// the manual calibration is compared against.
	ReferenceCoefficient float64 `yaml:"reference_coefficient"`

	// FlipEllipticity lists the 1-based experiment indices whose
	// ellipticity channel was recorded with inverted sign.
	FlipEllipticity []int `yaml:"flip_ellipticity"`
}

// Default returns the configuration matching the standard measurement
// protocol: five sweeps at polarizer offsets 0..4 degrees, 7-sample
// tails, and an inverted ellipticity channel on every experiment.
func Default() Config {
	return Config{
		TailCount:            7,
		PolarizerAngles:      []float64{0, 1, 2, 3, 4},
		ReferenceCoefficient: ReferenceCoefficient,
		FlipEllipticity:      []int{1, 2, 3, 4, 5},
	}
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.TailCount <= 0 {
		return fmt.Errorf("%w: tail_count must be positive", ErrInvalidConfig)
	}

	if c.ReferenceCoefficient == 0 {
		return fmt.Errorf("%w: reference_coefficient must be non-zero", ErrInvalidConfig)
	}

	for _, idx := range c.FlipEllipticity {
		if idx < 1 {
			return fmt.Errorf("%w: flip_ellipticity indices are 1-based", ErrInvalidConfig)
		}
	}

	return nil
}

// Load reads a YAML configuration file. Missing fields fall back to the
// defaults; an empty path returns the defaults outright.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}

		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}
