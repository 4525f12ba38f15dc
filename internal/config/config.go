// Package config handles weldtool configuration loading and management.
package config

// Config holds all weldtool settings.
type Config struct {
	Weld    WeldConfig    `yaml:"weld"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// WeldConfig holds vertex-welding settings.
type WeldConfig struct {
	// Precision is the number of decimal places vertices are rounded to
	// when deciding coincidence. Negative values round left of the
	// decimal point.
	Precision int `yaml:"precision"`
}

// OutputConfig holds output file settings.
type OutputConfig struct {
	Overwrite bool `yaml:"overwrite"` // replace existing output files
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	Quiet   bool   `yaml:"quiet"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Weld: WeldConfig{
			Precision: 3,
		},
		Output: OutputConfig{
			Overwrite: false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
			Quiet:   false,
		},
	}
}
