package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagQuiet     = flag.Bool("quiet", false, "Suppress console logging")
	flagPrecision = flag.Int("precision", defaultPrecisionUnset, "Welding precision in decimal places")
	flagForce     = flag.Bool("force", false, "Overwrite existing output files")
)

// defaultPrecisionUnset marks the precision flag as not provided; any real
// precision is far smaller in magnitude.
const defaultPrecisionUnset = -1 << 16

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagQuiet {
		cfg.Logging.Quiet = true
	}
	if *flagPrecision != defaultPrecisionUnset {
		cfg.Weld.Precision = *flagPrecision
	}
	if *flagForce {
		cfg.Output.Overwrite = true
	}
}
