package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWeld       = flag.String("weld", "", "Vertex welding: partial, full or none")
	flagCharset    = flag.String("charset", "", "Text encoding of OBJ/MTL files")
	flagNoTextures = flag.Bool("no-textures", false, "Skip texture decoding")
)

// Flags holds command-line overrides.
type Flags struct {
	Debug      bool
	Weld       string
	Charset    string
	NoTextures bool
}

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

func currentFlags() Flags {
	return Flags{
		Debug:      *flagDebug,
		Weld:       *flagWeld,
		Charset:    *flagCharset,
		NoTextures: *flagNoTextures,
	}
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config, f Flags) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Weld != "" {
		cfg.Load.Weld = f.Weld
	}
	if f.Charset != "" {
		cfg.Load.Charset = f.Charset
	}
	if f.NoTextures {
		cfg.Load.LoadTextures = false
	}
}
