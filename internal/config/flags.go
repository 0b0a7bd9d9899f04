package config

import (
	"flag"
	"path/filepath"
	"strings"
)

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile  = flag.String("log-file", "", "Write logs to this file as well")
	flagEncoding = flag.String("encoding", "", "Code page of names in the file (e.g. windows-1251)")
	flagNoDedup  = flag.Bool("no-dedup", false, "Keep one vertex per face corner")
	flagTextures = flag.String("textures", "", "Extra texture search paths, separated by the OS list separator")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via -config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagEncoding != "" {
		cfg.Import.NameEncoding = *flagEncoding
	}
	if *flagNoDedup {
		cfg.Import.Deduplicate = false
	}
	if *flagTextures != "" {
		// Flag paths take precedence over the ones from the file.
		var paths []string
		for _, p := range filepath.SplitList(*flagTextures) {
			if p = strings.TrimSpace(p); p != "" {
				paths = append(paths, p)
			}
		}
		cfg.Textures.SearchPaths = append(paths, cfg.Textures.SearchPaths...)
	}
}
