package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Paths holds the standard XDG-style locations coderagent reads its
// global config from.
type Paths struct {
	Config string // ~/.config/coderagent
}

// GetPaths resolves Paths from the environment, falling back to the
// platform default when XDG_CONFIG_HOME isn't set.
func GetPaths() *Paths {
	return &Paths{
		Config: filepath.Join(getEnvOrDefault("XDG_CONFIG_HOME", defaultConfigHome()), "coderagent"),
	}
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultConfigHome() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("APPDATA")
	}
	return filepath.Join(os.Getenv("HOME"), ".config")
}
