package config

import (
	"os"
	"path/filepath"
)

const (
	ConfigFileName  = "config.toml"
	StateFileName   = "last-flag"
	GlobalConfigDir = ".config/flagmaker"
	ConfigEnvVar    = "FLAGMAKER_CONFIG"
)

// Paths provides path resolution for Flag Maker's files.
type Paths struct {
	configDir string
}

// NewPaths creates a Paths rooted at configDir.
func NewPaths(configDir string) *Paths {
	return &Paths{configDir: configDir}
}

// DefaultPaths resolves the config directory: $FLAGMAKER_CONFIG's directory
// when set, otherwise ~/.config/flagmaker.
func DefaultPaths() *Paths {
	if override := os.Getenv(ConfigEnvVar); override != "" {
		return &Paths{configDir: filepath.Dir(override)}
	}
	return &Paths{configDir: GlobalConfigDirPath()}
}

// ConfigDir returns the directory holding the config file.
func (p *Paths) ConfigDir() string {
	return p.configDir
}

// ConfigPath returns the path to the config file.
func (p *Paths) ConfigPath() string {
	if p.configDir == "" {
		return ""
	}
	if override := os.Getenv(ConfigEnvVar); override != "" && filepath.Dir(override) == p.configDir {
		return override
	}
	return filepath.Join(p.configDir, ConfigFileName)
}

// StatePath returns the file the terminal editor keeps its last fragment in.
func (p *Paths) StatePath() string {
	if p.configDir == "" {
		return ""
	}
	return filepath.Join(p.configDir, StateFileName)
}

// GlobalConfigDirPath returns ~/.config/flagmaker, or "" when there is no home directory.
func GlobalConfigDirPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir)
}
