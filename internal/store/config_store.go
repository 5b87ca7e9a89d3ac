package store

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/amterp/flagmaker/internal/config"
	"github.com/amterp/flagmaker/internal/model"
	"github.com/amterp/flagmaker/internal/version"
)

// FileConfigStore implements ConfigStore using a TOML file.
type FileConfigStore struct {
	paths *config.Paths
}

// NewConfigStore creates a new config store.
func NewConfigStore(paths *config.Paths) *FileConfigStore {
	return &FileConfigStore{paths: paths}
}

// Path returns the config file location, or "" when it can't be resolved.
func (s *FileConfigStore) Path() string {
	return s.paths.ConfigPath()
}

// Load reads the config from disk.
// Returns the default config if the file doesn't exist.
func (s *FileConfigStore) Load() (*model.Config, error) {
	path := s.Path()
	if path == "" {
		return model.DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg model.Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Strict version validation (only if file exists)
	if cfg.Schema == "" {
		return nil, version.MissingConfigSchema(path)
	}
	if cfg.Schema != version.CurrentConfigSchema() {
		return nil, version.InvalidConfigSchema(path, cfg.Schema)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()

	return &cfg, nil
}

// Save writes the config to disk.
func (s *FileConfigStore) Save(cfg *model.Config) error {
	// Stamp current schema version
	cfg.Schema = version.CurrentConfigSchema()

	path := s.Path()
	if path == "" {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the config file with defaults if it doesn't exist.
func (s *FileConfigStore) EnsureExists() error {
	path := s.Path()
	if path == "" {
		return nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return s.Save(model.DefaultConfig())
	}
	return nil
}
