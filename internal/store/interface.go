package store

import "github.com/amterp/flagmaker/internal/model"

// ConfigStore handles config persistence.
type ConfigStore interface {
	Load() (*model.Config, error)
	Save(config *model.Config) error
	EnsureExists() error
	Path() string
}
