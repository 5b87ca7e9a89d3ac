package version

import (
	"fmt"
)

// SchemaVersionError indicates a schema version problem while reading a file.
type SchemaVersionError struct {
	FilePath    string // Path to the problematic file
	Found       string // What was found (e.g., "missing", "config/2")
	Expected    string // What was expected (e.g., "config/1")
	MinRequired string // Minimum flagmaker version required (if upgrade needed)
}

func (e *SchemaVersionError) Error() string {
	if e.MinRequired != "" {
		return fmt.Sprintf(
			"config schema version %s requires flagmaker >= %s (file: %s, supports up to: %s)",
			e.Found, e.MinRequired, e.FilePath, e.Expected,
		)
	}
	if e.Found == "missing" {
		return fmt.Sprintf(
			"config has no schema version (file: %s). Add flagmaker_schema = %q.",
			e.FilePath, e.Expected,
		)
	}
	return fmt.Sprintf(
		"config has invalid schema version: found %s, expected %s (file: %s)",
		e.Found, e.Expected, e.FilePath,
	)
}

// MissingConfigSchema creates an error for a config file without flagmaker_schema.
func MissingConfigSchema(path string) error {
	return &SchemaVersionError{
		FilePath: path,
		Found:    "missing",
		Expected: CurrentConfigSchema(),
	}
}

// InvalidConfigSchema creates an error for a config with an unsupported schema.
func InvalidConfigSchema(path, found string) error {
	e := &SchemaVersionError{
		FilePath: path,
		Found:    found,
		Expected: CurrentConfigSchema(),
	}
	if v, err := ParseConfigVersion(found); err == nil && v > CurrentConfigVersion {
		if minVersion, ok := MinFlagmakerVersion[found]; ok {
			e.MinRequired = minVersion
		} else {
			e.MinRequired = "a newer version"
		}
	}
	return e
}
