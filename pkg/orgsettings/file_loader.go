package orgsettings

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSettingsFile is returned when the settings file cannot be parsed.
var ErrInvalidSettingsFile = errors.New("orgsettings: invalid settings file")

// FileLoader reads organization settings from a YAML file containing a list
// of Settings documents. The file is parsed once at construction; settings
// changes require a restart, which is acceptable for deployments that manage
// org configuration through infrastructure tooling.
type FileLoader struct {
	settings map[string]Settings
}

// NewFileLoader parses the YAML file at path and returns a loader over it.
func NewFileLoader(path string) (*FileLoader, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("orgsettings: read %s: %w", path, err)
	}

	var doc struct {
		Organizations []Settings `yaml:"organizations"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Join(ErrInvalidSettingsFile, err)
	}

	settings := make(map[string]Settings, len(doc.Organizations))
	for _, s := range doc.Organizations {
		if s.OrgID == "" {
			return nil, fmt.Errorf("%w: organization entry without org_id", ErrInvalidSettingsFile)
		}
		settings[s.OrgID] = s
	}

	return &FileLoader{settings: settings}, nil
}

func (f *FileLoader) LoadOrgSettings(ctx context.Context, orgID string) (Settings, error) {
	if s, ok := f.settings[orgID]; ok {
		return s, nil
	}
	return DefaultSettings(orgID), nil
}
