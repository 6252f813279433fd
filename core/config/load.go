package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory.
func Load(path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	return LoadFs(afero.NewBasePathFs(afero.NewOsFs(), path))
}

// LoadFs loads and validates the configuration at the root of fsys. Fields
// missing from the file keep their default values.
func LoadFs(fsys afero.Fs) (*Configuration, error) {
	configContents, err := afero.ReadFile(fsys, ConfigurationName)
	if err != nil {
		return nil, err
	}

	out := defaultConfig()
	if err := yaml.UnmarshalStrict(configContents, out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigurationName, err)
	}
	out.configFs = fsys
	return out, nil
}

// Initialize writes the default configuration to dir, it won't overwrite an
// existing configuration.
func Initialize(dir string, logger *log.Logger) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	return InitializeFs(afero.NewBasePathFs(afero.NewOsFs(), dir), logger)
}

// InitializeFs writes the default configuration to the root of fsys.
func InitializeFs(fsys afero.Fs, logger *log.Logger) error {
	exists, err := afero.Exists(fsys, ConfigurationName)
	switch {
	case err != nil:
		return err
	case exists:
		return fmt.Errorf("%s: %w", ConfigurationName, os.ErrExist)
	}

	if err := afero.WriteFile(fsys, ConfigurationName, defaultConfigData, 0600); err != nil {
		return err
	}
	logger.Printf("Wrote %s\n", ConfigurationName)
	return nil
}
