package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Initialize writes the default configuration into the directory if no
// configuration exists there yet, then loads it.
func Initialize(path string, logger *log.Logger) (*Configuration, error) {
	return InitializeFs(afero.NewOsFs(), path, logger)
}

// InitializeFs is Initialize on an explicit filesystem.
func InitializeFs(fsys afero.Fs, path string, logger *log.Logger) (*Configuration, error) {
	configPath := filepath.Join(path, ConfigurationName)

	switch _, err := fsys.Stat(configPath); {
	case err == nil:
		logger.Printf("Configuration already exists at %q, not overwriting", configPath)

	case os.IsNotExist(err):
		logger.Printf("Writing default configuration to %q", configPath)
		if err := afero.WriteFile(fsys, configPath, defaultConfigData, 0600); err != nil {
			return nil, err
		}

	default:
		return nil, err
	}

	return LoadFs(fsys, path)
}
