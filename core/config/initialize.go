package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Initialize writes the default configuration into dir unless one already
// exists there.
func Initialize(dir string, logger *log.Logger) error {
	return InitializeFs(afero.NewOsFs(), dir, logger)
}

// InitializeFs is Initialize on a specific filesystem.
func InitializeFs(fs afero.Fs, dir string, logger *log.Logger) error {
	if err := fs.MkdirAll(dir, 0700); err != nil {
		return err
	}

	configPath := filepath.Join(dir, ConfigurationName)
	switch exists, err := afero.Exists(fs, configPath); {
	case err != nil:
		return err
	case exists:
		logger.Printf("Configuration already exists: %s\n", configPath)
		return nil
	}

	logger.Printf("Writing configuration: %s\n", configPath)
	return afero.WriteFile(fs, configPath, defaultConfigData, os.FileMode(0600))
}
