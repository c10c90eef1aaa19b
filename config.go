package main

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

const configName = "noise_loop.cfg.json"

// StorageConfig selects and locates the fragment store.
type StorageConfig struct {
	Type        string
	SQLitePath  string
	PostgresDSN string
}

// AudioConfig controls the ambient drone.
type AudioConfig struct {
	Enabled      bool
	Volume       float64
	DuckForMedia bool
}

// ExportConfig controls the SVG exporter.
type ExportConfig struct {
	Dir    string
	Width  float64
	Height float64
}

// Load sets defaults and reads noise_loop.cfg.json from configDir when it
// exists. A missing file leaves the defaults in place.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logFile", "noise_loop.log")
	viper.SetDefault("author", "anonymous")

	viper.SetDefault("storage.type", "sqlite")
	viper.SetDefault("storage.sqlite.path", "fragments.db")
	viper.SetDefault("storage.postgres.dsn", "")

	viper.SetDefault("audio.enabled", true)
	viper.SetDefault("audio.volume", 0.15)
	viper.SetDefault("audio.duckForMedia", true)

	viper.SetDefault("export.dir", "./frames")
	viper.SetDefault("export.width", 800)
	viper.SetDefault("export.height", 600)

	viper.SetConfigName(configName)
	viper.SetConfigType("json")
	viper.AddConfigPath(configDir)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type:        viper.GetString("storage.type"),
		SQLitePath:  viper.GetString("storage.sqlite.path"),
		PostgresDSN: viper.GetString("storage.postgres.dsn"),
	}
}

func GetAudioConfig() AudioConfig {
	return AudioConfig{
		Enabled:      viper.GetBool("audio.enabled"),
		Volume:       viper.GetFloat64("audio.volume"),
		DuckForMedia: viper.GetBool("audio.duckForMedia"),
	}
}

func GetExportConfig() ExportConfig {
	return ExportConfig{
		Dir:    viper.GetString("export.dir"),
		Width:  viper.GetFloat64("export.width"),
		Height: viper.GetFloat64("export.height"),
	}
}
