// Package config handles objtool configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/objmesh/pkg/encoding"
)

// Config holds all tool settings.
type Config struct {
	Load    LoadConfig    `yaml:"load"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoadConfig holds settings for reading OBJ/MTL documents.
type LoadConfig struct {
	Charset            string `yaml:"charset"`            // Text encoding of OBJ/MTL files
	Weld               string `yaml:"weld"`               // partial, full or none
	SynthesizeNormals  bool   `yaml:"synthesize_normals"` // Compute normals when the file has none
	SmoothAcrossGroups bool   `yaml:"smooth_across_groups"`
	LoadTextures       bool   `yaml:"load_textures"`
	ShareTextures      bool   `yaml:"share_textures"` // Decode each texture path once per run
	FlipTextures       bool   `yaml:"flip_textures"`  // Store rows bottom-up
	FallbackLibrary    bool   `yaml:"fallback_library"`
}

// ExportConfig holds settings for writing OBJ/MTL documents.
type ExportConfig struct {
	Precision int `yaml:"precision"` // Decimals per float, -1 for shortest
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Load: LoadConfig{
			Charset:           encoding.DefaultCharset,
			Weld:              "partial",
			SynthesizeNormals: true,
			LoadTextures:      true,
			ShareTextures:     true,
			FlipTextures:      true,
			FallbackLibrary:   true,
		},
		Export: ExportConfig{
			Precision: 6,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks values that would otherwise fail deep inside a load.
func (c *Config) Validate() error {
	switch c.Load.Weld {
	case "partial", "full", "none":
	default:
		return fmt.Errorf("load.weld: unknown mode %q", c.Load.Weld)
	}
	if _, err := encoding.Lookup(c.Load.Charset); err != nil {
		return fmt.Errorf("load.charset: %w", err)
	}
	if c.Export.Precision < -1 || c.Export.Precision > 17 {
		return fmt.Errorf("export.precision: %d out of range [-1, 17]", c.Export.Precision)
	}
	return nil
}
