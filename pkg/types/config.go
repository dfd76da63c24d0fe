package types

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Config holds backend selection and the directories every component is
// constructed with. It replaces process-wide path globals.
type Config struct {
	Backend   string    `json:"backend" yaml:"backend" mapstructure:"backend"`
	DataDir   string    `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
	BackupDir string    `json:"backup_dir" yaml:"backup_dir" mapstructure:"backup_dir"`
	ExportDir string    `json:"export_dir" yaml:"export_dir" mapstructure:"export_dir"`
	Log       LogConfig `json:"log" yaml:"log" mapstructure:"log"`
}

// LogConfig mirrors internal/log.Options in file form.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"`
	File   string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Fixed file names inside the configured directories.
const (
	StoreFileName  = "livraria.db"
	ExportFileName = "livros_exportados.csv"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrInvalidConfig  = errors.New("invalid config")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. Backend errors are returned
// bare; a missing directory wraps ErrInvalidConfig.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	for name, dir := range map[string]string{
		"data_dir":   c.DataDir,
		"backup_dir": c.BackupDir,
		"export_dir": c.ExportDir,
	} {
		if dir == "" {
			return fmt.Errorf("%w: %s is empty", ErrInvalidConfig, name)
		}
	}
	return nil
}

// StorePath returns the catalog database file path.
func (c Config) StorePath() string {
	return filepath.Join(c.DataDir, StoreFileName)
}

// ExportPath returns the fixed CSV export/import file path.
func (c Config) ExportPath() string {
	return filepath.Join(c.ExportDir, ExportFileName)
}
