package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/livraria/internal/paths"
	"github.com/mesh-intelligence/livraria/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envFileName    = ".env"
	envPrefix      = "LIVRARIA"

	cfgKeyBackend   = "backend"
	cfgKeyDataDir   = "data_dir"
	cfgKeyBackupDir = "backup_dir"
	cfgKeyExportDir = "export_dir"
	cfgKeyLogLevel  = "log.level"
	cfgKeyLogFormat = "log.format"
	cfgKeyLogFile   = "log.file"

	defaultLogLevel  = "warn"
	defaultLogFormat = "console"
)

// configFile is the structure written to a fresh config.yaml. Directories
// are left out so they follow the home directory.
type configFile struct {
	Backend string          `yaml:"backend"`
	Log     types.LogConfig `yaml:"log"`
}

// loadEnvFile loads configDir/.env into the process environment. Variables
// already set are not overridden. A missing file is not an error.
func loadEnvFile(configDir string) error {
	err := godotenv.Load(filepath.Join(configDir, envFileName))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFileName, err)
	}
	return nil
}

// loadConfig reads config.yaml from configDir, applies LIVRARIA_* overrides,
// and resolves unset directories under home. It creates the config
// directory and a default config.yaml on first run.
func loadConfig(configDir, home string) (types.Config, error) {
	if err := paths.EnsureDirs(configDir); err != nil {
		return types.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return types.Config{}, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyDataDir, "")
	v.SetDefault(cfgKeyBackupDir, "")
	v.SetDefault(cfgKeyExportDir, "")
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyLogFormat, defaultLogFormat)
	v.SetDefault(cfgKeyLogFile, "")
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return types.Config{}, fmt.Errorf("%w: read config: %v", types.ErrInvalidConfig, err)
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("%w: decode config: %v", types.ErrInvalidConfig, err)
	}

	var err error
	if cfg.DataDir, err = paths.ResolveDir(cfg.DataDir, home, paths.DataDirName); err != nil {
		return types.Config{}, err
	}
	if cfg.BackupDir, err = paths.ResolveDir(cfg.BackupDir, home, paths.BackupDirName); err != nil {
		return types.Config{}, err
	}
	if cfg.ExportDir, err = paths.ResolveDir(cfg.ExportDir, home, paths.ExportDirName); err != nil {
		return types.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// ensureDefaultConfigFile writes a default config.yaml if the file does not
// exist in configDir.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&configFile{
		Backend: types.BackendSQLite,
		Log:     types.LogConfig{Level: defaultLogLevel, Format: defaultLogFormat},
	})
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
