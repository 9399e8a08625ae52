package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/grid/internal/logging"
	"github.com/mesh-intelligence/grid/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend  = "backend"
	cfgKeyDataDir  = "data_dir"
	cfgKeyLogLevel = "log_level"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# grid configuration

# Storage backend
backend: sqlite

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# Logging: none, normal or debug
log_level: normal
`

// loadConfig reads config.yaml from configDir using Viper. It creates the
// directory and a default config.yaml on first run. A config.yaml removed
// between those steps is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyLogLevel, logging.LevelNormal)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
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
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// backendConfig builds the types.Config for Grid.Attach.
func (a *app) backendConfig() (types.Config, error) {
	dataDir, err := a.resolveDataDir()
	if err != nil {
		return types.Config{}, systemErr(fmt.Errorf("resolve data dir: %w", err))
	}
	cfg := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}
	if a.config != nil {
		cfg.Backend = a.config.GetString(cfgKeyBackend)
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("config %s %q: %w", cfgKeyBackend, cfg.Backend, err)
	}
	return cfg, nil
}
