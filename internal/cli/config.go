package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/specbook/internal/logging"
	"github.com/mesh-intelligence/specbook/internal/paths"
	"github.com/mesh-intelligence/specbook/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend          = "backend"
	cfgKeyDataDir          = "data_dir"
	cfgKeyLogLevel         = "log_level"
	cfgKeyBaselineVariant  = "baseline_variant"
	cfgKeyPreconditionSkip = "precondition_skip_substring"

	defaultLogLevel = "info"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend          string `yaml:"backend"`
	DataDir          string `yaml:"data_dir,omitempty"`
	LogLevel         string `yaml:"log_level"`
	BaselineVariant  string `yaml:"baseline_variant"`
	PreconditionSkip string `yaml:"precondition_skip_substring"`
}

// defaultConfigFile returns the values written on first run.
func defaultConfigFile() configFile {
	return configFile{
		Backend:          types.BackendJSON,
		LogLevel:         defaultLogLevel,
		BaselineVariant:  types.DefaultBaselineVariant,
		PreconditionSkip: types.DefaultPreconditionSkip,
	}
}

// writeConfigIfMissing creates config.yaml with cfg if the file does not
// exist. It reports whether it wrote the file.
func writeConfigIfMissing(configDir string, cfg configFile) (bool, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}
	path := filepath.Join(configDir, configFileExt)
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# specbook configuration\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}

// loadConfig reads config.yaml from configDir using Viper. It creates the
// directory and a default config.yaml on first run.
func loadConfig(configDir string) (*viper.Viper, error) {
	if _, err := writeConfigIfMissing(configDir, defaultConfigFile()); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendJSON)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyBaselineVariant, types.DefaultBaselineVariant)
	v.SetDefault(cfgKeyPreconditionSkip, types.DefaultPreconditionSkip)
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

// loadSettings resolves the directories and reads config.yaml into a.
func (a *app) loadSettings() error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return usagef("config.yaml: %v", err)
	}
	cfg.DataDir, err = paths.ResolveDataDir(a.flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config.yaml: %w", err)
	}

	level := v.GetString(cfgKeyLogLevel)
	if a.flags.verbose {
		level = "debug"
	}
	if a.logLevel, err = logging.ParseLevel(level); err != nil {
		return usagef("config.yaml: %v", err)
	}

	a.cfg = cfg
	return nil
}
