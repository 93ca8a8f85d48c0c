package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/BakaI9/excalidraw/internal/paths"
	"github.com/BakaI9/excalidraw/pkg/types"
)

// Config keys.
const (
	cfgKeyBackend         = "backend"
	cfgKeyDataDir         = "data_dir"
	cfgKeyLogLevel        = "log_level"
	cfgKeyDevelopment     = "development"
	cfgKeyDuplicateOffset = "duplicate_offset"
	cfgKeyMetrics         = "metrics"
)

const configHeader = "# boardctl configuration\n"

// fileConfig is the on-disk layout of config.yaml.
type fileConfig struct {
	types.Config `yaml:",inline"`
	Development  bool `yaml:"development"`
	Metrics      bool `yaml:"metrics"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{
		Config: types.Config{
			Backend:         types.BackendSQLite,
			LogLevel:        "info",
			DuplicateOffset: types.DefaultDuplicateOffset,
		},
	}
}

func resolveConfigDir(flag string) (string, error) {
	return paths.ResolveConfigDir(flag)
}

// loadConfig reads config.yaml from configDir using Viper. A missing file is
// not an error; defaults apply until init writes one. BOARD_* environment
// variables override file values.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	def := defaultFileConfig()
	v.SetDefault(cfgKeyBackend, def.Backend)
	v.SetDefault(cfgKeyLogLevel, def.LogLevel)
	v.SetDefault(cfgKeyDuplicateOffset, def.DuplicateOffset)
	v.SetDefault(cfgKeyDevelopment, false)
	v.SetDefault(cfgKeyMetrics, false)
	v.SetEnvPrefix("BOARD")
	v.AutomaticEnv()
	v.SetConfigFile(paths.ConfigFile(configDir))
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return v, nil
		}
		return nil, userError(fmt.Errorf("read config: %w", err))
	}
	return v, nil
}

// writeConfigFile writes cfg as config.yaml in configDir, creating the
// directory. An existing file is kept unless overwrite is set.
func writeConfigFile(configDir string, cfg fileConfig, overwrite bool) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	path := paths.ConfigFile(configDir)
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat config file: %w", err)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, append([]byte(configHeader), data...), 0o644)
}

// boardConfig assembles and validates the backend configuration.
func (a *app) boardConfig() (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, a.v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	cfg := types.Config{
		Backend:         a.v.GetString(cfgKeyBackend),
		DataDir:         dataDir,
		LogLevel:        a.v.GetString(cfgKeyLogLevel),
		DuplicateOffset: a.v.GetFloat64(cfgKeyDuplicateOffset),
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, userError(err)
	}
	return cfg, nil
}

// newLogger builds a zap logger writing to w. Development mode switches to
// the console encoder and enables debug output by default.
func newLogger(w io.Writer, level string, development bool) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	encCfg := zap.NewProductionEncoderConfig()
	encoder := zapcore.NewJSONEncoder(encCfg)
	if development {
		lvl = zapcore.DebugLevel
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log_level: %w", err)
		}
		lvl = parsed
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), lvl)
	opts := []zap.Option{}
	if development {
		opts = append(opts, zap.Development(), zap.AddCaller())
	}
	return zap.New(core, opts...), nil
}
