// Package simconfig loads and validates the BER simulation sweep
// configuration: frame shape, code selection, Eb/N0 sweep points, and the
// ambient logging/metrics/dashboard/notification/output settings.
package simconfig

import (
	"fmt"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config is the root simulation configuration.
type Config struct {
	FrameLength int               `mapstructure:"frame_length"`
	Trellis     string            `mapstructure:"trellis"`
	Interleaver InterleaverConfig `mapstructure:"interleaver"`
	EbN0s       []float64         `mapstructure:"ebn0s"`
	RepeatCount RepeatCounts      `mapstructure:"repeat_count"`
	Iterations  int               `mapstructure:"iterations"`
	LcOverride  float64           `mapstructure:"lc_override"`
	Workers     int               `mapstructure:"workers"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Dashboard   DashboardConfig   `mapstructure:"dashboard"`
	Notify      NotifyConfig      `mapstructure:"notify"`
	Output      OutputConfig      `mapstructure:"output"`
}

// InterleaverConfig selects and sizes the interleaver.
type InterleaverConfig struct {
	Type   string `mapstructure:"type"` // "block" or "identity"
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig holds Prometheus exposition configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// DashboardConfig holds live websocket dashboard configuration.
type DashboardConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
}

// NotifyConfig holds the optional MQTT result-notification configuration.
type NotifyConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Broker      string `mapstructure:"broker"`
	TopicPrefix string `mapstructure:"topic_prefix"`
	ClientID    string `mapstructure:"client_id"`
}

// OutputConfig holds result persistence configuration.
type OutputConfig struct {
	JSONPath string         `mapstructure:"json_path"`
	LogFile  string         `mapstructure:"log_file"`
	Database DatabaseConfig `mapstructure:"database"`
}

// DatabaseConfig holds the gorm/sqlite run-history store configuration.
type DatabaseConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load loads configuration from file and environment variables.
func Load(configFile string) (*Config, error) {
	setDefaults()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath("/etc/turbosim")
	}

	viper.SetEnvPrefix("TURBOSIM")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// No config file is fine; defaults apply.
		} else if os.IsNotExist(err) {
			// Explicitly named file missing is also fine.
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		repeatCountsHook(),
	))
	if err := viper.Unmarshal(&cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("frame_length", 1000)
	viper.SetDefault("trellis", "rsc4")
	viper.SetDefault("interleaver.type", "block")
	viper.SetDefault("interleaver.width", 50)
	viper.SetDefault("interleaver.height", 20)
	viper.SetDefault("ebn0s", []float64{0.1, 0.5, 1.0, 1.5, 2.0, 3.0})
	viper.SetDefault("repeat_count", 10)
	viper.SetDefault("iterations", 4)
	viper.SetDefault("lc_override", 0.0)
	viper.SetDefault("workers", 4)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")

	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.port", 9090)
	viper.SetDefault("metrics.path", "/metrics")

	viper.SetDefault("dashboard.enabled", true)
	viper.SetDefault("dashboard.host", "0.0.0.0")
	viper.SetDefault("dashboard.port", 8081)

	viper.SetDefault("notify.enabled", false)
	viper.SetDefault("notify.topic_prefix", "turbosim")
	viper.SetDefault("notify.client_id", "turbosim")

	viper.SetDefault("output.json_path", "")
	viper.SetDefault("output.log_file", "")
	viper.SetDefault("output.database.enabled", false)
	viper.SetDefault("output.database.path", "turbosim.db")
}
