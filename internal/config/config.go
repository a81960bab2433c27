// Package config loads the senzup run configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// AppName names the config file, env prefix and user directories.
	AppName = "senzup"

	// DefaultManifestURL is the published stable version manifest.
	DefaultManifestURL = "https://raw.githubusercontent.com/Senzing/knowledge-base/main/lists/docker-versions-stable.sh"

	// EULAAcceptValue in SENZING_ACCEPT_EULA accepts the license up front.
	EULAAcceptValue = "I_ACCEPT_THE_SENZING_EULA"
)

// Config is the immutable configuration of one run.
type Config struct {
	ManifestURL    string   `mapstructure:"manifest_url"`
	CollectionsURL string   `mapstructure:"collections_url"`
	CacheDir       string   `mapstructure:"cache_dir"`
	ArchivePrefix  string   `mapstructure:"archive_prefix"`
	AcceptEULA     bool     `mapstructure:"accept_eula"`
	AssumeYes      bool     `mapstructure:"assume_yes"`
	LogLevel       string   `mapstructure:"log_level"`
	DockerHost     string   `mapstructure:"docker_host"`
	Network        string   `mapstructure:"network"`
	DemoImage      string   `mapstructure:"demo_image"`
	DemoPorts      []string `mapstructure:"demo_ports"`
	RouteTarget    string   `mapstructure:"route_target"`
}

// Load reads configuration from defaults, an optional senzup.yaml, SENZUP_*
// environment variables and finally overrides, which typically hold flags
// that were set explicitly. configPath selects a file instead of the search
// path.
func Load(configPath string, overrides map[string]any) (Config, error) {
	v := viper.New()
	setDefaults(v)
	configure(v, configPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if os.Getenv("SENZING_ACCEPT_EULA") == EULAAcceptValue {
		cfg.AcceptEULA = true
	}
	cfg.DemoPorts = splitList(strings.Join(cfg.DemoPorts, ","))
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("manifest_url", DefaultManifestURL)
	v.SetDefault("collections_url", "")
	v.SetDefault("cache_dir", defaultCacheDir())
	v.SetDefault("archive_prefix", AppName)
	v.SetDefault("accept_eula", false)
	v.SetDefault("assume_yes", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("docker_host", "")
	v.SetDefault("network", "senzing-network")
	v.SetDefault("demo_image", "senzing/web-app-demo")
	v.SetDefault("demo_ports", []string{"8251:8251"})
	v.SetDefault("route_target", "8.8.8.8:80")
}

func configure(v *viper.Viper, configPath string) {
	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}

	v.SetConfigName(AppName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, AppName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, "."+AppName))
	}
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, AppName)
	}
	return filepath.Join(os.TempDir(), AppName+"-cache")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
