package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config is built once at startup and passed into every component; nothing
// reads ambient process state after this.
type Config struct {
	HassURL      string
	HassToken    string
	OutputDir    string
	SnapshotPath string
	OllamaURL    string
	OllamaPort   int
	Model        string
}

// Init reads in the config file and matching environment variables.
func Init(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".camwatch" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".camwatch")
	}

	viper.SetDefault("output_dir", "snapshots")
	viper.SetDefault("snapshot_path", "/config/www/camwatch")
	viper.SetDefault("ollama.url", "http://localhost")
	viper.SetDefault("ollama.port", 11434)
	viper.SetDefault("ollama.model", "llama3.2-vision:11b")

	viper.BindEnv("hass.url", "HASS_URL")
	viper.BindEnv("hass.token", "HASS_TOKEN")
	viper.BindEnv("ollama.url", "OLLAMA_HOST")
	viper.AutomaticEnv()

	// Missing config file is fine as long as the environment covers it.
	_ = viper.ReadInConfig()
}

// Load validates the required settings and returns the immutable config.
func Load() (Config, error) {
	cfg := Config{
		HassURL:      viper.GetString("hass.url"),
		HassToken:    viper.GetString("hass.token"),
		OutputDir:    viper.GetString("output_dir"),
		SnapshotPath: viper.GetString("snapshot_path"),
		OllamaURL:    viper.GetString("ollama.url"),
		OllamaPort:   viper.GetInt("ollama.port"),
		Model:        viper.GetString("ollama.model"),
	}

	if cfg.HassURL == "" {
		return Config{}, errors.New("hass.url is not set (config file or HASS_URL)")
	}
	if cfg.HassToken == "" {
		return Config{}, errors.New("hass.token is not set (config file or HASS_TOKEN)")
	}

	return cfg, nil
}

// IntervalFromMinutes converts the operator-facing interval to a duration.
func IntervalFromMinutes(minutes int) time.Duration {
	if minutes < 1 {
		minutes = 1
	}
	return time.Duration(minutes) * time.Minute
}
