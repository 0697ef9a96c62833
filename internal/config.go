package internal

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/mitchellh/go-homedir"
	"github.com/vidgrab/vidgrab/internal/api"
)

const defaultDownloadDirSuffix = "vidgrab/downloads"

// AppConfig is the struct used to contain the user config supplied
// by file or environment. Everything has a workable default; a
// config file is optional.
type AppConfig struct {
	Rest api.RestConfig `yaml:"api"`

	// Directory holding downloaded artifacts. Defaults to a
	// vidgrab-owned directory under the user's home.
	DownloadDirPath string `yaml:"download_dir" env:"DOWNLOAD_DIR"`

	// Path to the yt-dlp binary used for extraction.
	YtDlpBinPath string `yaml:"yt_dlp_bin" env:"YTDLP_BIN" env-default:"yt-dlp"`

	// Maximum artifact age, and how often expired artifacts are
	// swept. Both default to one hour.
	FileTTLSeconds       int `yaml:"file_ttl_seconds" env:"FILE_TTL_SECONDS" env-default:"3600"`
	SweepIntervalSeconds int `yaml:"sweep_interval_seconds" env:"SWEEP_INTERVAL_SECONDS" env-default:"3600"`
}

// LoadFromFile loads a YAML configuration file into this AppConfig,
// applying env overrides and defaults on top.
func (config *AppConfig) LoadFromFile(configPath string) error {
	if err := cleanenv.ReadConfig(configPath, config); err != nil {
		return fmt.Errorf("failed to load configuration from '%s': %w", configPath, err)
	}

	return nil
}

// LoadFromEnv populates this AppConfig from environment variables
// and defaults only, for running without a config file.
func (config *AppConfig) LoadFromEnv() error {
	if err := cleanenv.ReadEnv(config); err != nil {
		return fmt.Errorf("failed to load configuration from environment: %w", err)
	}

	return nil
}

func (config *AppConfig) FileTTL() time.Duration {
	return time.Duration(config.FileTTLSeconds) * time.Second
}

func (config *AppConfig) SweepInterval() time.Duration {
	return time.Duration(config.SweepIntervalSeconds) * time.Second
}

// getDownloadDir returns the artifact store root. It will first look
// in the config for a value; if none is found a default under the
// user's home directory is derived. If the home directory cannot be
// resolved, a panic will occur.
func (config *AppConfig) getDownloadDir() string {
	if config.DownloadDirPath != "" {
		return config.DownloadDirPath
	}

	dir, err := homedir.Dir()
	if err != nil {
		panic(fmt.Sprintf("FAILURE to derive user home dir %s", err))
	}

	return filepath.Join(dir, defaultDownloadDirSuffix)
}
