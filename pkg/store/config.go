package store

import (
	"errors"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	// BackendDiskv keeps one JSON file per session under BasePath.
	BackendDiskv = "diskv"
	// BackendMemory serves the demo week from memory; changes are lost on exit.
	BackendMemory = "memory"

	configPathEnv = "HARMONIZER_CONFIG_PATH"
)

// Config describes where sessions live and how the front ends behave.
type Config interface {
	BasePath() string
	Backend() string
	Seed() bool
	Rooms() []string
	LogLevel() string
	LogFile() string
	ServeAddr() string
}

// LoadConfig reads .harmonizer.yaml from $HARMONIZER_CONFIG_PATH or the
// working directory, then applies HARMONIZER_* environment overrides.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", "~/.harmonizer.db")
	v.SetDefault("backend", BackendDiskv)
	v.SetDefault("seed", true)
	v.SetDefault("rooms", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("serve.addr", "127.0.0.1:8080")
	v.SetConfigName(".harmonizer") // .yaml is implicit
	v.SetEnvPrefix("HARMONIZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv(configPathEnv); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, err
	}

	return &fileConfig{
		Path:     path,
		Kind:     strings.ToLower(v.GetString("backend")),
		SeedDemo: v.GetBool("seed"),
		Extra:    v.GetStringSlice("rooms"),
		Level:    v.GetString("log.level"),
		File:     v.GetString("log.file"),
		Addr:     v.GetString("serve.addr"),
	}, nil
}

// ConfigPathOverride returns the config directory set through the
// environment, if any.
func ConfigPathOverride() string {
	return os.Getenv(configPathEnv)
}

type fileConfig struct {
	Path     string   `json:"path"`
	Kind     string   `json:"backend"`
	SeedDemo bool     `json:"seed"`
	Extra    []string `json:"rooms"`
	Level    string   `json:"logLevel"`
	File     string   `json:"logFile"`
	Addr     string   `json:"serveAddr"`
}

func (f *fileConfig) BasePath() string  { return f.Path }
func (f *fileConfig) Backend() string   { return f.Kind }
func (f *fileConfig) Seed() bool        { return f.SeedDemo }
func (f *fileConfig) Rooms() []string   { return append([]string(nil), f.Extra...) }
func (f *fileConfig) LogLevel() string  { return f.Level }
func (f *fileConfig) LogFile() string   { return f.File }
func (f *fileConfig) ServeAddr() string { return f.Addr }

// StaticConfig is a Config assembled in code, used by tests and embedders.
type StaticConfig struct {
	Path       string
	Kind       string
	SeedDemo   bool
	ExtraRooms []string
	Level      string
	File       string
	Addr       string
}

func (s StaticConfig) BasePath() string { return s.Path }

func (s StaticConfig) Backend() string {
	if s.Kind == "" {
		return BackendDiskv
	}
	return s.Kind
}

func (s StaticConfig) Seed() bool        { return s.SeedDemo }
func (s StaticConfig) Rooms() []string   { return append([]string(nil), s.ExtraRooms...) }
func (s StaticConfig) LogLevel() string  { return s.Level }
func (s StaticConfig) LogFile() string   { return s.File }
func (s StaticConfig) ServeAddr() string { return s.Addr }
