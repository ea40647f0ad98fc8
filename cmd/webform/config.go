package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/goliatone/go-webform"
	"github.com/goliatone/go-webform/internal/logging"
	"github.com/goliatone/go-webform/pkg/prompt"
)

// Config is the resolved CLI configuration.
type Config struct {
	Schemas   string `mapstructure:"schemas" yaml:"schemas"`
	Strict    bool   `mapstructure:"strict" yaml:"strict"`
	Secret    string `mapstructure:"secret" yaml:"secret,omitempty"`
	Addr      string `mapstructure:"addr" yaml:"addr"`
	LogLevel  string `mapstructure:"log-level" yaml:"log-level"`
	LogFormat string `mapstructure:"log-format" yaml:"log-format"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		Schemas:   "forms",
		Addr:      "127.0.0.1:8080",
		LogLevel:  "info",
		LogFormat: logging.FormatConsole,
	}
}

const envPrefix = "WEBFORM"

// newViper builds the viper instance backing one command tree.
func newViper() *viper.Viper {
	v := viper.New()
	defaults := Defaults()
	v.SetDefault("schemas", defaults.Schemas)
	v.SetDefault("strict", defaults.Strict)
	v.SetDefault("addr", defaults.Addr)
	v.SetDefault("log-level", defaults.LogLevel)
	v.SetDefault("log-format", defaults.LogFormat)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// readConfig loads the config file, when there is one, and unmarshals the
// merged settings.
func readConfig(v *viper.Viper, cfgFile string) (Config, error) {
	if cfgFile == "" {
		cfgFile = os.Getenv(envPrefix + "_CONFIG")
	}
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("webform")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// app carries what every subcommand needs once configuration is resolved.
type app struct {
	cfg    Config
	logger *zap.Logger
	// driver overrides the terminal prompt driver.
	driver prompt.Driver
}

func (a *app) setup(cmd *cobra.Command, v *viper.Viper, cfgFile string) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}
	cfg, err := readConfig(v, cfgFile)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// load builds the pipeline and registers every schema under the configured
// directory.
func (a *app) load(opts ...webform.Option) (*webform.Webform, []string, error) {
	base := []webform.Option{
		webform.WithStrict(a.cfg.Strict),
		webform.WithLogger(a.logger),
	}
	if a.cfg.Secret != "" {
		base = append(base, webform.WithSecret([]byte(a.cfg.Secret)))
	}
	wf, err := webform.New(append(base, opts...)...)
	if err != nil {
		return nil, nil, err
	}
	slugs, err := wf.LoadFS(os.DirFS(a.cfg.Schemas))
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", a.cfg.Schemas, err)
	}
	return wf, slugs, nil
}
