// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads pistats settings from defaults, an optional YAML
// file, PISTATS_* environment variables and command line flags, in
// increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/toothrot/pistats/internal/errors"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g.
// PISTATS_SLIDE_FRAMES.
const EnvPrefix = "PISTATS"

// Config holds the dashboard settings.
type Config struct {
	// Update is the seconds between frames.
	Update int `yaml:"update" mapstructure:"update"`
	// Page is the seconds each page stays on screen.
	Page int `yaml:"page" mapstructure:"page"`
	// History is the number of samples kept per metric.
	History int `yaml:"history" mapstructure:"history"`
	// SlideFrames is the number of intermediate frames in a page transition;
	// 0 switches pages instantly.
	SlideFrames int `yaml:"slide-frames" mapstructure:"slide-frames"`

	// SPI is the spireg port name; empty selects the first port.
	SPI string `yaml:"spi" mapstructure:"spi"`
	// Speed is the SPI clock in MHz.
	Speed int `yaml:"speed" mapstructure:"speed"`

	// Disk is the mount point whose usage is reported.
	Disk string `yaml:"disk" mapstructure:"disk"`
	// Iface restricts network counters to one interface; empty sums every
	// non-loopback interface.
	Iface string `yaml:"iface" mapstructure:"iface"`

	Debug bool `yaml:"debug" mapstructure:"debug"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Update:  1,
		Page:    5,
		History: 20,
		Speed:   24,
		Disk:    "/",
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("update", d.Update)
	v.SetDefault("page", d.Page)
	v.SetDefault("history", d.History)
	v.SetDefault("slide-frames", d.SlideFrames)
	v.SetDefault("spi", d.SPI)
	v.SetDefault("speed", d.Speed)
	v.SetDefault("disk", d.Disk)
	v.SetDefault("iface", d.Iface)
	v.SetDefault("debug", d.Debug)
}

// Load merges the config file at path (if non-empty), the environment and
// flags over the defaults, and validates the result. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Couldn't read command line flags", "")
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.WrapWithCode(err, errors.ErrConfig,
					"Config file not found: "+path,
					"Check the path passed to --config")
			}
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check the file exists and is valid YAML")
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Numbers must be whole seconds, e.g. update: 2")
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting that the dashboard cannot run with.
func Validate(cfg *Config) error {
	switch {
	case cfg.Update < 1:
		return invalid("update", cfg.Update, "The update interval must be at least 1 second")
	case cfg.Page < 1:
		return invalid("page", cfg.Page, "The page duration must be at least 1 second")
	case cfg.History < 2:
		return invalid("history", cfg.History, "Graphs need at least 2 samples of history")
	case cfg.SlideFrames < 0:
		return invalid("slide-frames", cfg.SlideFrames, "Use 0 to switch pages without a transition")
	case cfg.Speed < 1:
		return invalid("speed", cfg.Speed, "The ST7789 runs reliably between 1 and 62 MHz")
	case cfg.Disk == "":
		return errors.New(errors.ErrConfig, "No disk mount point configured", "Set --disk to a mount point such as /")
	}
	return nil
}

func invalid(key string, value int, suggestion string) error {
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("Invalid %s: %d", key, value),
		suggestion)
}

// UpdateInterval is the time between frames.
func (c *Config) UpdateInterval() time.Duration {
	return time.Duration(c.Update) * time.Second
}

// PageDuration is the time each page stays on screen.
func (c *Config) PageDuration() time.Duration {
	return time.Duration(c.Page) * time.Second
}

// Marshal renders cfg as YAML that Load accepts back as a config file.
func Marshal(cfg *Config) ([]byte, error) {
	var buf strings.Builder
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return []byte(buf.String()), nil
}
