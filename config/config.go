// Package config holds the settings of dirconf tools: codec formatting,
// logging and an optional YAML schema file. Settings come from defaults, a
// YAML file and DIRCONF_ environment variables, in increasing priority.
package config

import (
	"os"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/viper"

	"github.com/land-surface/dirconf/ascii"
	"github.com/land-surface/dirconf/codec"
	"github.com/land-surface/dirconf/debug"
	"github.com/land-surface/dirconf/jules"
	"github.com/land-surface/dirconf/namelist"
	"github.com/land-surface/dirconf/schema"
)

const (
	KeyLogLevel       = "log.level"
	KeyNamelistIndent = "namelist.indent"
	KeyAsciiPrecision = "ascii.precision"
	KeySchemaFile     = "schema.file"

	EnvPrefix = "DIRCONF"
)

var log = debug.Log()

type Config struct {
	v *viper.Viper
}

// New returns settings with defaults and environment overrides only.
func New() *Config {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return &Config{v: v}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "warning")
	v.SetDefault(KeyNamelistIndent, 4)
	v.SetDefault(KeyAsciiPrecision, 5)
	v.SetDefault(KeySchemaFile, "")
}

// Load reads settings from a YAML file on top of the defaults.
func Load(file string) (*Config, error) {
	c := New()
	c.v.SetConfigFile(file)
	c.v.SetConfigType("yaml")
	if err := c.v.ReadInConfig(); err != nil {
		return nil, oops.Wrapf(err, "reading settings from %s", file)
	}
	log.WithField("file", c.v.ConfigFileUsed()).Debug("loaded settings")
	return c, nil
}

// Set overrides a setting.
func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}

func (c *Config) LogLevel() string {
	return c.v.GetString(KeyLogLevel)
}

func (c *Config) NamelistIndent() int {
	return c.v.GetInt(KeyNamelistIndent)
}

func (c *Config) AsciiPrecision() int {
	return c.v.GetInt(KeyAsciiPrecision)
}

// ApplyLogging sets the level of the shared logger.
func (c *Config) ApplyLogging() error {
	if err := debug.SetLevel(c.LogLevel()); err != nil {
		return oops.Wrapf(err, "%s", KeyLogLevel)
	}
	return nil
}

// Registry returns the default codecs formatted as configured, with the
// JULES handlers registered.
func (c *Config) Registry() (*schema.Registry, error) {
	if p := c.AsciiPrecision(); p < 0 {
		return nil, oops.Errorf("%s must not be negative, got %d", KeyAsciiPrecision, p)
	}
	reg := schema.NewRegistry()
	if err := reg.RegisterCodec("namelist", namelist.NewCodec(namelist.Indent(c.NamelistIndent())), schema.NamelistExtensions...); err != nil {
		return nil, err
	}
	if err := reg.RegisterCodec("ascii", ascii.NewCodec(ascii.Precision(c.AsciiPrecision())), schema.AsciiExtensions...); err != nil {
		return nil, err
	}
	if err := reg.RegisterCodec("netcdf", codec.Raw, schema.NetcdfExtensions...); err != nil {
		return nil, err
	}
	if err := jules.RegisterHandlers(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// Schema reads the YAML schema named by schema.file. It returns nil when
// no file is configured.
func (c *Config) Schema(reg *schema.Registry) (*schema.Node, error) {
	file := c.v.GetString(KeySchemaFile)
	if file == "" {
		return nil, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, oops.Wrapf(err, "reading schema")
	}
	return schema.ParseYAML(data, reg)
}
