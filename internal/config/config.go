package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/mutker/battmon/internal/errors"
	"codeberg.org/mutker/battmon/internal/telemetry"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultEnvPrefix     = "BATTMON"
	DefaultLogLevel      = LogLevelWarning
	DefaultSampleEvery   = time.Second
	DefaultTickInterval  = time.Second / 50
	DefaultRateWindow    = 2 * time.Minute
	DefaultVoltageWindow = 10 * time.Minute

	configName = "battmon"
	configType = "toml"
)

type Config struct {
	SampleInterval time.Duration `mapstructure:"sample_interval"`
	TickInterval   time.Duration `mapstructure:"tick_interval"`
	RateWindow     time.Duration `mapstructure:"rate_window"`
	VoltageWindow  time.Duration `mapstructure:"voltage_window"`
	Series         string        `mapstructure:"series"`
	KeepStale      bool          `mapstructure:"keep_stale"`
	Monitor        bool          `mapstructure:"monitor"`
	LogLevel       string        `mapstructure:"log_level"`
	LogFile        string        `mapstructure:"log_file"`
	Debug          bool          `mapstructure:"debug"`
	Verbose        bool          `mapstructure:"verbose"`

	// ConfigFile is the file the values were read from, if any
	ConfigFile string `mapstructure:"-"`
}

// Load reads configuration from defaults, an optional TOML file, the
// environment and the given command line arguments, in increasing order
// of precedence.
func Load(args []string, opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := &options{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	flags := newFlagSet()
	if err := flags.Parse(args); err != nil {
		return nil, errFactory.Wrap(errors.ErrParseFlags, err)
	}
	if err := bindFlags(v, flags); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	path := o.configPath
	if p, _ := flags.GetString("config"); p != "" {
		path = p
	}
	if path == "" {
		path = os.Getenv(o.envPrefix + "_CONFIG")
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType(configType)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, configName))
		}
		v.AddConfigPath("/etc")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrUnmarshalConfig, err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	cfg.applyVerbosity()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sample_interval", DefaultSampleEvery)
	v.SetDefault("tick_interval", DefaultTickInterval)
	v.SetDefault("rate_window", DefaultRateWindow)
	v.SetDefault("voltage_window", DefaultVoltageWindow)
	v.SetDefault("series", string(telemetry.SeriesShared))
	v.SetDefault("keep_stale", true)
	v.SetDefault("monitor", false)
	v.SetDefault("log_level", string(DefaultLogLevel))
	v.SetDefault("log_file", filepath.Join(os.TempDir(), "battmon.log"))
	v.SetDefault("debug", false)
	v.SetDefault("verbose", false)
}

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("battmon", pflag.ContinueOnError)

	flags.String("config", "", "Path to a TOML configuration file")
	flags.Duration("sample-interval", DefaultSampleEvery, "Minimum time between two battery polls")
	flags.Duration("tick-interval", DefaultTickInterval, "Interval between frame ticks")
	flags.Duration("rate-window", DefaultRateWindow, "Time span of the energy rate chart")
	flags.Duration("voltage-window", DefaultVoltageWindow, "Time span of the voltage chart")
	flags.String("series", string(telemetry.SeriesShared), "Energy rate series: shared or per-device")
	flags.Bool("keep-stale", true, "Keep showing the last readings when a poll finds no batteries")
	flags.Bool("monitor", false, "Log samples instead of drawing the terminal interface")
	flags.String("log-level", string(DefaultLogLevel), "Log level: debug, info, warning, error")
	flags.String("log-file", "", "Log file used while the terminal interface is running")
	flags.Bool("debug", false, "Enable debugging mode")
	flags.Bool("verbose", false, "Enable verbose logging")

	return flags
}

// bindFlags maps each dashed flag onto its underscored config key so that
// only flags set on the command line override file and env values.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	errFactory := errors.New()

	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if bindErr != nil || f.Name == "config" {
			return
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			bindErr = errFactory.Wrap(errors.ErrBindFlags, err)
		}
	})

	return bindErr
}

func (c *Config) applyVerbosity() {
	switch {
	case c.Debug:
		c.LogLevel = string(LogLevelDebug)
	case c.Verbose && LogLevel(c.LogLevel) == DefaultLogLevel:
		c.LogLevel = string(LogLevelInfo)
	}
}

// Validate checks every value that cannot be fixed up silently
func (c *Config) Validate() error {
	errFactory := errors.New()

	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}
	if c.TickInterval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, "tick_interval="+c.TickInterval.String())
	}
	if c.SampleInterval < c.TickInterval {
		return errFactory.WithData(errors.ErrInvalidInterval, "sample_interval shorter than tick_interval")
	}

	return c.Sampler().Validate()
}

// Sampler returns the sampling settings
func (c *Config) Sampler() telemetry.Config {
	return telemetry.Config{
		Interval:      c.SampleInterval,
		RateWindow:    c.RateWindow,
		VoltageWindow: c.VoltageWindow,
		Series:        telemetry.SeriesMode(c.Series),
		KeepStale:     c.KeepStale,
	}
}
