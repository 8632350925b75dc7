package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Posten       PostenConfig       `yaml:"posten" mapstructure:"posten"`
	Municipality MunicipalityConfig `yaml:"municipality" mapstructure:"municipality"`
	Buildings    BuildingsConfig    `yaml:"buildings" mapstructure:"buildings"`
	Relocate     RelocateConfig     `yaml:"relocate" mapstructure:"relocate"`
	Normalize    NormalizeConfig    `yaml:"normalize" mapstructure:"normalize"`
	Retry        RetryConfig        `yaml:"retry" mapstructure:"retry"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// PostenConfig configures the Posten directory service endpoints.
type PostenConfig struct {
	OfficesURL  string `yaml:"offices_url" mapstructure:"offices_url"`
	BoxesURL    string `yaml:"boxes_url" mapstructure:"boxes_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
}

// MunicipalityConfig configures the municipality registry source.
type MunicipalityConfig struct {
	URL string `yaml:"url" mapstructure:"url"`
}

// BuildingsConfig locates the per-municipality building footprint files.
type BuildingsConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// RelocateConfig holds the post box relocation thresholds.
type RelocateConfig struct {
	WallThresholdMeters   float64 `yaml:"wall_threshold_meters" mapstructure:"wall_threshold_meters"`
	WallOffsetMeters      float64 `yaml:"wall_offset_meters" mapstructure:"wall_offset_meters"`
	MaxBuildingSpanMeters float64 `yaml:"max_building_span_meters" mapstructure:"max_building_span_meters"`
	Concurrency           int     `yaml:"concurrency" mapstructure:"concurrency"`
}

// NormalizeConfig points at an optional replacement for the built-in name
// rules.
type NormalizeConfig struct {
	RulesFile string `yaml:"rules_file" mapstructure:"rules_file"`
}

// RetryConfig controls retries of remote calls.
type RetryConfig struct {
	MaxAttempts      int `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs     int `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
}

// OutputConfig configures where OSM files are written.
type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("POST2OSM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("posten.offices_url", "http://public.snws.posten.no/SalgsnettServicePublic.asmx/GetEnheterByLandkode?searchValue=&landkode=NO")
	v.SetDefault("posten.boxes_url", "http://public.snws.posten.no/SalgsnettServicePublic.asmx/GetInnleveringspostkasser?searchValue=")
	v.SetDefault("posten.timeout_secs", 120)
	v.SetDefault("posten.user_agent", "post2osm/1.0")
	v.SetDefault("municipality.url", "https://ws.geonorge.no/kommuneinfo/v1/fylkerkommuner?filtrer=fylkesnummer%2Cfylkesnavn%2Ckommuner.kommunenummer%2Ckommuner.kommunenavnNorsk")
	v.SetDefault("buildings.dir", "~/Jottacloud/osm/bygninger/")
	v.SetDefault("relocate.wall_threshold_meters", 5.0)
	v.SetDefault("relocate.wall_offset_meters", 1.0)
	v.SetDefault("relocate.max_building_span_meters", 2000.0)
	v.SetDefault("relocate.concurrency", 1)
	v.SetDefault("normalize.rules_file", "")
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.initial_backoff_ms", 1000)
	v.SetDefault("retry.max_backoff_ms", 30000)
	v.SetDefault("output.dir", ".")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs. mode is the command name.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "offices":
		if c.Posten.OfficesURL == "" {
			problems = append(problems, "posten.offices_url is required")
		}
	case "boxes":
		if c.Posten.BoxesURL == "" {
			problems = append(problems, "posten.boxes_url is required")
		}
	case "relocate":
		if c.Municipality.URL == "" {
			problems = append(problems, "municipality.url is required")
		}
		if c.Buildings.Dir == "" {
			problems = append(problems, "buildings.dir is required")
		}
		if c.Relocate.WallThresholdMeters <= 0 {
			problems = append(problems, "relocate.wall_threshold_meters must be > 0")
		}
		if c.Relocate.WallOffsetMeters < 0 {
			problems = append(problems, "relocate.wall_offset_meters must be >= 0")
		}
		if c.Relocate.MaxBuildingSpanMeters < 0 {
			problems = append(problems, "relocate.max_building_span_meters must be >= 0")
		}
		if c.Relocate.Concurrency < 1 || c.Relocate.Concurrency > 64 {
			problems = append(problems, "relocate.concurrency must be between 1 and 64")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Posten.TimeoutSecs <= 0 {
		problems = append(problems, "posten.timeout_secs must be > 0")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
