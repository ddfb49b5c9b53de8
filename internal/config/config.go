package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"sensor_dashboard/internal/logger"
	"sensor_dashboard/internal/models"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. SENSOR_DASHBOARD_POLL_INTERVAL.
const EnvPrefix = "sensor_dashboard"

// Config is the full process configuration, fixed at start.
type Config struct {
	Port     string
	LogLevel string
	DBPath   string

	Fiware     FiwareConfig
	Thresholds models.ThresholdConfig
	Poll       PollConfig
	Display    DisplayConfig
	HTTP       HTTPConfig
}

// FiwareConfig describes the broker (Orion) and historical-data service (STH-Comet).
type FiwareConfig struct {
	STHURL      string
	OrionURL    string
	Service     string
	ServicePath string
	EntityID    string
	EntityType  string
	Timeout     time.Duration
}

type PollConfig struct {
	Interval     time.Duration
	FetchCount   int
	HistoryCount int
}

type DisplayConfig struct {
	Timezone string
	Location *time.Location
}

type HTTPConfig struct {
	AllowedOrigins []string
}

var (
	errNonPositiveInterval = errors.New("poll.interval must be > 0")
	errNonPositiveFetch    = errors.New("poll.fetch_count must be > 0")
	errNonPositiveHistory  = errors.New("poll.history_count must be > 0")
	errNonPositiveTimeout  = errors.New("fiware.timeout must be > 0")
	errMissingEntity       = errors.New("fiware.entity_id and fiware.entity_type are required")
)

// SetDefaults registers a default for every key so a missing config file still yields a runnable setup.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "8050")
	v.SetDefault("log_level", logger.InfoLevel)
	v.SetDefault("db.path", "sensor_dashboard.db")

	v.SetDefault("fiware.sth_url", "http://130.131.16.56:8666")
	v.SetDefault("fiware.orion_url", "http://130.131.16.56:1026")
	v.SetDefault("fiware.service", "smart")
	v.SetDefault("fiware.service_path", "/")
	v.SetDefault("fiware.entity_id", "urn:ngsi-ld:NEXUScode:001")
	v.SetDefault("fiware.entity_type", "Lamp")
	v.SetDefault("fiware.timeout", 5*time.Second)

	d := models.DefaultThresholds()
	v.SetDefault("thresholds.temp_high", d.TempHigh)
	v.SetDefault("thresholds.hum_high", d.HumHigh)
	v.SetDefault("thresholds.lum_low", d.LumLow)

	v.SetDefault("poll.interval", 10*time.Second)
	v.SetDefault("poll.fetch_count", 1)
	v.SetDefault("poll.history_count", 20)

	v.SetDefault("display.timezone", "America/Sao_Paulo")
	v.SetDefault("http.allowed_origins", []string{"*"})
}

// Load reads configuration into v and returns the typed Config.
// When file is empty, config.yml is searched in ./configs; a missing file is not an error.
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Port:     v.GetString("port"),
		LogLevel: strings.ToLower(v.GetString("log_level")),
		DBPath:   v.GetString("db.path"),
		Fiware: FiwareConfig{
			STHURL:      strings.TrimRight(v.GetString("fiware.sth_url"), "/"),
			OrionURL:    strings.TrimRight(v.GetString("fiware.orion_url"), "/"),
			Service:     v.GetString("fiware.service"),
			ServicePath: v.GetString("fiware.service_path"),
			EntityID:    v.GetString("fiware.entity_id"),
			EntityType:  v.GetString("fiware.entity_type"),
			Timeout:     v.GetDuration("fiware.timeout"),
		},
		Thresholds: models.ThresholdConfig{
			TempHigh: v.GetFloat64("thresholds.temp_high"),
			HumHigh:  v.GetFloat64("thresholds.hum_high"),
			LumLow:   v.GetFloat64("thresholds.lum_low"),
		},
		Poll: PollConfig{
			Interval:     v.GetDuration("poll.interval"),
			FetchCount:   v.GetInt("poll.fetch_count"),
			HistoryCount: v.GetInt("poll.history_count"),
		},
		Display: DisplayConfig{
			Timezone: v.GetString("display.timezone"),
		},
		HTTP: HTTPConfig{
			AllowedOrigins: v.GetStringSlice("http.allowed_origins"),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// validate checks invariants and resolves the display location.
func (c *Config) validate() error {
	if c.Poll.Interval <= 0 {
		return errNonPositiveInterval
	}
	if c.Poll.FetchCount <= 0 {
		return errNonPositiveFetch
	}
	if c.Poll.HistoryCount <= 0 {
		return errNonPositiveHistory
	}
	if c.Fiware.Timeout <= 0 {
		return errNonPositiveTimeout
	}
	if c.Fiware.EntityID == "" || c.Fiware.EntityType == "" {
		return errMissingEntity
	}
	for key, raw := range map[string]string{"fiware.sth_url": c.Fiware.STHURL, "fiware.orion_url": c.Fiware.OrionURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s: invalid url %q", key, raw)
		}
	}
	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("log_level: unknown level %q", c.LogLevel)
	}

	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return fmt.Errorf("display.timezone: %w", err)
	}
	c.Display.Location = loc
	return nil
}
