// Package config provides Viper-based configuration loading for the
// simulation core and its host binaries.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// DatabaseConfig holds PostgreSQL connection settings for the scheduler
// job-state store.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// CalendarConfig holds the virtual calendar settings.
type CalendarConfig struct {
	// TimeFactor is how many game seconds elapse per real second.
	TimeFactor float64 `mapstructure:"time_factor"`
	// SeasonMonths maps a season name to the 0-based month indices it covers.
	SeasonMonths map[string][]int `mapstructure:"season_months"`
}

// SchedulerConfig holds the tick job cadences. All intervals are real time.
type SchedulerConfig struct {
	SurvivalInterval  time.Duration `mapstructure:"survival_interval"`
	WeatherInterval   time.Duration `mapstructure:"weather_interval"`
	ResourceInterval  time.Duration `mapstructure:"resource_interval"`
	FoodDecayInterval time.Duration `mapstructure:"food_decay_interval"`
	SeasonalInterval  time.Duration `mapstructure:"seasonal_interval"`
	FuelInterval      time.Duration `mapstructure:"fuel_interval"`
	// FoodRetention is how long a fully spoiled item survives, in real time,
	// before the maintenance sweep removes it.
	FoodRetention time.Duration `mapstructure:"food_retention"`
}

// SurvivalConfig holds passive gauge decay rates, in points per game hour.
// Rates are negative for depleting gauges.
type SurvivalConfig struct {
	HungerRate  float64 `mapstructure:"hunger_rate"`
	ThirstRate  float64 `mapstructure:"thirst_rate"`
	FatigueRate float64 `mapstructure:"fatigue_rate"`
}

// WeatherConfig holds the season-weighted weather probability tables.
// Each season maps base weather categories to probabilities summing to at most 1.0.
type WeatherConfig struct {
	Seasonal map[string]map[string]float64 `mapstructure:"seasonal"`
}

// CooldownConfig holds action cooldown tuning.
type CooldownConfig struct {
	// Defaults maps action names to base cooldown durations.
	Defaults map[string]time.Duration `mapstructure:"defaults"`
	// MaxStatReduction caps the stat-derived duration reduction ratio.
	MaxStatReduction float64 `mapstructure:"max_stat_reduction"`
	// StatReductionPerPoint is the per-point reduction ratio for a physical
	// stat above its baseline of 10.
	StatReductionPerPoint float64 `mapstructure:"stat_reduction_per_point"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Calendar  CalendarConfig  `mapstructure:"calendar"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Survival  SurvivalConfig  `mapstructure:"survival"`
	Weather   WeatherConfig   `mapstructure:"weather"`
	Cooldown  CooldownConfig  `mapstructure:"cooldown"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateDatabase(c.Database); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateCalendar(c.Calendar); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateScheduler(c.Scheduler); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateWeather(c.Weather); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateCooldown(c.Cooldown); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateCalendar(c CalendarConfig) error {
	var errs []string
	if c.TimeFactor <= 0 {
		errs = append(errs, fmt.Sprintf("calendar.time_factor must be > 0, got %v", c.TimeFactor))
	}
	if len(c.SeasonMonths) == 0 {
		errs = append(errs, "calendar.season_months must not be empty")
	}
	seen := map[int]string{}
	for season, months := range c.SeasonMonths {
		for _, m := range months {
			if m < 0 || m > 11 {
				errs = append(errs, fmt.Sprintf("calendar.season_months.%s: month %d out of range 0-11", season, m))
			}
			if prev, ok := seen[m]; ok {
				errs = append(errs, fmt.Sprintf("calendar.season_months: month %d assigned to both %s and %s", m, prev, season))
			}
			seen[m] = season
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateScheduler(s SchedulerConfig) error {
	var errs []string
	intervals := []struct {
		name string
		d    time.Duration
	}{
		{"scheduler.survival_interval", s.SurvivalInterval},
		{"scheduler.weather_interval", s.WeatherInterval},
		{"scheduler.resource_interval", s.ResourceInterval},
		{"scheduler.food_decay_interval", s.FoodDecayInterval},
		{"scheduler.seasonal_interval", s.SeasonalInterval},
		{"scheduler.fuel_interval", s.FuelInterval},
	}
	for _, iv := range intervals {
		if iv.d <= 0 {
			errs = append(errs, fmt.Sprintf("%s must be > 0, got %v", iv.name, iv.d))
		}
	}
	if s.FoodRetention < 0 {
		errs = append(errs, "scheduler.food_retention must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateWeather(w WeatherConfig) error {
	var errs []string
	if len(w.Seasonal) == 0 {
		errs = append(errs, "weather.seasonal must not be empty")
	}
	for season, table := range w.Seasonal {
		if len(table) == 0 {
			errs = append(errs, fmt.Sprintf("weather.seasonal.%s must not be empty", season))
			continue
		}
		sum := 0.0
		for category, prob := range table {
			if prob < 0 {
				errs = append(errs, fmt.Sprintf("weather.seasonal.%s.%s must not be negative", season, category))
			}
			sum += prob
		}
		if sum > 1.0+1e-9 {
			errs = append(errs, fmt.Sprintf("weather.seasonal.%s probabilities sum to %v, must not exceed 1.0", season, sum))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateCooldown(c CooldownConfig) error {
	var errs []string
	for name, d := range c.Defaults {
		if d < 0 {
			errs = append(errs, fmt.Sprintf("cooldown.defaults.%s must not be negative", name))
		}
	}
	if c.MaxStatReduction < 0 || c.MaxStatReduction > 1 {
		errs = append(errs, fmt.Sprintf("cooldown.max_stat_reduction must be in [0, 1], got %v", c.MaxStatReduction))
	}
	if c.StatReductionPerPoint < 0 {
		errs = append(errs, "cooldown.stat_reduction_per_point must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with POLISHED_ prefix
	v.SetEnvPrefix("POLISHED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in configuration without reading any file.
// Useful for tests and embedded hosts.
//
// Postcondition: Default().Validate() == nil.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// The defaults below are well-typed, so unmarshalling cannot fail.
	_ = v.Unmarshal(&cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "polished")
	v.SetDefault("database.password", "polished")
	v.SetDefault("database.name", "polished")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	// Game time runs 4x faster than real time: 6 real hours = 1 game day.
	v.SetDefault("calendar.time_factor", 4.0)
	v.SetDefault("calendar.season_months", map[string][]int{
		"winter": {11, 0, 1, 2},
		"spring": {3, 4, 5},
		"summer": {6, 7, 8},
		"autumn": {9, 10},
	})

	v.SetDefault("scheduler.survival_interval", "10m")
	v.SetDefault("scheduler.weather_interval", "15m")
	v.SetDefault("scheduler.resource_interval", "1h")
	v.SetDefault("scheduler.food_decay_interval", "30m")
	v.SetDefault("scheduler.seasonal_interval", "6h")
	v.SetDefault("scheduler.fuel_interval", "5m")
	v.SetDefault("scheduler.food_retention", "24h")

	v.SetDefault("survival.hunger_rate", -2.0)
	v.SetDefault("survival.thirst_rate", -3.0)
	v.SetDefault("survival.fatigue_rate", -1.0)

	v.SetDefault("weather.seasonal", map[string]map[string]float64{
		"winter": {"clear": 0.2, "cloudy": 0.3, "snow": 0.3, "fog": 0.1, "storm": 0.1},
		"spring": {"clear": 0.4, "cloudy": 0.3, "rain": 0.2, "fog": 0.05, "storm": 0.05},
		"summer": {"clear": 0.6, "cloudy": 0.2, "rain": 0.1, "storm": 0.1},
		"autumn": {"clear": 0.3, "cloudy": 0.3, "rain": 0.2, "fog": 0.15, "storm": 0.05},
	})

	v.SetDefault("cooldown.defaults", map[string]time.Duration{
		"gather":         300 * time.Second,
		"forage":         180 * time.Second,
		"craft_basic":    300 * time.Second,
		"craft_advanced": 1800 * time.Second,
		"rest":           180 * time.Second,
		"hunt":           1200 * time.Second,
		"trade":          60 * time.Second,
		"repair":         600 * time.Second,
	})
	v.SetDefault("cooldown.max_stat_reduction", 0.20)
	v.SetDefault("cooldown.stat_reduction_per_point", 0.01)
}
