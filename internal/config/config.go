package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultSheetURL is the published CSV export of the GNSS project sheet.
const DefaultSheetURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vQCrUJH-IyyRMocINP2zOII0z2EQPa8qhEBidLSr2mjoW-EY5iSqunaSD_ZklMjoas0z7aUPim3JOfb/pub?output=csv"

// Output formats for the points document.
const (
	FormatCZML    = "czml"
	FormatGeoJSON = "geojson"
)

// Config holds all run settings, populated from environment variables.
type Config struct {
	SheetURL     string
	FetchTimeout time.Duration

	OutputFormat string
	OutputPath   string // "-" writes to stdout
	LegendPath   string // empty disables the legend document

	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	MetricsTextfile string

	// Optional Kafka marker feed. Empty brokers disable it.
	KafkaBrokers []string
	KafkaTopic   string

	// Mapbox reverse geocoding for unnamed sites.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int
	MapboxRateLimit float64 // requests per second

	RadiusScale    float64 // ellipse meters per size unit
	HeightStep     float64 // meters of vertical offset per row index
	CategoryColors string  // "Category=#hex;..." palette overrides
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parsePositiveDuration("FETCH_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	mapboxTimeout, err := parsePositiveDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	rateLimit, err := parseNonNegativeFloat("MAPBOX_RATE_LIMIT", "10")
	if err != nil {
		return nil, err
	}
	radiusScale, err := parseNonNegativeFloat("RADIUS_SCALE", "10000")
	if err != nil {
		return nil, err
	}
	heightStep, err := parseNonNegativeFloat("HEIGHT_STEP", "5")
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		SheetURL:        sharedcfg.EnvOrDefault("SHEET_URL", DefaultSheetURL),
		FetchTimeout:    fetchTimeout,
		OutputFormat:    sharedcfg.EnvOrDefault("OUTPUT_FORMAT", FormatCZML),
		OutputPath:      sharedcfg.EnvOrDefault("OUTPUT_PATH", "-"),
		LegendPath:      os.Getenv("LEGEND_PATH"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),

		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "gnss-site-markers"),

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseMapboxCacheSize(),
		MapboxRateLimit: rateLimit,

		RadiusScale:    radiusScale,
		HeightStep:     heightStep,
		CategoryColors: os.Getenv("CATEGORY_COLORS"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that CLI flags may have changed after Load.
func (c *Config) Validate() error {
	if c.SheetURL == "" {
		return errors.New("SHEET_URL is required")
	}
	if c.OutputFormat != FormatCZML && c.OutputFormat != FormatGeoJSON {
		return fmt.Errorf("invalid OUTPUT_FORMAT %q: want %s or %s", c.OutputFormat, FormatCZML, FormatGeoJSON)
	}
	if c.OutputPath == "" {
		return errors.New("OUTPUT_PATH is required")
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaTopic == "" {
		return errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	if c.MapboxEnabled && c.MapboxToken == "" {
		return errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	return nil
}

// KafkaEnabled reports whether the marker feed should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseNonNegativeFloat(key, def string) (float64, error) {
	v, err := strconv.ParseFloat(sharedcfg.EnvOrDefault(key, def), 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
