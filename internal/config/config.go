package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Season table source. SeasonDataURL takes precedence over SeasonDataPath.
	SeasonDataPath    string
	SeasonDataURL     string
	SeasonDataTimeout time.Duration
	SeasonRegions     []string
	ImagesDir         string

	// City resolution.
	FuzzyDistance int
	NearestMaxKm  float64

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// Table publishing.
	KafkaBrokers    []string
	KafkaTableTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	mapboxTimeout, err := parsePositiveDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	dataTimeout, err := parsePositiveDuration("SEASON_DATA_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	fuzzyDistance, err := parseFuzzyDistance()
	if err != nil {
		return nil, err
	}

	nearestMaxKm, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("NEAREST_MAX_KM", "50"), 64)
	if err != nil || nearestMaxKm <= 0 {
		return nil, errors.New("invalid NEAREST_MAX_KM")
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		SeasonDataPath:    sharedcfg.EnvOrDefault("SEASON_DATA_PATH", "produce_data.json"),
		SeasonDataURL:     os.Getenv("SEASON_DATA_URL"),
		SeasonDataTimeout: dataTimeout,
		SeasonRegions:     parseRegions(sharedcfg.EnvOrDefault("SEASON_REGIONS", "UK")),
		ImagesDir:         os.Getenv("IMAGES_DIR"),

		FuzzyDistance: fuzzyDistance,
		NearestMaxKm:  nearestMaxKm,

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseMapboxCacheSize(),

		KafkaBrokers:    sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTableTopic: sharedcfg.EnvOrDefault("KAFKA_TABLE_TOPIC", "seasonal-produce-table"),
	}

	if len(cfg.SeasonRegions) == 0 {
		return nil, errors.New("SEASON_REGIONS is required")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaTableTopic == "" {
		return nil, errors.New("KAFKA_TABLE_TOPIC is required")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseFuzzyDistance() (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault("FUZZY_DISTANCE", "0"))
	if err != nil || n < 0 || n > 3 {
		return 0, errors.New("invalid FUZZY_DISTANCE: must be 0-3")
	}
	return n, nil
}

// parseRegions splits a comma-separated list into upper-case region codes.
func parseRegions(s string) []string {
	var regions []string
	for _, r := range strings.Split(s, ",") {
		if r = strings.ToUpper(strings.TrimSpace(r)); r != "" {
			regions = append(regions, r)
		}
	}
	return regions
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
