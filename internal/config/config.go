package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelvins/geocoder"
)

var validate = validator.New()

type AppConfig struct {
	// APIKey authenticates against the Kachelmann Wetter API.
	APIKey string `validate:"required"`

	Latitude  float64 `validate:"gte=-90,lte=90"`
	Longitude float64 `validate:"gte=-180,lte=180"`

	// ForecastEnabled gates all outbound fetching. When off, refresh
	// cycles publish empty snapshots without touching the network.
	ForecastEnabled bool

	// Model selects the forecast model for the hourly endpoints.
	Model string

	// FetchInterval controls the refresh cadence.
	FetchInterval time.Duration

	// HTTPTimeout bounds each outbound request.
	HTTPTimeout time.Duration

	// RateLimit caps outbound requests per second toward the provider.
	RateLimit float64

	Port string
}

// Load reads configuration from environment with sensible defaults.
// Coordinates come from LATITUDE/LONGITUDE, or are geocoded from
// WEATHER_LOCATION_CITY/WEATHER_LOCATION_COUNTRY when those are absent.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.APIKey = os.Getenv("KACHELMANN_API_KEY")

	lat, lon, err := resolveCoordinates()
	if err != nil {
		return nil, err
	}
	cfg.Latitude = lat
	cfg.Longitude = lon

	cfg.ForecastEnabled = getenvBool("FORECAST_ENABLED", true)
	cfg.Model = getenvDefault("WEATHER_MODEL", "SWISS1X1")

	// Refresh cadence: the provider publishes on a 610 second rhythm.
	intervalStr := getenvDefault("FETCH_INTERVAL", "610s")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_INTERVAL: %w", err)
	}
	cfg.FetchInterval = interval

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.RateLimit = getenvFloat("API_RATE_LIMIT", 2)
	cfg.Port = getenvDefault("PORT", "8080")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// resolveCoordinates prefers explicit LATITUDE/LONGITUDE and falls back to
// geocoding the configured city.
func resolveCoordinates() (float64, float64, error) {
	latStr := os.Getenv("LATITUDE")
	lonStr := os.Getenv("LONGITUDE")
	if latStr != "" && lonStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid LATITUDE: %w", err)
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid LONGITUDE: %w", err)
		}
		return lat, lon, nil
	}

	city := os.Getenv("WEATHER_LOCATION_CITY")
	country := os.Getenv("WEATHER_LOCATION_COUNTRY")
	if city == "" {
		return 0, 0, fmt.Errorf("either LATITUDE/LONGITUDE or WEATHER_LOCATION_CITY must be set")
	}

	geocoder.ApiKey = os.Getenv("GOOGLE_API_KEY")
	loc, err := geocoder.Geocoding(geocoder.Address{City: city, Country: country})
	if err != nil {
		return 0, 0, fmt.Errorf("geocoding %q failed: %w", city, err)
	}
	log.Printf("config: resolved %s, %s to %.4f, %.4f", city, country, loc.Latitude, loc.Longitude)
	return loc.Latitude, loc.Longitude, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
