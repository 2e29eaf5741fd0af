package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultEventsURL is the fixed TikTok Events API conversions endpoint.
// Overridable via TIKTOK_EVENTS_URL so tests can point the relay at a mock.
const DefaultEventsURL = "https://business-api.tiktok.com/open_api/v1.3/pixel/track/"

type Config struct {
	ServerPort      string
	PixelCode       string        // TikTok pixel / account identifier
	AccessToken     string        // carried in the Access-Token header, never logged
	TestEventCode   string        // optional; routes every event to the sandbox stream
	EventsURL       string
	UpstreamTimeout time.Duration
	NestAdContext   bool // true: ttclid under context.ad.callback; false: context.user.ttclid
	LogHashKey      string
}

func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults/environment variables")
	}

	// Defaults
	port := "8080"
	eventsURL := DefaultEventsURL
	timeout := 10 * time.Second
	nestAd := true

	if p := os.Getenv("PORT"); p != "" {
		port = p
	}
	if u := os.Getenv("TIKTOK_EVENTS_URL"); u != "" {
		eventsURL = u
	}
	if t := os.Getenv("UPSTREAM_TIMEOUT"); t != "" {
		if val, err := time.ParseDuration(t); err == nil && val > 0 {
			timeout = val
		}
	}
	if n := os.Getenv("TIKTOK_NEST_AD_CONTEXT"); n != "" {
		if val, err := strconv.ParseBool(n); err == nil {
			nestAd = val
		}
	}

	return &Config{
		ServerPort:      port,
		PixelCode:       os.Getenv("TIKTOK_PIXEL_ID"),
		AccessToken:     os.Getenv("TIKTOK_ACCESS_TOKEN"),
		TestEventCode:   os.Getenv("TIKTOK_TEST_EVENT_CODE"),
		EventsURL:       eventsURL,
		UpstreamTimeout: timeout,
		NestAdContext:   nestAd,
		LogHashKey:      os.Getenv("LOG_HASH_KEY"),
	}
}
