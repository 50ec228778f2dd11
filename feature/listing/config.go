package listing

import "time"

// Transport kinds accepted by Config.Kind.
const (
	KindHTTP    = "http"
	KindBrowser = "browser"
	KindReplay  = "replay"
)

// Config selects and tunes the vendor transport.
type Config struct {
	// Kind is http, browser or replay.
	Kind string `mapstructure:"kind" default:"http"`
	// BaseURL is the inventory results endpoint.
	BaseURL string `mapstructure:"base_url" default:"https://www.tesla.com/inventory/api/v4/inventory-results"`
	// RatePerMinute caps outgoing page requests. Zero disables the limiter.
	RatePerMinute int `mapstructure:"rate_per_minute" default:"12"`
	// UserAgent is sent with every HTTP request.
	UserAgent string `mapstructure:"user_agent" default:"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"`
	// Headless runs the browser transport without a window.
	Headless bool `mapstructure:"headless" default:"true"`
	// BrowserBin overrides the browser executable. Empty downloads or finds one.
	BrowserBin string `mapstructure:"browser_bin" default:""`
	// FetchTimeout bounds a single page request.
	FetchTimeout time.Duration `mapstructure:"fetch_timeout" default:"30s"`
	// ReplayPrefix selects the archived cycle to replay. Empty picks the latest.
	ReplayPrefix string `mapstructure:"replay_prefix" default:""`
}
