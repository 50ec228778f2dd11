package config

import (
	"reflect"
	"strings"
	"time"

	"inventory-tracker/core/database"
	"inventory-tracker/core/inventory"
	"inventory-tracker/core/lease"
	"inventory-tracker/core/logger"
	"inventory-tracker/core/paginator"
	"inventory-tracker/core/server"
	"inventory-tracker/core/storage"
	"inventory-tracker/core/telemetry"
	"inventory-tracker/feature/listing"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations owned by the packages that use them.
type Config struct {
	// Server holds configuration for the HTTP status API.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Storage holds configuration for the raw page archive.
	Storage storage.Config `mapstructure:"storage"`
	// Redis holds configuration for the cycle lease.
	Redis lease.Config `mapstructure:"redis"`
	// Telemetry holds configuration for tracing.
	Telemetry telemetry.Config `mapstructure:"telemetry"`
	// Collector holds configuration for the collection loop.
	Collector Collector `mapstructure:"collector"`
}

// Collector holds everything a collection cycle needs besides its store.
type Collector struct {
	// Paging controls page size and the delay between pages.
	Paging paginator.Config `mapstructure:"paging"`
	// CycleInterval is the pause after every cycle.
	CycleInterval time.Duration `mapstructure:"cycle_interval" default:"1h"`
	// Locations is the fixed enumeration of valid location names.
	Locations []string `mapstructure:"locations" default:"ACT,NSW,NT,QLD,SA,TAS,VIC,WA"`
	// MetadataPolicy is first_write_wins or last_write_wins.
	MetadataPolicy string `mapstructure:"metadata_policy" default:"first_write_wins"`
	// Archive stores every raw page in object storage.
	Archive bool `mapstructure:"archive" default:"false"`
	// Transport selects and tunes the vendor transport.
	Transport listing.Config `mapstructure:"transport"`
	// Query is the vendor query collected every cycle.
	Query inventory.Query `mapstructure:"query"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// A missing .env is normal in production.
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. COLLECTOR_PAGING_PAGE_SIZE -> collector.paging.page_size)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
