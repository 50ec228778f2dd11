// Package config provides configuration management for the inventory tracker.
//
// It loads an optional .env file with godotenv, registers every default
// declared in `default:` struct tags with Viper, and maps environment
// variables onto nested keys by replacing dots with underscores.
//
// # Configuration Structure
//
// The Config struct is divided into subsections owned by their packages:
//   - Server: status API toggle, port and API key
//   - Log: logging level and format
//   - Database: driver (postgres, mysql, sqlite) and connection details
//   - Storage: MinIO/S3 credentials and the page archive bucket
//   - Redis: the optional cycle lease
//   - Telemetry: OTLP tracing
//   - Collector: paging, cycle interval, locations, metadata policy,
//     transport and the vendor query
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Collector.Paging.PageSize)
package config
