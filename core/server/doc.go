// Package server holds the HTTP status API configuration.
//
// The main entry point handles the server startup; this package only defines
// the settings it reads: whether the API runs at all, the listen port and the
// API key required on every route.
//
// # Usage
//
// This package is embedded by core/config and read by the start command when
// it mounts the feature routes.
package server
