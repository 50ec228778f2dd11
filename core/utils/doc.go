// Package utils provides loose type conversions for vendor payloads and
// query parameters that arrive as strings, numbers or bytes.
package utils
