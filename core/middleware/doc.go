// Package middleware groups the HTTP middleware of the status API.
//
// # Components
//
//   - auth: API key validation (X-API-Key header or api_key query).
//   - rayid: assigns each request a ray id, stores it in the Fiber locals
//     for logger.WithRayID and echoes it in the X-Ray-ID response header.
package middleware
