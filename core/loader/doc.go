// Package loader provides the feature loading system for the status API.
//
// Each feature implements the Feature interface, which names it, reports
// whether it can run with the current configuration and registers its routes.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// # Manager
//
// The Manager holds the registry of features. Register adds one; LoadAll
// loads the enabled ones in registration order and stops at the first error.
// Features such as 'inventory' and 'integrity' are developed and tested in
// isolation and only meet here.
package loader
