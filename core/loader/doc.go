// Package loader provides the plugin-like feature loading system.
//
// Each feature (freight orders, events, tracking, integrity) implements the
// Feature interface and is registered with a Manager at startup:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(router fiber.Router) error
//	}
//
// LoadAll loads the enabled features in registration order onto the /api
// router. A feature that fails to load aborts startup.
package loader
