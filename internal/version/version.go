// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// UserAgent identifies outbound HTTP requests.
const UserAgent = "ls-ephemeris/" + Version

// Milestones:
// 0.3.0 - HTTP API, Prometheus metrics, live sky view
// 0.2.0 - JPL DE dataset download and caching, seasons and twilight
// 0.1.0 - Initial release: rise/set, moon phase, daily path
