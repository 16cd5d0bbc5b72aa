// Package config loads roster's runtime configuration.
//
// # Overview
//
// Configuration is built once at startup and passed by value to the client,
// the logger and the UI. Nothing reads it through package-level state.
//
// # Sources
//
// Load layers four sources, later ones winning:
//
//  1. Built-in defaults
//  2. The TOML file (explicit path or ~/.config/roster/config.toml)
//  3. A dotenv file (explicit path or ./.env), which never overrides
//     variables already set in the environment
//  4. ROSTER_* environment variables
//
// A missing default file or default .env is not an error. An explicitly named
// file that cannot be read is.
//
// # Default Values
//
//   - API timeout: 10000 ms
//   - App name: roster
//   - App version: 1.0.0
//   - Debug: false
//   - Rate limit: 10 requests per second
//   - Log file: ~/.local/state/roster/roster.log
//   - Theme: Nightfox
//
// There is no default API base URL.
//
// # Configuration Keys
//
//	TOML key          Environment variable
//	api_base_url      ROSTER_API_BASE_URL
//	api_timeout_ms    ROSTER_API_TIMEOUT
//	app_name          ROSTER_APP_NAME
//	app_version       ROSTER_APP_VERSION
//	debug             ROSTER_DEBUG
//	rate_limit        ROSTER_RATE_LIMIT
//	log_file          ROSTER_LOG_FILE
//	theme             ROSTER_THEME
//
// # Parsing Rules
//
// Blank values count as unset. A timeout or rate limit that does not parse as a
// number leaves the earlier value in place. ROSTER_DEBUG enables debug logging
// only when it is exactly "true". A rate limit of 0 or less disables client
// side limiting. Paths starting with ~ expand to the home directory.
//
// # Validation
//
// Validate fails when no source supplied the base URL, or when it is not an
// absolute http or https URL. Callers treat either failure as fatal.
package config
