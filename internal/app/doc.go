// Package app is roster's composition root.
//
// # Overview
//
// Bootstrap turns configuration into ready-to-use services: it loads and
// validates config, opens the log file, builds the placeholder.Client and
// wraps it in a placeholder.Service. Both the TUI and the one-shot CLI
// commands start from the same Env.
//
// # Startup
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()         file, .env, environment
//	       ├─────> Config.Validate()     base URL is mandatory
//	       ├─────> logging.New()         file logger, debug level from config
//	       ├─────> placeholder.NewClient()
//	       ├─────> prefs.Load()          saved theme wins over config
//	       └─────> ui.Run()              blocks until quit or cancel
//
// # Error Handling
//
// Fatal errors (returned from Bootstrap and Run):
//   - Configuration file present but unreadable or invalid TOML
//   - Missing or malformed API base URL
//   - Log file cannot be created
//
// Request failures never reach this package; the views show them and let
// the user retry.
package app
