// Package config loads runtime settings for the prepio CLI.
//
// Sources are applied in order, later ones winning: built-in defaults,
// environment variables (optionally from a .env file), a JSON config file
// given with -c/-config, and command-line flags.
package config
