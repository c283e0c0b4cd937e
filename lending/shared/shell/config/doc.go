// Package config loads the lendingd configuration and builds PostgreSQL connection pools.
//
// Values come from command-line flags, then LENDING_* environment variables, then a .env file,
// then defaults, in that order of precedence. The result is validated with go-playground/validator.
package config
